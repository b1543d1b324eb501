package section

import (
	"fmt"
	"strings"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

// varianceEpsilon: abaixo disso a variação é tratada como zero.
const varianceEpsilon = 0.005

// Currency formats an amount with the fixed report convention:
// "R 5,200,000.00", negatives as "-R 200,000.00".
func Currency(v float64) string {
	if v < 0 {
		return "-R " + groupThousands(fmt.Sprintf("%.2f", -v))
	}
	return "R " + groupThousands(fmt.Sprintf("%.2f", v))
}

// SignedCurrency renders an explicit sign, used for variance values.
func SignedCurrency(v float64) string {
	if v < -varianceEpsilon {
		return "-R " + groupThousands(fmt.Sprintf("%.2f", -v))
	}
	if v > varianceEpsilon {
		return "+R " + groupThousands(fmt.Sprintf("%.2f", v))
	}
	return "R " + groupThousands("0.00")
}

// VarianceLabel maps a variance to its label and emphasis. Negative means
// the project is under budget: "SAVING", success color. Positive means
// "EXTRA", danger color. Zero gets neither.
func VarianceLabel(v float64) (string, entity.Emphasis) {
	switch {
	case v < -varianceEpsilon:
		return "SAVING", entity.EmphasisSuccess
	case v > varianceEpsilon:
		return "EXTRA", entity.EmphasisDanger
	default:
		return "", entity.EmphasisNone
	}
}

// varianceCell monta a célula de variação com valor assinado e ênfase.
func varianceCell(v float64, bold bool) entity.Cell {
	_, emphasis := VarianceLabel(v)
	return entity.Cell{Text: SignedCurrency(v), Emphasis: emphasis, Align: "R", Bold: bold}
}

// statusCell monta a célula SAVING/EXTRA correspondente à variação.
func statusCell(v float64, bold bool) entity.Cell {
	label, emphasis := VarianceLabel(v)
	return entity.Cell{Text: label, Emphasis: emphasis, Align: "C", Bold: bold}
}

// groupThousands insere separadores de milhar em um valor "1234567.89".
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + fracPart
}
