package entity

import (
	"regexp"
	"sort"
	"strconv"
)

// Variation is a contract change order against the original contract,
// associated with a report and optionally a tenant.
type Variation struct {
	ID          string  `json:"id"`
	ReportID    string  `json:"report_id"`
	TenantID    string  `json:"tenant_id,omitempty"`
	Code        string  `json:"code"` // e.g. "VO-012"
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status,omitempty"`
}

var variationCodeRegex = regexp.MustCompile(`(\d+)`)

// codeNumber extrai o número embutido no código da variação ("VO-12" -> 12).
// Códigos sem número ficam por último na ordenação.
func (v Variation) codeNumber() (int, bool) {
	match := variationCodeRegex.FindString(v.Code)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortVariationsByCode sorts variations by the numeric code embedded in the
// code string; ties and non-numeric codes fall back to the raw string.
func SortVariationsByCode(variations []Variation) {
	sort.SliceStable(variations, func(i, j int) bool {
		ni, oki := variations[i].codeNumber()
		nj, okj := variations[j].codeNumber()
		if oki && okj && ni != nj {
			return ni < nj
		}
		if oki != okj {
			return oki
		}
		return variations[i].Code < variations[j].Code
	})
}

// VariationsTotal soma os valores de todas as variações.
func VariationsTotal(variations []Variation) float64 {
	total := 0.0
	for _, v := range variations {
		total += v.Amount
	}
	return total
}
