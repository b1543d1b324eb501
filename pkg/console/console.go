package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/wattbuild/costreport-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BoldRed       = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightRed     = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Exporting report").
		WithShowElapsedTime(true).
		WithShowCount(false).
		WithRemoveWhenDone(false). // Manter a barra após concluir
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Add avança a barra pelo delta dado; é como o tracker ponderado empurra os
// percentuais para a barra.
func (h *progressHandle) Add(delta int) {
	if h.bar != nil && delta > 0 {
		h.bar.Add(delta)
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Confirm pergunta sim/não ao usuário e devolve a resposta.
func (c *Console) Confirm(message string) bool {
	result, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(message)
	return result
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	// Convertemos cada célula para string
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	// Use o pterm para criar uma tabela visualmente agradável
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayVarianceBars exibe uma barra por categoria comparando o orçamento
// original com o anticipated final.
func (c *Console) DisplayVarianceBars(rows []types.VarianceBar) {
	// Encontra o valor máximo para escala
	maxValue := 0.0
	for _, row := range rows {
		if row.Budget > maxValue {
			maxValue = row.Budget
		}
		if row.Final > maxValue {
			maxValue = row.Final
		}
	}

	if maxValue == 0 {
		pterm.Warning.Println("All categories are R 0.00 for this report")
		return
	}

	tableData := pterm.TableData{
		{"Category", "Anticipated Final", "", "Variance"},
	}

	for _, row := range rows {
		// Calcula tamanho da barra
		barLength := int((row.Final / maxValue) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		variance := ""

		switch {
		case row.Variance > 0:
			// Custo acima do orçamento
			variance = pterm.FgRed.Sprintf("+R %.2f EXTRA", row.Variance)
			barColor = pterm.FgRed.Sprint(bar)
		case row.Variance < 0:
			variance = pterm.FgGreen.Sprintf("-R %.2f SAVING", math.Abs(row.Variance))
			barColor = pterm.FgGreen.Sprint(bar)
		default:
			variance = pterm.FgYellow.Sprint("R 0.00")
			barColor = pterm.FgYellow.Sprint(bar)
		}

		tableData = append(tableData, []string{
			row.Label,
			fmt.Sprintf("R %.2f", row.Final),
			barColor,
			variance,
		})
	}

	// Renderiza a tabela
	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	// Cria um panel em volta da tabela
	panel := pterm.DefaultBox.WithTitle("Budget vs Anticipated Final").WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Println("\n" + panel)
}
