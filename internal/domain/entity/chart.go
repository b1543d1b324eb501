package entity

// ChartKind selects which chart the capturer renders.
type ChartKind int

const (
	ChartBudgetVsFinal ChartKind = iota
	ChartCostSplit
)

// ChartRequest is the explicit handle passed to the capture routine: the
// chart contents plus the deterministic pixel dimensions of the output.
type ChartRequest struct {
	Kind       ChartKind
	Title      string
	Width      int
	Height     int
	Categories []Category
}

// CapturedChart é uma imagem rasterizada efêmera de um gráfico; existe
// apenas durante uma exportação e nunca é persistida sozinha.
type CapturedChart struct {
	Title  string
	PNG    []byte
	Width  int
	Height int
}
