package entity

// BlockKind identifica o tipo de um bloco de conteúdo de página.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockSubheading
	BlockParagraph
	BlockKeyValue
	BlockTable
	BlockImage
	BlockSpacer
	BlockPageBreak
)

// Emphasis selects the color treatment for a rendered value. Negative
// variances use EmphasisSuccess, positive use EmphasisDanger.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisSuccess
	EmphasisDanger
)

// Cell is a single table cell with its emphasis and alignment.
type Cell struct {
	Text     string
	Emphasis Emphasis
	Align    string // "L", "C" or "R"; empty means "L"
	Bold     bool
}

// Block is one page-content block. Exactly one group of fields is used,
// depending on Kind.
type Block struct {
	Kind BlockKind

	// Heading, subheading and paragraph text.
	Text string

	// Key/value pairs.
	Pairs [][2]string

	// Table columns, relative widths and rows.
	Columns []string
	Widths  []float64
	Rows    [][]Cell

	// Embedded chart image.
	Image *CapturedChart
}

// Document é a descrição completa de um documento, pronta para o renderer.
type Document struct {
	Title  string
	Blocks []Block
}

// Margins are the page margins in millimeters.
type Margins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// DefaultMargins são as margens usadas quando o usuário não configura nada.
func DefaultMargins() Margins {
	return Margins{Left: 15, Top: 20, Right: 15, Bottom: 20}
}

// PageOptions configure the rendering engine for one export.
type PageOptions struct {
	Margins     Margins
	Orientation string // "P" or "L"
	Size        string // "A4" or "Letter"
}

// Section names one exportable portion of the document.
type Section string

const (
	SectionCover            Section = "cover"
	SectionTOC              Section = "toc"
	SectionCategoryDetails  Section = "categories"
	SectionExecutiveSummary Section = "summary"
	SectionProjectInfo      Section = "project"
	SectionLineItems        Section = "line-items"
	SectionVariations       Section = "variations"
	SectionCharts           Section = "charts"
)

// SectionOrder is the fixed order in which enabled sections are assembled.
func SectionOrder() []Section {
	return []Section{
		SectionCover,
		SectionTOC,
		SectionCategoryDetails,
		SectionExecutiveSummary,
		SectionProjectInfo,
		SectionLineItems,
		SectionVariations,
		SectionCharts,
	}
}

// SectionTitle returns the human title used in the TOC and section headings.
func SectionTitle(s Section) string {
	switch s {
	case SectionCover:
		return "Cover"
	case SectionTOC:
		return "Table of Contents"
	case SectionCategoryDetails:
		return "Category Details"
	case SectionExecutiveSummary:
		return "Executive Summary"
	case SectionProjectInfo:
		return "Project Information"
	case SectionLineItems:
		return "Line Items"
	case SectionVariations:
		return "Variations"
	case SectionCharts:
		return "Visual Summary"
	}
	return string(s)
}
