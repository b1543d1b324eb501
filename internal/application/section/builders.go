// Package section contains the pure page-content builders for the exported
// document. Builders do no I/O: (fetched data, display options) in, ordered
// blocks out.
package section

import (
	"fmt"
	"time"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

// Data is the fetched report bundle handed to every builder.
type Data struct {
	Report     *entity.Report
	Categories []entity.Category
	Variations []entity.Variation
	Company    *entity.CompanyDetails
	Charts     []entity.CapturedChart

	// Partial indica que pelo menos um sub-fetch expirou e foi substituído
	// pelo valor de fallback.
	Partial bool
}

// Options carries the display configuration for one export.
type Options struct {
	Include     map[entity.Section]bool
	GeneratedAt time.Time
	PreparedBy  string
}

// Label é o rótulo do documento: nome do relatório, ou o id como fallback
// quando o fetch do relatório falhou.
func (d Data) Label(fallback string) string {
	if d.Report != nil && d.Report.Name != "" {
		return d.Report.Name
	}
	return fallback
}

// Enabled reports whether a section is included; a nil Include map means
// every section is enabled.
func (o Options) Enabled(s entity.Section) bool {
	if o.Include == nil {
		return true
	}
	return o.Include[s]
}

// builderFor devolve o builder de uma seção.
func builderFor(s entity.Section) func(Data, Options) []entity.Block {
	switch s {
	case entity.SectionCover:
		return Cover
	case entity.SectionTOC:
		return TableOfContents
	case entity.SectionCategoryDetails:
		return CategoryDetails
	case entity.SectionExecutiveSummary:
		return ExecutiveSummary
	case entity.SectionProjectInfo:
		return ProjectInfo
	case entity.SectionLineItems:
		return LineItems
	case entity.SectionVariations:
		return Variations
	case entity.SectionCharts:
		return Charts
	}
	return nil
}

// BuildDocument concatenates the enabled sections in the fixed declared
// order, inserting page breaks between major sections.
func BuildDocument(d Data, o Options) entity.Document {
	doc := entity.Document{Title: d.Label("Cost Report")}

	for _, s := range entity.SectionOrder() {
		if !o.Enabled(s) {
			continue
		}
		builder := builderFor(s)
		if builder == nil {
			continue
		}
		blocks := builder(d, o)
		if len(blocks) == 0 {
			continue
		}
		if len(doc.Blocks) > 0 {
			doc.Blocks = append(doc.Blocks, entity.Block{Kind: entity.BlockPageBreak})
		}
		doc.Blocks = append(doc.Blocks, blocks...)
	}

	return doc
}

// Cover builds the cover page: company letterhead, project, report name
// and date.
func Cover(d Data, o Options) []entity.Block {
	blocks := []entity.Block{}

	if d.Company != nil {
		blocks = append(blocks, entity.Block{Kind: entity.BlockHeading, Text: d.Company.Name})
	}

	blocks = append(blocks,
		entity.Block{Kind: entity.BlockSpacer},
		entity.Block{Kind: entity.BlockHeading, Text: d.Label("Cost Report")},
	)

	pairs := [][2]string{}
	if d.Report != nil {
		if d.Report.ProjectName != "" {
			pairs = append(pairs, [2]string{"Project", d.Report.ProjectName})
		}
		if d.Report.Contract != "" {
			pairs = append(pairs, [2]string{"Contract", d.Report.Contract})
		}
		if !d.Report.ReportDate.IsZero() {
			pairs = append(pairs, [2]string{"Report Date", d.Report.ReportDate.Format("2006-01-02")})
		}
	}
	pairs = append(pairs, [2]string{"Generated", o.GeneratedAt.Format("2006-01-02")})
	if o.PreparedBy != "" {
		pairs = append(pairs, [2]string{"Prepared By", o.PreparedBy})
	}
	blocks = append(blocks, entity.Block{Kind: entity.BlockKeyValue, Pairs: pairs})

	if d.Partial {
		blocks = append(blocks, entity.Block{
			Kind: entity.BlockParagraph,
			Text: "Note: some report data could not be retrieved in time and is shown as empty.",
		})
	}

	return blocks
}

// TableOfContents lista as seções habilitadas na ordem fixa do documento.
func TableOfContents(_ Data, o Options) []entity.Block {
	pairs := [][2]string{}
	n := 0
	for _, s := range entity.SectionOrder() {
		if s == entity.SectionCover || s == entity.SectionTOC {
			continue
		}
		if !o.Enabled(s) {
			continue
		}
		n++
		pairs = append(pairs, [2]string{fmt.Sprintf("%d.", n), entity.SectionTitle(s)})
	}
	if len(pairs) == 0 {
		return nil
	}
	return []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionTOC)},
		{Kind: entity.BlockKeyValue, Pairs: pairs},
	}
}

// CategoryDetails builds one table row per category: budget, anticipated
// final, variance and the SAVING/EXTRA status.
func CategoryDetails(d Data, _ Options) []entity.Block {
	if len(d.Categories) == 0 {
		return nil
	}

	categories := make([]entity.Category, len(d.Categories))
	copy(categories, d.Categories)
	entity.SortCategories(categories)

	rows := make([][]entity.Cell, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []entity.Cell{
			{Text: c.Name},
			{Text: Currency(c.OriginalBudget), Align: "R"},
			{Text: Currency(c.AnticipatedFinal()), Align: "R"},
			varianceCell(c.Variance(), false),
			statusCell(c.Variance(), false),
		})
	}

	return []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionCategoryDetails)},
		{
			Kind:    entity.BlockTable,
			Columns: []string{"Category", "Original Budget", "Anticipated Final", "Variance", "Status"},
			Widths:  []float64{2.2, 1.3, 1.3, 1.3, 0.9},
			Rows:    rows,
		},
	}
}

// ExecutiveSummary builds the per-category summary plus the bold grand
// total row.
func ExecutiveSummary(d Data, _ Options) []entity.Block {
	if len(d.Categories) == 0 {
		return nil
	}

	categories := make([]entity.Category, len(d.Categories))
	copy(categories, d.Categories)
	entity.SortCategories(categories)

	rows := make([][]entity.Cell, 0, len(categories)+1)
	for _, c := range categories {
		rows = append(rows, []entity.Cell{
			{Text: c.Name},
			{Text: Currency(c.OriginalBudget), Align: "R"},
			{Text: Currency(c.AnticipatedFinal()), Align: "R"},
			varianceCell(c.Variance(), false),
			statusCell(c.Variance(), false),
		})
	}

	summary := entity.Summarize(categories)
	rows = append(rows, []entity.Cell{
		{Text: "GRAND TOTAL", Bold: true},
		{Text: Currency(summary.TotalBudget), Align: "R", Bold: true},
		{Text: Currency(summary.TotalFinal), Align: "R", Bold: true},
		varianceCell(summary.TotalVariance, true),
		statusCell(summary.TotalVariance, true),
	})

	return []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionExecutiveSummary)},
		{
			Kind:    entity.BlockTable,
			Columns: []string{"Category", "Original Budget", "Anticipated Final", "Variance", "Status"},
			Widths:  []float64{2.2, 1.3, 1.3, 1.3, 0.9},
			Rows:    rows,
		},
	}
}

// ProjectInfo builds the project and company information section.
func ProjectInfo(d Data, _ Options) []entity.Block {
	pairs := [][2]string{}
	if d.Report != nil {
		pairs = append(pairs,
			[2]string{"Project", d.Report.ProjectName},
			[2]string{"Report", d.Report.Name},
			[2]string{"Type", d.Report.Kind},
		)
		if d.Report.Contract != "" {
			pairs = append(pairs, [2]string{"Contract", d.Report.Contract})
		}
	}
	if d.Company != nil {
		pairs = append(pairs, [2]string{"Consulting Engineers", d.Company.Name})
		if d.Company.Address != "" {
			pairs = append(pairs, [2]string{"Address", d.Company.Address})
		}
		if d.Company.Phone != "" {
			pairs = append(pairs, [2]string{"Phone", d.Company.Phone})
		}
		if d.Company.Email != "" {
			pairs = append(pairs, [2]string{"Email", d.Company.Email})
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	return []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionProjectInfo)},
		{Kind: entity.BlockKeyValue, Pairs: pairs},
	}
}

// LineItems builds one subsection per category listing its leaf records.
func LineItems(d Data, _ Options) []entity.Block {
	if len(d.Categories) == 0 {
		return nil
	}

	categories := make([]entity.Category, len(d.Categories))
	copy(categories, d.Categories)
	entity.SortCategories(categories)

	blocks := []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionLineItems)},
	}
	for _, c := range categories {
		if len(c.LineItems) == 0 {
			continue
		}
		rows := make([][]entity.Cell, 0, len(c.LineItems)+1)
		for _, item := range c.LineItems {
			rows = append(rows, []entity.Cell{
				{Text: item.Description},
				{Text: Currency(item.Amount), Align: "R"},
			})
		}
		rows = append(rows, []entity.Cell{
			{Text: "Subtotal", Bold: true},
			{Text: Currency(c.AnticipatedFinal()), Align: "R", Bold: true},
		})
		blocks = append(blocks,
			entity.Block{Kind: entity.BlockSubheading, Text: c.Name},
			entity.Block{
				Kind:    entity.BlockTable,
				Columns: []string{"Description", "Amount"},
				Widths:  []float64{3, 1},
				Rows:    rows,
			},
		)
	}

	if len(blocks) == 1 {
		return nil
	}
	return blocks
}

// Variations builds the change-order table with its running total.
func Variations(d Data, _ Options) []entity.Block {
	if len(d.Variations) == 0 {
		return nil
	}

	rows := make([][]entity.Cell, 0, len(d.Variations)+1)
	for _, v := range d.Variations {
		tenant := v.TenantID
		if tenant == "" {
			tenant = "-"
		}
		rows = append(rows, []entity.Cell{
			{Text: v.Code},
			{Text: v.Description},
			{Text: tenant},
			{Text: Currency(v.Amount), Align: "R"},
		})
	}
	rows = append(rows, []entity.Cell{
		{Text: "TOTAL", Bold: true},
		{Text: ""},
		{Text: ""},
		{Text: Currency(entity.VariationsTotal(d.Variations)), Align: "R", Bold: true},
	})

	return []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionVariations)},
		{
			Kind:    entity.BlockTable,
			Columns: []string{"Code", "Description", "Tenant", "Amount"},
			Widths:  []float64{0.8, 2.6, 1, 1.2},
			Rows:    rows,
		},
	}
}

// Charts embeds the captured chart images. Missing charts were already
// skipped by the capturer, so an empty slice simply omits the section.
func Charts(d Data, _ Options) []entity.Block {
	if len(d.Charts) == 0 {
		return nil
	}

	blocks := []entity.Block{
		{Kind: entity.BlockHeading, Text: entity.SectionTitle(entity.SectionCharts)},
	}
	for i := range d.Charts {
		chart := d.Charts[i]
		blocks = append(blocks,
			entity.Block{Kind: entity.BlockSubheading, Text: chart.Title},
			entity.Block{Kind: entity.BlockImage, Image: &chart},
		)
	}
	return blocks
}
