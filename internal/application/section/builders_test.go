package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

func sampleData() Data {
	return Data{
		Report: &entity.Report{
			ID: "rep-001", ProjectID: "prj-1", ProjectName: "Houghton Office Park",
			Name: "Cost Report 07", Kind: "cost", Contract: "C-2041",
			ReportDate: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Categories: []entity.Category{
			{
				ID: "cat-a", Name: "MV Reticulation", DisplayIndex: 1, OriginalBudget: 5_200_000,
				LineItems: []entity.LineItem{
					{ID: "li-1", Description: "Cabling", Amount: 3_450_000},
					{ID: "li-2", Description: "Switchgear", Amount: 2_000_000},
				},
			},
			{
				ID: "cat-b", Name: "Standby Generation", DisplayIndex: 2, OriginalBudget: 3_100_000,
				LineItems: []entity.LineItem{
					{ID: "li-3", Description: "Generator sets", Amount: 3_050_000},
				},
			},
		},
		Variations: []entity.Variation{
			{ID: "var-1", Code: "VO-2", Description: "Tenant metering", Amount: 42_000},
		},
		Company: &entity.CompanyDetails{Name: "Watt & Build Consulting Engineers"},
	}
}

func findTable(t *testing.T, blocks []entity.Block) entity.Block {
	t.Helper()
	for _, b := range blocks {
		if b.Kind == entity.BlockTable {
			return b
		}
	}
	t.Fatal("no table block found")
	return entity.Block{}
}

func TestCurrencyFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R 0.00"},
		{12.5, "R 12.50"},
		{1_234.56, "R 1,234.56"},
		{8_300_000, "R 8,300,000.00"},
		{-200_000, "-R 200,000.00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Currency(tc.in))
	}
}

func TestVarianceLabelSignConvention(t *testing.T) {
	label, emphasis := VarianceLabel(-50_000)
	assert.Equal(t, "SAVING", label)
	assert.Equal(t, entity.EmphasisSuccess, emphasis)

	label, emphasis = VarianceLabel(200_000)
	assert.Equal(t, "EXTRA", label)
	assert.Equal(t, entity.EmphasisDanger, emphasis)

	label, emphasis = VarianceLabel(0)
	assert.Equal(t, "", label)
	assert.Equal(t, entity.EmphasisNone, emphasis)
}

func TestExecutiveSummaryGrandTotalRow(t *testing.T) {
	blocks := ExecutiveSummary(sampleData(), Options{})
	table := findTable(t, blocks)

	require.Len(t, table.Rows, 3)
	total := table.Rows[2]
	require.Len(t, total, 5)

	assert.Equal(t, "GRAND TOTAL", total[0].Text)
	assert.True(t, total[0].Bold)
	assert.Equal(t, "R 8,300,000.00", total[1].Text)
	assert.Equal(t, "R 8,500,000.00", total[2].Text)
	assert.Equal(t, "+R 200,000.00", total[3].Text)
	assert.Equal(t, entity.EmphasisDanger, total[3].Emphasis)
	assert.Equal(t, "EXTRA", total[4].Text)
	assert.Equal(t, entity.EmphasisDanger, total[4].Emphasis)
}

func TestExecutiveSummaryPerCategoryEmphasis(t *testing.T) {
	blocks := ExecutiveSummary(sampleData(), Options{})
	table := findTable(t, blocks)

	// MV Reticulation está acima do orçamento: EXTRA / danger.
	assert.Equal(t, "EXTRA", table.Rows[0][4].Text)
	assert.Equal(t, entity.EmphasisDanger, table.Rows[0][4].Emphasis)

	// Standby Generation está abaixo: SAVING / success.
	assert.Equal(t, "SAVING", table.Rows[1][4].Text)
	assert.Equal(t, entity.EmphasisSuccess, table.Rows[1][4].Emphasis)
}

func TestCategoryTotalsMatchLineItems(t *testing.T) {
	d := sampleData()
	for _, c := range d.Categories {
		sum := 0.0
		for _, item := range c.LineItems {
			sum += item.Amount
		}
		assert.InDelta(t, sum, c.AnticipatedFinal(), 0.001)
	}

	summary := entity.Summarize(d.Categories)
	assert.InDelta(t, 8_300_000, summary.TotalBudget, 0.001)
	assert.InDelta(t, 8_500_000, summary.TotalFinal, 0.001)
	assert.InDelta(t, 200_000, summary.TotalVariance, 0.001)
}

func TestBuildDocumentSectionOrderAndPageBreaks(t *testing.T) {
	doc := BuildDocument(sampleData(), Options{GeneratedAt: time.Now()})
	require.NotEmpty(t, doc.Blocks)

	var headings []string
	breaks := 0
	for _, b := range doc.Blocks {
		if b.Kind == entity.BlockHeading {
			headings = append(headings, b.Text)
		}
		if b.Kind == entity.BlockPageBreak {
			breaks++
		}
	}

	// Charts section has no captured charts and is omitted; the rest keeps
	// the fixed declared order.
	assert.Equal(t, []string{
		"Watt & Build Consulting Engineers",
		"Cost Report 07",
		"Table of Contents",
		"Category Details",
		"Executive Summary",
		"Project Information",
		"Line Items",
		"Variations",
	}, headings)
	assert.Equal(t, 6, breaks)
}

func TestBuildDocumentHonorsSectionSelection(t *testing.T) {
	doc := BuildDocument(sampleData(), Options{
		GeneratedAt: time.Now(),
		Include: map[entity.Section]bool{
			entity.SectionExecutiveSummary: true,
		},
	})

	require.NotEmpty(t, doc.Blocks)
	assert.Equal(t, entity.BlockHeading, doc.Blocks[0].Kind)
	assert.Equal(t, "Executive Summary", doc.Blocks[0].Text)
}

func TestBuildersArePureOnEmptyData(t *testing.T) {
	empty := Data{}
	assert.Nil(t, CategoryDetails(empty, Options{}))
	assert.Nil(t, ExecutiveSummary(empty, Options{}))
	assert.Nil(t, LineItems(empty, Options{}))
	assert.Nil(t, Variations(empty, Options{}))
	assert.Nil(t, Charts(empty, Options{}))
	assert.Equal(t, "rep-42", empty.Label("rep-42"))
}
