package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/shared/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "project.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testBundle() ReportBundle {
	return ReportBundle{
		Report: entity.Report{
			ID:          "rep-001",
			ProjectID:   "prj-houghton",
			ProjectName: "Houghton Office Park",
			Name:        "Cost Report 07",
			Kind:        "cost",
			Contract:    "C-2041",
			ReportDate:  time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Categories: []entity.Category{
			{
				ID: "cat-b", ReportID: "rep-001", Name: "Standby Generation", DisplayIndex: 2,
				OriginalBudget: 3_100_000,
				LineItems: []entity.LineItem{
					{ID: "li-3", CategoryID: "cat-b", Description: "Generator sets", Amount: 2_800_000},
					{ID: "li-4", CategoryID: "cat-b", Description: "Fuel systems", Amount: 250_000},
				},
			},
			{
				ID: "cat-a", ReportID: "rep-001", Name: "MV Reticulation", DisplayIndex: 1,
				OriginalBudget: 5_200_000,
				LineItems: []entity.LineItem{
					{ID: "li-1", CategoryID: "cat-a", Description: "Cabling", Amount: 3_450_000},
					{ID: "li-2", CategoryID: "cat-a", Description: "Switchgear", Amount: 2_000_000},
				},
			},
		},
		Variations: []entity.Variation{
			{ID: "var-2", ReportID: "rep-001", Code: "VO-12", Description: "Extra DB boards", Amount: 85_000},
			{ID: "var-1", ReportID: "rep-001", Code: "VO-2", Description: "Tenant metering", Amount: 42_000},
			{ID: "var-3", ReportID: "rep-001", Code: "PC-sum", Description: "Provisional", Amount: 10_000},
		},
		Company: &entity.CompanyDetails{Name: "Watt & Build Consulting Engineers", Email: "info@wattbuild.example"},
	}
}

func TestStore_SaveAndFetchBundle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBundle(ctx, testBundle()))

	report, err := s.GetReport(ctx, "rep-001")
	require.NoError(t, err)
	assert.Equal(t, "Cost Report 07", report.Name)
	assert.Equal(t, "Houghton Office Park", report.ProjectName)

	categories, err := s.GetCategories(ctx, "rep-001")
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Ordenadas pelo display index, com line items aninhados.
	assert.Equal(t, "MV Reticulation", categories[0].Name)
	require.Len(t, categories[0].LineItems, 2)
	assert.InDelta(t, 5_450_000, categories[0].AnticipatedFinal(), 0.01)
	assert.InDelta(t, 3_050_000, categories[1].AnticipatedFinal(), 0.01)

	company, err := s.GetCompanyDetails(ctx)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "Watt & Build Consulting Engineers", company.Name)
}

func TestStore_GetVariationsSortedByNumericCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveBundle(ctx, testBundle()))

	variations, err := s.GetVariations(ctx, "rep-001")
	require.NoError(t, err)
	require.Len(t, variations, 3)

	// VO-2 antes de VO-12; código sem número por último.
	assert.Equal(t, "VO-2", variations[0].Code)
	assert.Equal(t, "VO-12", variations[1].Code)
	assert.Equal(t, "PC-sum", variations[2].Code)
}

func TestStore_GetReportNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrReportNotFound)
}

func TestStore_EmptyDatabaseFallbacks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	categories, err := s.GetCategories(ctx, "rep-x")
	require.NoError(t, err)
	assert.Empty(t, categories)

	company, err := s.GetCompanyDetails(ctx)
	require.NoError(t, err)
	assert.Nil(t, company)
}

func TestStore_SaveBundleReplacesExistingRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	bundle := testBundle()
	require.NoError(t, s.SaveBundle(ctx, bundle))

	bundle.Categories = bundle.Categories[:1]
	bundle.Variations = nil
	require.NoError(t, s.SaveBundle(ctx, bundle))

	categories, err := s.GetCategories(ctx, "rep-001")
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	variations, err := s.GetVariations(ctx, "rep-001")
	require.NoError(t, err)
	assert.Empty(t, variations)
}
