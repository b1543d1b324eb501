package repository

import (
	"context"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
)

// ReportRepository defines the row-returning query interface over the
// project database, keyed by report id.
type ReportRepository interface {
	ListReports(ctx context.Context) ([]entity.Report, error)
	GetReport(ctx context.Context, reportID string) (*entity.Report, error)

	// GetCategories returns the report categories with their nested line
	// items, ordered by display index.
	GetCategories(ctx context.Context, reportID string) ([]entity.Category, error)

	// GetVariations returns the report variations sorted by the numeric
	// code embedded in the code string.
	GetVariations(ctx context.Context, reportID string) ([]entity.Variation, error)

	GetCompanyDetails(ctx context.Context) (*entity.CompanyDetails, error)
}
