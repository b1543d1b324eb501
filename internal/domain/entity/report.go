package entity

import (
	"sort"
	"time"
)

// Report represents a named, dated cost report tied to one project.
type Report struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"` // cost, tenant, cable-schedule, bulk-services
	Contract    string    `json:"contract,omitempty"`
	ReportDate  time.Time `json:"report_date"`
}

// LineItem is the leaf financial record under a category.
type LineItem struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Category is a cost/budget grouping within a report, ordered by DisplayIndex.
type Category struct {
	ID             string     `json:"id"`
	ReportID       string     `json:"report_id"`
	Name           string     `json:"name"`
	DisplayIndex   int        `json:"display_index"`
	OriginalBudget float64    `json:"original_budget"`
	LineItems      []LineItem `json:"line_items"`
}

// AnticipatedFinal é o total da categoria: soma dos seus line items.
func (c Category) AnticipatedFinal() float64 {
	total := 0.0
	for _, item := range c.LineItems {
		total += item.Amount
	}
	return total
}

// Variance é anticipated final menos original budget. Negativo = saving,
// positivo = extra.
func (c Category) Variance() float64 {
	return c.AnticipatedFinal() - c.OriginalBudget
}

// ReportSummary holds the grand totals across all categories of a report.
type ReportSummary struct {
	TotalBudget   float64 `json:"total_budget"`
	TotalFinal    float64 `json:"total_final"`
	TotalVariance float64 `json:"total_variance"`
}

// Summarize computes the grand totals from category totals.
func Summarize(categories []Category) ReportSummary {
	var s ReportSummary
	for _, c := range categories {
		s.TotalBudget += c.OriginalBudget
		s.TotalFinal += c.AnticipatedFinal()
	}
	s.TotalVariance = s.TotalFinal - s.TotalBudget
	return s
}

// SortCategories ordena as categorias pelo display index, estável por nome.
func SortCategories(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].DisplayIndex != categories[j].DisplayIndex {
			return categories[i].DisplayIndex < categories[j].DisplayIndex
		}
		return categories[i].Name < categories[j].Name
	})
}
