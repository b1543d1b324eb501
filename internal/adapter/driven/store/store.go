// Package store provides the SQLite-backed project database adapter.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
	"github.com/wattbuild/costreport-go/internal/shared/types"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store implementa o ReportRepository sobre SQLite.
type Store struct {
	db *sql.DB
}

var _ repository.ReportRepository = (*Store)(nil)

// Open opens or creates the project database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening project database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the project database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListReports retorna todos os relatórios, mais recentes primeiro.
func (s *Store) ListReports(ctx context.Context) ([]entity.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, project_name, name, kind, contract, report_date
		 FROM reports ORDER BY report_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []entity.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetReport busca um único relatório pelo id.
func (s *Store) GetReport(ctx context.Context, reportID string) (*entity.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, project_name, name, kind, contract, report_date
		 FROM reports WHERE id = ?`, reportID)

	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting report %s: %w", reportID, err)
	}
	return &r, nil
}

// GetCategories retorna as categorias do relatório com seus line items
// aninhados, ordenadas pelo display index.
func (s *Store) GetCategories(ctx context.Context, reportID string) ([]entity.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, name, display_index, original_budget
		 FROM categories WHERE report_id = ? ORDER BY display_index, name`, reportID)
	if err != nil {
		return nil, fmt.Errorf("listing categories for %s: %w", reportID, err)
	}
	defer func() { _ = rows.Close() }()

	var categories []entity.Category
	index := map[string]int{}
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.ReportID, &c.Name, &c.DisplayIndex, &c.OriginalBudget); err != nil {
			return nil, err
		}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Uma única query para os line items de todas as categorias.
	itemRows, err := s.db.QueryContext(ctx,
		`SELECT li.id, li.category_id, li.description, li.amount
		 FROM line_items li
		 JOIN categories c ON c.id = li.category_id
		 WHERE c.report_id = ? ORDER BY li.id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("listing line items for %s: %w", reportID, err)
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var item entity.LineItem
		if err := itemRows.Scan(&item.ID, &item.CategoryID, &item.Description, &item.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[item.CategoryID]; ok {
			categories[i].LineItems = append(categories[i].LineItems, item)
		}
	}
	return categories, itemRows.Err()
}

// GetVariations retorna as variações do relatório, ordenadas pelo número
// embutido no código.
func (s *Store) GetVariations(ctx context.Context, reportID string) ([]entity.Variation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, tenant_id, code, description, amount, status
		 FROM variations WHERE report_id = ?`, reportID)
	if err != nil {
		return nil, fmt.Errorf("listing variations for %s: %w", reportID, err)
	}
	defer func() { _ = rows.Close() }()

	var variations []entity.Variation
	for rows.Next() {
		var v entity.Variation
		if err := rows.Scan(&v.ID, &v.ReportID, &v.TenantID, &v.Code, &v.Description, &v.Amount, &v.Status); err != nil {
			return nil, err
		}
		variations = append(variations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entity.SortVariationsByCode(variations)
	return variations, nil
}

// GetCompanyDetails retorna os dados da empresa, ou nil quando não houver.
func (s *Store) GetCompanyDetails(ctx context.Context) (*entity.CompanyDetails, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, registration_no, address, phone, email, website
		 FROM company_settings WHERE id = 1`)

	var c entity.CompanyDetails
	err := row.Scan(&c.Name, &c.RegistrationNo, &c.Address, &c.Phone, &c.Email, &c.Website)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting company details: %w", err)
	}
	return &c, nil
}

// ReportBundle é o formato usado pelo comando seed para importar dados.
type ReportBundle struct {
	Report     entity.Report          `json:"report"`
	Categories []entity.Category      `json:"categories"`
	Variations []entity.Variation     `json:"variations"`
	Company    *entity.CompanyDetails `json:"company,omitempty"`
}

// SaveBundle grava um relatório completo em uma transação.
func (s *Store) SaveBundle(ctx context.Context, bundle ReportBundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	r := bundle.Report
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (id, project_id, project_name, name, kind, contract, report_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ProjectID, r.ProjectName, r.Name, r.Kind, r.Contract,
		r.ReportDate.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving report %s: %w", r.ID, err)
	}

	// Substitui categorias, line items e variações existentes do relatório.
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE report_id = ?`, r.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM variations WHERE report_id = ?`, r.ID); err != nil {
		return err
	}

	for _, c := range bundle.Categories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, report_id, name, display_index, original_budget)
			 VALUES (?, ?, ?, ?, ?)`,
			c.ID, r.ID, c.Name, c.DisplayIndex, c.OriginalBudget)
		if err != nil {
			return fmt.Errorf("saving category %s: %w", c.ID, err)
		}
		for _, item := range c.LineItems {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO line_items (id, category_id, description, amount)
				 VALUES (?, ?, ?, ?)`,
				item.ID, c.ID, item.Description, item.Amount)
			if err != nil {
				return fmt.Errorf("saving line item %s: %w", item.ID, err)
			}
		}
	}

	for _, v := range bundle.Variations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO variations (id, report_id, tenant_id, code, description, amount, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.ID, r.ID, v.TenantID, v.Code, v.Description, v.Amount, v.Status)
		if err != nil {
			return fmt.Errorf("saving variation %s: %w", v.ID, err)
		}
	}

	if bundle.Company != nil {
		c := bundle.Company
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO company_settings (id, name, registration_no, address, phone, email, website)
			 VALUES (1, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.RegistrationNo, c.Address, c.Phone, c.Email, c.Website)
		if err != nil {
			return fmt.Errorf("saving company details: %w", err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (entity.Report, error) {
	var r entity.Report
	var reportDate string
	err := row.Scan(&r.ID, &r.ProjectID, &r.ProjectName, &r.Name, &r.Kind, &r.Contract, &reportDate)
	if err != nil {
		return r, err
	}
	if ts, perr := time.Parse(time.RFC3339, reportDate); perr == nil {
		r.ReportDate = ts
	}
	return r, nil
}
