package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattbuild/costreport-go/internal/application/usecase"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/shared/types"
)

type stubRepo struct{}

func (stubRepo) ListReports(ctx context.Context) ([]entity.Report, error) {
	return []entity.Report{{ID: "rep-001", Name: "Hillside Substation", Kind: "cost"}}, nil
}

func (stubRepo) GetReport(ctx context.Context, reportID string) (*entity.Report, error) {
	if reportID != "rep-001" {
		return nil, types.ErrReportNotFound
	}
	return &entity.Report{ID: "rep-001", Name: "Hillside Substation", Kind: "cost"}, nil
}

func (stubRepo) GetCategories(ctx context.Context, reportID string) ([]entity.Category, error) {
	return []entity.Category{
		{
			ID: "cat-a", Name: "MV Reticulation", OriginalBudget: 5200000,
			LineItems: []entity.LineItem{{Description: "Cabling", Amount: 3450000}, {Description: "Switchgear", Amount: 2000000}},
		},
		{
			ID: "cat-b", Name: "Standby Generation", OriginalBudget: 3100000,
			LineItems: []entity.LineItem{{Description: "Generator sets", Amount: 2800000}, {Description: "Fuel systems", Amount: 250000}},
		},
	}, nil
}

func (stubRepo) GetVariations(ctx context.Context, reportID string) ([]entity.Variation, error) {
	return nil, nil
}

func (stubRepo) GetCompanyDetails(ctx context.Context) (*entity.CompanyDetails, error) {
	return &entity.CompanyDetails{Name: "WattBuild Consulting"}, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, doc entity.Document, opts entity.PageOptions) ([]byte, int, error) {
	return []byte("%PDF-1.4 stub"), 4, nil
}

type stubCapturer struct{}

func (stubCapturer) Capture(ctx context.Context, req entity.ChartRequest) (*entity.CapturedChart, error) {
	return nil, nil
}

type stubConfigRepo struct{}

func (stubConfigRepo) LoadConfigFile(filePath string) (*types.Config, error) {
	return &types.Config{}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	exportUC := usecase.NewExportUseCase(stubRepo{}, stubRenderer{}, stubCapturer{}, nil, stubConfigRepo{}, nil)
	handler := NewHandler(stubRepo{}, exportUC)
	return NewServer(zerolog.Nop(), Config{Addr: ":0"}, handler)
}

func TestNewServerShutdownTimeout(t *testing.T) {
	exportUC := usecase.NewExportUseCase(stubRepo{}, stubRenderer{}, stubCapturer{}, nil, stubConfigRepo{}, nil)
	handler := NewHandler(stubRepo{}, exportUC)

	s := NewServer(zerolog.Nop(), Config{Addr: ":0", ShutdownTimeout: 3 * time.Second}, handler)
	assert.Equal(t, 3*time.Second, s.shutdownTimeout)

	// Sem valor configurado, aplica o deadline padrão.
	s = NewServer(zerolog.Nop(), Config{Addr: ":0"}, handler)
	assert.Equal(t, 10*time.Second, s.shutdownTimeout)
}

func doRequest(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	newTestServer(t).Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListReports(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/reports")

	require.Equal(t, http.StatusOK, rec.Code)
	var reports []entity.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "Hillside Substation", reports[0].Name)
}

func TestGetReportSummary(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/reports/rep-001/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Summary    entity.ReportSummary `json:"summary"`
		Categories []struct {
			Name     string  `json:"name"`
			Variance float64 `json:"variance"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.InDelta(t, 8300000, body.Summary.TotalBudget, 0.01)
	assert.InDelta(t, 8500000, body.Summary.TotalFinal, 0.01)
	assert.InDelta(t, 200000, body.Summary.TotalVariance, 0.01)
	require.Len(t, body.Categories, 2)
	assert.InDelta(t, 250000, body.Categories[0].Variance, 0.01)
	assert.InDelta(t, -50000, body.Categories[1].Variance, 0.01)
}

func TestGetReportSummaryNotFound(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/reports/rep-missing/summary")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportReportReturnsPDF(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/reports/rep-001/export?sections=cover,summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("X-Document-Pages"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Hillside_Substation.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestExportReportUnknownSectionIsBadRequest(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/reports/rep-001/export?sections=nope")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportReportNotFound(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/reports/rep-missing/export")

	require.Equal(t, http.StatusNotFound, rec.Code)
}
