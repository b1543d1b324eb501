package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/shared/types"
)

// stubReportRepo implementa o ReportRepository com funções substituíveis.
type stubReportRepo struct {
	listReports       func(ctx context.Context) ([]entity.Report, error)
	getReport         func(ctx context.Context, reportID string) (*entity.Report, error)
	getCategories     func(ctx context.Context, reportID string) ([]entity.Category, error)
	getVariations     func(ctx context.Context, reportID string) ([]entity.Variation, error)
	getCompanyDetails func(ctx context.Context) (*entity.CompanyDetails, error)
}

func (s *stubReportRepo) ListReports(ctx context.Context) ([]entity.Report, error) {
	if s.listReports != nil {
		return s.listReports(ctx)
	}
	return nil, nil
}

func (s *stubReportRepo) GetReport(ctx context.Context, reportID string) (*entity.Report, error) {
	if s.getReport != nil {
		return s.getReport(ctx, reportID)
	}
	return &entity.Report{ID: reportID, Name: "Hillside Substation"}, nil
}

func (s *stubReportRepo) GetCategories(ctx context.Context, reportID string) ([]entity.Category, error) {
	if s.getCategories != nil {
		return s.getCategories(ctx, reportID)
	}
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

func (s *stubReportRepo) GetVariations(ctx context.Context, reportID string) ([]entity.Variation, error) {
	if s.getVariations != nil {
		return s.getVariations(ctx, reportID)
	}
	return nil, nil
}

func (s *stubReportRepo) GetCompanyDetails(ctx context.Context) (*entity.CompanyDetails, error) {
	if s.getCompanyDetails != nil {
		return s.getCompanyDetails(ctx)
	}
	return &entity.CompanyDetails{Name: "WattBuild Consulting"}, nil
}

// stubRenderer devolve um PDF fixo.
type stubRenderer struct {
	renderErr error
	rendered  int
}

func (s *stubRenderer) Render(ctx context.Context, doc entity.Document, opts entity.PageOptions) ([]byte, int, error) {
	if s.renderErr != nil {
		return nil, 0, s.renderErr
	}
	s.rendered++
	return []byte("%PDF-1.4 stub"), 3, nil
}

// stubCapturer devolve um gráfico fixo ou nada.
type stubCapturer struct {
	captured int
}

func (s *stubCapturer) Capture(ctx context.Context, req entity.ChartRequest) (*entity.CapturedChart, error) {
	if len(req.Categories) == 0 {
		return nil, nil
	}
	s.captured++
	return &entity.CapturedChart{Title: req.Title, PNG: []byte{0x89, 'P', 'N', 'G'}, Width: req.Width, Height: req.Height}, nil
}

// stubConfigRepo nunca é consultado nos testes abaixo (sem config file).
type stubConfigRepo struct{}

func (s *stubConfigRepo) LoadConfigFile(filePath string) (*types.Config, error) {
	return &types.Config{}, nil
}

// fakeConsole é um console silencioso com resposta de confirmação fixa.
type fakeConsole struct {
	confirmAnswer bool
	confirmAsked  int
}

func (c *fakeConsole) Print(a ...interface{})                  {}
func (c *fakeConsole) Printf(format string, a ...interface{})  {}
func (c *fakeConsole) Println(a ...interface{})                {}
func (c *fakeConsole) LogInfo(format string, a ...interface{}) {}
func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
}
func (c *fakeConsole) LogError(format string, a ...interface{})   {}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {}

func (c *fakeConsole) Status(message string) types.StatusHandle { return noopStatus{} }
func (c *fakeConsole) ProgressWithTotal(total int) types.ProgressHandle {
	return noopProgress{}
}
func (c *fakeConsole) CreateTable() types.TableInterface         { return &fakeTable{} }
func (c *fakeConsole) DisplayVarianceBars(rows []types.VarianceBar) {}

func (c *fakeConsole) Confirm(message string) bool {
	c.confirmAsked++
	return c.confirmAnswer
}

type noopStatus struct{}

func (noopStatus) Update(message string) {}
func (noopStatus) Stop()                 {}

type noopProgress struct{}

func (noopProgress) Increment()     {}
func (noopProgress) Add(delta int)  {}
func (noopProgress) Stop()          {}

type fakeTable struct{ rows int }

func (t *fakeTable) AddColumn(name string, options ...interface{}) {}
func (t *fakeTable) AddRow(cells ...interface{})                   { t.rows++ }
func (t *fakeTable) Render() string                                { return "" }

func newTestUseCase(repo *stubReportRepo, console *fakeConsole) (*ExportUseCase, *stubRenderer) {
	renderer := &stubRenderer{}
	uc := NewExportUseCase(repo, renderer, &stubCapturer{}, nil, &stubConfigRepo{}, console)
	return uc, renderer
}

func TestFetchReportBundleFallsBackOnSlowFetch(t *testing.T) {
	repo := &stubReportRepo{
		getCategories: func(ctx context.Context, reportID string) ([]entity.Category, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	uc, _ := newTestUseCase(repo, &fakeConsole{})
	uc.WithFetchTimeout(50 * time.Millisecond)

	data, err := uc.FetchReportBundle(context.Background(), "rep-001")
	require.NoError(t, err)

	assert.True(t, data.Partial)
	assert.Nil(t, data.Categories)
	require.NotNil(t, data.Report)
	assert.Equal(t, "Hillside Substation", data.Report.Name)
	require.NotNil(t, data.Company)
}

func TestFetchReportBundleDeadlineHoldsForUncooperativeFetch(t *testing.T) {
	// O fetch de categorias ignora o contexto por completo; o bundle ainda
	// assim tem de voltar no deadline, com fallback, sem esperar o
	// retardatário.
	release := make(chan struct{})
	repo := &stubReportRepo{
		getCategories: func(ctx context.Context, reportID string) ([]entity.Category, error) {
			<-release
			return []entity.Category{{ID: "cat-late", Name: "Late"}}, nil
		},
	}
	uc, _ := newTestUseCase(repo, &fakeConsole{})
	uc.WithFetchTimeout(30 * time.Millisecond)

	start := time.Now()
	data, err := uc.FetchReportBundle(context.Background(), "rep-001")
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.Less(t, elapsed, 2*time.Second, "fetch blocked past the timeout window")
	assert.True(t, data.Partial)
	assert.Nil(t, data.Categories)
	require.NotNil(t, data.Report)

	// O retardatário termina depois; o seu resultado é descartado.
	close(release)
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, data.Categories)
}

func TestFetchReportBundleReportNotFoundIsFatal(t *testing.T) {
	repo := &stubReportRepo{
		getReport: func(ctx context.Context, reportID string) (*entity.Report, error) {
			return nil, types.ErrReportNotFound
		},
	}
	uc, _ := newTestUseCase(repo, &fakeConsole{})

	_, err := uc.FetchReportBundle(context.Background(), "rep-missing")
	require.ErrorIs(t, err, types.ErrReportNotFound)
}

func TestRunExportSkipPreviewWritesFile(t *testing.T) {
	dir := t.TempDir()
	console := &fakeConsole{}
	uc, renderer := newTestUseCase(&stubReportRepo{}, console)

	outcome, err := uc.RunExport(context.Background(), &types.CLIArgs{
		ReportID:    "rep-001",
		Dir:         dir,
		SkipPreview: true,
	})
	require.NoError(t, err)

	assert.True(t, outcome.Confirmed)
	assert.Equal(t, 3, outcome.Pages)
	assert.Equal(t, 1, renderer.rendered)
	assert.Zero(t, console.confirmAsked)

	require.True(t, strings.HasPrefix(filepath.Base(outcome.LocalPath), "Hillside_Substation_"))
	require.True(t, strings.HasSuffix(outcome.LocalPath, ".pdf"))
	content, err := os.ReadFile(outcome.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 stub", string(content))
}

func TestRunExportCancelledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	console := &fakeConsole{confirmAnswer: false}
	uc, _ := newTestUseCase(&stubReportRepo{}, console)

	_, err := uc.RunExport(context.Background(), &types.CLIArgs{
		ReportID: "rep-001",
		Dir:      dir,
	})
	require.ErrorIs(t, err, types.ErrExportCancelled)
	assert.Equal(t, 1, console.confirmAsked)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunExportRequiresReportID(t *testing.T) {
	uc, _ := newTestUseCase(&stubReportRepo{}, &fakeConsole{})

	_, err := uc.RunExport(context.Background(), &types.CLIArgs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no report id")
}

func TestRunExportHonorsSectionSelection(t *testing.T) {
	uc, _ := newTestUseCase(&stubReportRepo{}, &fakeConsole{})

	_, err := uc.RunExport(context.Background(), &types.CLIArgs{
		ReportID: "rep-001",
		Sections: []string{"no-such-section"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document section")
}

func TestSectionOptions(t *testing.T) {
	opts, err := SectionOptions([]string{"cover", "summary"}, "")
	require.NoError(t, err)
	assert.True(t, opts.Enabled(entity.SectionCover))
	assert.True(t, opts.Enabled(entity.SectionExecutiveSummary))
	assert.False(t, opts.Enabled(entity.SectionCharts))

	all, err := SectionOptions(nil, "")
	require.NoError(t, err)
	assert.True(t, all.Enabled(entity.SectionCharts))
}

func TestPageOptions(t *testing.T) {
	opts, err := PageOptions(&types.Config{Orientation: "landscape", PageSize: "letter", Margins: []float64{10, 12, 10, 18}})
	require.NoError(t, err)
	assert.Equal(t, "L", opts.Orientation)
	assert.Equal(t, "Letter", opts.Size)
	assert.Equal(t, entity.Margins{Left: 10, Top: 12, Right: 10, Bottom: 18}, opts.Margins)

	_, err = PageOptions(&types.Config{Margins: []float64{10, 12}})
	require.Error(t, err)

	_, err = PageOptions(&types.Config{Orientation: "diagonal"})
	require.Error(t, err)
}
