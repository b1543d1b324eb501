package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/wattbuild/costreport-go/internal/application/preview"
	"github.com/wattbuild/costreport-go/internal/application/progress"
	"github.com/wattbuild/costreport-go/internal/application/section"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
	"github.com/wattbuild/costreport-go/internal/shared/types"
)

// defaultFetchTimeout limita cada sub-fetch do bundle.
const defaultFetchTimeout = 10 * time.Second

// ExportUseCase orchestrates one report export: fetch, chart capture,
// section building, rendering, preview and persistence.
type ExportUseCase struct {
	reportRepo   repository.ReportRepository
	renderer     repository.DocumentRenderer
	capturer     repository.ChartCapturer
	storageRepo  repository.CloudStorageRepository // nil => cloud save desabilitado
	configRepo   repository.ConfigRepository
	console      types.ConsoleInterface
	fetchTimeout time.Duration
}

// NewExportUseCase creates a new export use case.
func NewExportUseCase(
	reportRepo repository.ReportRepository,
	renderer repository.DocumentRenderer,
	capturer repository.ChartCapturer,
	storageRepo repository.CloudStorageRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *ExportUseCase {
	return &ExportUseCase{
		reportRepo:   reportRepo,
		renderer:     renderer,
		capturer:     capturer,
		storageRepo:  storageRepo,
		configRepo:   configRepo,
		console:      console,
		fetchTimeout: defaultFetchTimeout,
	}
}

// WithFetchTimeout troca o timeout por sub-fetch (os testes usam valores
// curtos).
func (uc *ExportUseCase) WithFetchTimeout(d time.Duration) *ExportUseCase {
	uc.fetchTimeout = d
	return uc
}

// ResolveConfig merges the config file (when given) with the CLI arguments;
// explicit flags win over file values.
func (uc *ExportUseCase) ResolveConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := &types.Config{}

	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if args.DBPath != "" {
		cfg.DBPath = args.DBPath
	}
	if args.ReportID != "" {
		cfg.ReportID = args.ReportID
	}
	if args.ReportName != "" {
		cfg.ReportName = args.ReportName
	}
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}
	if len(args.Sections) > 0 {
		cfg.Sections = args.Sections
	}
	if len(args.Margins) > 0 {
		cfg.Margins = args.Margins
	}
	if args.Orientation != "" {
		cfg.Orientation = args.Orientation
	}
	if args.PageSize != "" {
		cfg.PageSize = args.PageSize
	}
	if args.SkipPreview {
		cfg.SkipPreview = true
	}
	if args.S3Bucket != "" {
		cfg.S3Bucket = args.S3Bucket
	}
	if args.S3Prefix != "" {
		cfg.S3Prefix = args.S3Prefix
	}
	if args.S3Region != "" {
		cfg.S3Region = args.S3Region
	}

	return cfg, nil
}

// FetchReportBundle busca em paralelo as quatro fontes do bundle. Cada
// sub-fetch tem o seu próprio timeout; um timeout vira o valor de fallback
// (vazio ou nil) com um warning, nunca um erro fatal. Só a ausência do
// próprio relatório é fatal.
func (uc *ExportUseCase) FetchReportBundle(ctx context.Context, reportID string) (section.Data, error) {
	logger := zerolog.Ctx(ctx)

	var data section.Data
	var reportErr error
	var mu sync.Mutex
	var wg sync.WaitGroup

	markPartial := func(source string, err error) {
		mu.Lock()
		data.Partial = true
		mu.Unlock()
		logger.Warn().Err(err).Str("report_id", reportID).Str("source", source).
			Msg("fetch failed, falling back to empty data")
	}

	// Cada sub-fetch roda numa goroutine interna que entrega o resultado por
	// um canal bufferizado; a goroutine externa espera o resultado OU o
	// deadline, o que vier primeiro. Um repositório que ignora o contexto não
	// segura o wg.Wait: no deadline o fetch vira fallback e o retardatário
	// termina sozinho, com o resultado descartado.
	type fetchResult struct {
		apply func()
		err   error
	}

	fetch := func(source string, fn func(ctx context.Context) (func(), error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subCtx, cancel := context.WithTimeout(ctx, uc.fetchTimeout)
			defer cancel()

			done := make(chan fetchResult, 1)
			go func() {
				apply, err := fn(subCtx)
				done <- fetchResult{apply: apply, err: err}
			}()

			select {
			case res := <-done:
				if res.err != nil {
					markPartial(source, res.err)
					return
				}
				if res.apply != nil {
					mu.Lock()
					res.apply()
					mu.Unlock()
				}
			case <-subCtx.Done():
				markPartial(source, subCtx.Err())
			}
		}()
	}

	fetch("report", func(ctx context.Context) (func(), error) {
		report, err := uc.reportRepo.GetReport(ctx, reportID)
		if err != nil {
			if errors.Is(err, types.ErrReportNotFound) {
				return func() { reportErr = err }, nil
			}
			return nil, err
		}
		return func() { data.Report = report }, nil
	})

	fetch("categories", func(ctx context.Context) (func(), error) {
		categories, err := uc.reportRepo.GetCategories(ctx, reportID)
		if err != nil {
			return nil, err
		}
		return func() { data.Categories = categories }, nil
	})

	fetch("variations", func(ctx context.Context) (func(), error) {
		variations, err := uc.reportRepo.GetVariations(ctx, reportID)
		if err != nil {
			return nil, err
		}
		return func() { data.Variations = variations }, nil
	})

	fetch("company", func(ctx context.Context) (func(), error) {
		company, err := uc.reportRepo.GetCompanyDetails(ctx)
		if err != nil {
			return nil, err
		}
		return func() { data.Company = company }, nil
	})

	wg.Wait()

	if reportErr != nil {
		return section.Data{}, reportErr
	}
	return data, nil
}

// captureCharts rasteriza os gráficos do documento. Gráficos sem dados são
// simplesmente omitidos.
func (uc *ExportUseCase) captureCharts(ctx context.Context, data *section.Data) {
	logger := zerolog.Ctx(ctx)

	requests := []entity.ChartRequest{
		{Kind: entity.ChartBudgetVsFinal, Title: "Budget vs Anticipated Final", Width: 640, Height: 360, Categories: data.Categories},
		{Kind: entity.ChartCostSplit, Title: "Anticipated Cost Split", Width: 420, Height: 420, Categories: data.Categories},
	}

	for _, req := range requests {
		captured, err := uc.capturer.Capture(ctx, req)
		if err != nil {
			logger.Warn().Err(err).Str("chart", req.Title).Msg("chart capture failed, omitting chart")
			continue
		}
		if captured == nil {
			continue
		}
		data.Charts = append(data.Charts, *captured)
	}
}

// BuildAndRender monta e renderiza o documento de um relatório. É o caminho
// compartilhado entre a CLI e o endpoint HTTP de exportação.
func (uc *ExportUseCase) BuildAndRender(
	ctx context.Context,
	reportID string,
	opts section.Options,
	pageOpts entity.PageOptions,
) ([]byte, int, section.Data, error) {
	data, err := uc.FetchReportBundle(ctx, reportID)
	if err != nil {
		return nil, 0, section.Data{}, err
	}

	if opts.Enabled(entity.SectionCharts) {
		uc.captureCharts(ctx, &data)
	}

	doc := section.BuildDocument(data, opts)
	if len(doc.Blocks) == 0 {
		return nil, 0, data, types.ErrNoSectionsEnabled
	}

	pdf, pages, err := uc.renderer.Render(ctx, doc, pageOpts)
	if err != nil {
		return nil, 0, data, fmt.Errorf("failed to render document: %w", err)
	}
	return pdf, pages, data, nil
}

// RunExport executa o fluxo completo de exportação pela CLI.
func (uc *ExportUseCase) RunExport(ctx context.Context, args *types.CLIArgs) (*types.ExportOutcome, error) {
	cfg, err := uc.ResolveConfig(args)
	if err != nil {
		return nil, err
	}
	if cfg.ReportID == "" {
		return nil, fmt.Errorf("no report id given: use --report-id or a config file")
	}

	opts, err := SectionOptions(cfg.Sections, cfg.ReportName)
	if err != nil {
		return nil, err
	}
	pageOpts, err := PageOptions(cfg)
	if err != nil {
		return nil, err
	}

	// Declara os passos ponderados e liga o tracker à barra do terminal.
	tracker := progress.NewTracker(exportSteps(opts))
	bar := uc.console.ProgressWithTotal(100)
	status := uc.console.Status("Preparing export...")
	lastPercent := 0
	tracker.OnChange(func(s progress.Snapshot) {
		if s.Percent > lastPercent {
			bar.Add(s.Percent - lastPercent)
			lastPercent = s.Percent
		}
		if s.Label != "" {
			status.Update(s.Label)
		}
	})
	defer func() {
		bar.Stop()
		status.Stop()
	}()

	// Etapa 1: Buscar o bundle do relatório
	data, err := uc.FetchReportBundle(ctx, cfg.ReportID)
	if err != nil {
		uc.console.LogError("Failed to fetch report %s: %s", cfg.ReportID, err)
		return nil, err
	}
	if data.Partial {
		uc.console.LogWarning("Some report data timed out; the document will be exported with partial data.")
	}
	tracker.Advance()

	// Etapa 2: Capturar os gráficos, quando habilitados
	if opts.Enabled(entity.SectionCharts) {
		uc.captureCharts(ctx, &data)
		tracker.Advance()
	}

	// Etapa 3: Montar o documento
	doc := section.BuildDocument(data, opts)
	if len(doc.Blocks) == 0 {
		return nil, types.ErrNoSectionsEnabled
	}
	tracker.Advance()

	// Etapa 4: Renderizar o PDF
	pdf, pages, err := uc.renderer.Render(ctx, doc, pageOpts)
	if err != nil {
		uc.console.LogError("Failed to render document: %s", err)
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	tracker.Complete()
	bar.Stop()
	status.Stop()

	// Exibe o resumo executivo no terminal
	uc.displaySummary(data)
	if args.ShowBars {
		uc.displayVarianceBars(data)
	}

	// Preview e confirmação
	label := data.Label(cfg.ReportID)
	outcome := &types.ExportOutcome{Pages: pages}

	gate := preview.NewGate()
	if err := gate.Open(); err != nil {
		return nil, err
	}
	artifact, err := preview.NewArtifact(pdf, pages)
	if err != nil {
		return nil, fmt.Errorf("failed to stage preview artifact: %w", err)
	}
	if err := gate.Ready(artifact); err != nil {
		return nil, err
	}
	defer gate.Close()

	if !cfg.SkipPreview {
		uc.console.LogInfo("Preview staged at %s (%d pages)", artifact.Path(), pages)
		if !uc.console.Confirm(fmt.Sprintf("Export %q (%d pages)?", label, pages)) {
			if err := gate.Cancel(); err != nil {
				return nil, err
			}
			uc.console.LogWarning("Export cancelled; no file was written.")
			return nil, types.ErrExportCancelled
		}
	}

	// Persiste o PDF no diretório de saída
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	filename := generateFilename(label)
	destPath := filepath.Join(dir, filename)

	if err := gate.Confirm(func(a *preview.Artifact) error {
		return a.PersistTo(destPath)
	}); err != nil {
		uc.console.LogError("Failed to save document: %s", err)
		return nil, err
	}
	outcome.Confirmed = true
	outcome.LocalPath = destPath
	uc.console.LogSuccess("Successfully exported to PDF: %s", destPath)

	// Upload opcional para o bucket; falha não descarta o arquivo local.
	if uc.storageRepo != nil && cfg.S3Bucket != "" {
		cloudPath := filename
		if err := uc.storageRepo.Upload(ctx, cloudPath, pdf); err != nil {
			uc.console.LogError("Cloud upload failed (local file kept): %s", err)
		} else {
			outcome.CloudPath = cloudPath
			uc.console.LogSuccess("Uploaded document to cloud storage: %s", cloudPath)
		}
	}

	return outcome, nil
}

// displaySummary imprime a tabela do resumo executivo no terminal.
func (uc *ExportUseCase) displaySummary(data section.Data) {
	if len(data.Categories) == 0 {
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Category")
	table.AddColumn("Original Budget")
	table.AddColumn("Anticipated Final")
	table.AddColumn("Variance")
	table.AddColumn("Status")

	for _, cat := range data.Categories {
		variance := cat.Variance()
		label, emphasis := section.VarianceLabel(variance)
		varianceText := section.SignedCurrency(variance)
		switch emphasis {
		case entity.EmphasisSuccess:
			varianceText = pterm.FgGreen.Sprint(varianceText)
			label = pterm.FgGreen.Sprint(label)
		case entity.EmphasisDanger:
			varianceText = pterm.FgRed.Sprint(varianceText)
			label = pterm.FgRed.Sprint(label)
		}
		table.AddRow(
			cat.Name,
			section.Currency(cat.OriginalBudget),
			section.Currency(cat.AnticipatedFinal()),
			varianceText,
			label,
		)
	}

	summary := entity.Summarize(data.Categories)
	totalLabel, _ := section.VarianceLabel(summary.TotalVariance)
	table.AddRow(
		pterm.Bold.Sprint("GRAND TOTAL"),
		pterm.Bold.Sprint(section.Currency(summary.TotalBudget)),
		pterm.Bold.Sprint(section.Currency(summary.TotalFinal)),
		pterm.Bold.Sprint(section.SignedCurrency(summary.TotalVariance)),
		pterm.Bold.Sprint(totalLabel),
	)

	uc.console.Print(table.Render())
}

// displayVarianceBars exibe as barras de variação por categoria.
func (uc *ExportUseCase) displayVarianceBars(data section.Data) {
	rows := make([]types.VarianceBar, 0, len(data.Categories))
	for _, cat := range data.Categories {
		rows = append(rows, types.VarianceBar{
			Label:    cat.Name,
			Budget:   cat.OriginalBudget,
			Final:    cat.AnticipatedFinal(),
			Variance: cat.Variance(),
		})
	}
	uc.console.DisplayVarianceBars(rows)
}

// exportSteps monta a sequência ponderada do tracker para as opções dadas.
func exportSteps(opts section.Options) []progress.Step {
	steps := []progress.Step{{Label: "Fetching report data...", Weight: 2}}
	if opts.Enabled(entity.SectionCharts) {
		steps = append(steps, progress.Step{Label: "Capturing charts...", Weight: 2})
	}
	steps = append(steps,
		progress.Step{Label: "Building document sections...", Weight: 1},
		progress.Step{Label: "Rendering PDF...", Weight: 3},
	)
	return steps
}

// SectionOptions converte os nomes de seção da configuração em Options.
// Lista vazia significa todas as seções.
func SectionOptions(names []string, preparedBy string) (section.Options, error) {
	opts := section.Options{GeneratedAt: time.Now(), PreparedBy: preparedBy}
	if len(names) == 0 {
		return opts, nil
	}

	known := make(map[string]entity.Section, len(entity.SectionOrder()))
	for _, s := range entity.SectionOrder() {
		known[string(s)] = s
	}

	include := make(map[entity.Section]bool, len(names))
	for _, name := range names {
		s, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return section.Options{}, fmt.Errorf("unknown document section %q", name)
		}
		include[s] = true
	}
	if len(include) == 0 {
		return section.Options{}, types.ErrNoSectionsEnabled
	}
	opts.Include = include
	return opts, nil
}

// PageOptions converte a configuração da página em PageOptions.
func PageOptions(cfg *types.Config) (entity.PageOptions, error) {
	opts := entity.PageOptions{Margins: entity.DefaultMargins(), Orientation: "P", Size: "A4"}

	switch strings.ToLower(cfg.Orientation) {
	case "", "p", "portrait":
	case "l", "landscape":
		opts.Orientation = "L"
	default:
		return entity.PageOptions{}, fmt.Errorf("unknown page orientation %q", cfg.Orientation)
	}

	switch strings.ToLower(cfg.PageSize) {
	case "", "a4":
	case "letter":
		opts.Size = "Letter"
	default:
		return entity.PageOptions{}, fmt.Errorf("unknown page size %q", cfg.PageSize)
	}

	if len(cfg.Margins) > 0 {
		if len(cfg.Margins) != 4 {
			return entity.PageOptions{}, fmt.Errorf("margins must have four values (left, top, right, bottom), got %d", len(cfg.Margins))
		}
		opts.Margins = entity.Margins{
			Left:   cfg.Margins[0],
			Top:    cfg.Margins[1],
			Right:  cfg.Margins[2],
			Bottom: cfg.Margins[3],
		}
	}

	return opts, nil
}

// generateFilename monta o nome do arquivo exportado a partir do rótulo do
// relatório e do timestamp corrente.
func generateFilename(label string) string {
	base := sanitizeLabel(label)
	if base == "" {
		base = "report"
	}
	return fmt.Sprintf("%s_%s.pdf", base, time.Now().Format("20060102_150405"))
}

// sanitizeLabel mantém apenas caracteres seguros para nomes de arquivo.
func sanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
