package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wattbuild/costreport-go/internal/adapter/driven/store"
	"github.com/wattbuild/costreport-go/internal/adapter/driving/httpapi"
	"github.com/wattbuild/costreport-go/internal/application/usecase"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
	"github.com/wattbuild/costreport-go/internal/shared/types"
	"github.com/wattbuild/costreport-go/pkg/version"
)

// defaultDBPath é usado quando nem a flag nem o config file definem o banco.
const defaultDBPath = "costreport.db"

// defaultListenAddr é usado quando nem a flag nem o config file definem o
// endereço do servidor HTTP.
const defaultListenAddr = ":8080"

// Dependencies agrupa os adapters que o main injeta na CLI. OpenStore e
// OpenStorage são factories porque o caminho do banco e o bucket só são
// conhecidos depois do parse das flags.
type Dependencies struct {
	Console     types.ConsoleInterface
	ConfigRepo  repository.ConfigRepository
	Renderer    repository.DocumentRenderer
	Capturer    repository.ChartCapturer
	OpenStore   func(dbPath string) (*store.Store, error)
	OpenStorage func(ctx context.Context, bucket, prefix, region string) (repository.CloudStorageRepository, error)
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	deps    Dependencies
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(deps Dependencies) *CLIApp {
	app := &CLIApp{deps: deps}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "costreport",
		Short:   "Construction cost report exporter",
		Version: formattedVersion,
		RunE:    app.runExport,
	}

	rootCmd.SetVersionTemplate(`{{printf "costreport version: %s\n" .Version}}`)

	// Flags do comando de exportação
	rootCmd.Flags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.Flags().String("db", "", "Path to the project SQLite database (default: costreport.db)")
	rootCmd.Flags().String("report-id", "", "ID of the report to export")
	rootCmd.Flags().StringP("report-name", "n", "", "Override the base name for the exported file")
	rootCmd.Flags().StringP("dir", "d", "", "Directory to save the exported file (default: current directory)")
	rootCmd.Flags().StringSlice("sections", nil, "Document sections to include (comma-separated; default: all)")
	rootCmd.Flags().Float64Slice("margins", nil, "Page margins in mm: left,top,right,bottom")
	rootCmd.Flags().String("orientation", "", "Page orientation: portrait or landscape")
	rootCmd.Flags().String("page-size", "", "Page size: A4 or Letter")
	rootCmd.Flags().BoolP("yes", "y", false, "Skip the preview confirmation and export immediately")
	rootCmd.Flags().Bool("bars", false, "Display per-category variance bars in the terminal")
	rootCmd.Flags().String("s3-bucket", "", "S3 bucket for cloud save (optional)")
	rootCmd.Flags().String("s3-prefix", "", "Key prefix inside the S3 bucket")
	rootCmd.Flags().String("s3-region", "", "AWS region for the S3 bucket")

	rootCmd.AddCommand(app.newServeCommand())
	rootCmd.AddCommand(app.newSeedCommand())

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	configFile, _ := cmd.Flags().GetString("config-file")
	dbPath, _ := cmd.Flags().GetString("db")
	reportID, _ := cmd.Flags().GetString("report-id")
	reportName, _ := cmd.Flags().GetString("report-name")
	dir, _ := cmd.Flags().GetString("dir")
	sections, _ := cmd.Flags().GetStringSlice("sections")
	margins, _ := cmd.Flags().GetFloat64Slice("margins")
	orientation, _ := cmd.Flags().GetString("orientation")
	pageSize, _ := cmd.Flags().GetString("page-size")
	yes, _ := cmd.Flags().GetBool("yes")
	bars, _ := cmd.Flags().GetBool("bars")
	s3Bucket, _ := cmd.Flags().GetString("s3-bucket")
	s3Prefix, _ := cmd.Flags().GetString("s3-prefix")
	s3Region, _ := cmd.Flags().GetString("s3-region")

	// Set default directory to current working directory if not specified
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		// Convert to absolute path
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:  configFile,
		DBPath:      dbPath,
		ReportID:    reportID,
		ReportName:  reportName,
		Dir:         dir,
		Sections:    sections,
		Margins:     margins,
		Orientation: orientation,
		PageSize:    pageSize,
		SkipPreview: yes,
		ShowBars:    bars,
		S3Bucket:    s3Bucket,
		S3Prefix:    s3Prefix,
		S3Region:    s3Region,
	}

	return args, nil
}

// resolveWiring lê o config file (quando houver) só para decidir o caminho
// do banco e o destino de cloud save; a mescla completa acontece no usecase.
func (app *CLIApp) resolveWiring(args *types.CLIArgs) (dbPath, bucket, prefix, region string, err error) {
	dbPath = args.DBPath
	bucket = args.S3Bucket
	prefix = args.S3Prefix
	region = args.S3Region

	if args.ConfigFile != "" {
		cfg, loadErr := app.deps.ConfigRepo.LoadConfigFile(args.ConfigFile)
		if loadErr != nil {
			return "", "", "", "", loadErr
		}
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
		if bucket == "" {
			bucket = cfg.S3Bucket
		}
		if prefix == "" {
			prefix = cfg.S3Prefix
		}
		if region == "" {
			region = cfg.S3Region
		}
	}

	if dbPath == "" {
		dbPath = defaultDBPath
	}
	return dbPath, bucket, prefix, region, nil
}

// resolveServeWiring mescla o config file (quando houver) com as flags do
// comando serve; flags explícitas ganham do arquivo.
func resolveServeWiring(configRepo repository.ConfigRepository, configFile, addr, dbPath string) (string, string, error) {
	if configFile != "" {
		cfg, err := configRepo.LoadConfigFile(configFile)
		if err != nil {
			return "", "", err
		}
		if addr == "" {
			addr = cfg.ListenAddr
		}
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
	}
	if addr == "" {
		addr = defaultListenAddr
	}
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	return addr, dbPath, nil
}

// runExport é o ponto de entrada do comando raiz.
func (app *CLIApp) runExport(cmd *cobra.Command, _ []string) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner()

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(version.Version)

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	dbPath, bucket, prefix, region, err := app.resolveWiring(cliArgs)
	if err != nil {
		return err
	}

	reportStore, err := app.deps.OpenStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open project database %s: %w", dbPath, err)
	}
	defer reportStore.Close()

	ctx := context.Background()

	var storageRepo repository.CloudStorageRepository
	if bucket != "" {
		storageRepo, err = app.deps.OpenStorage(ctx, bucket, prefix, region)
		if err != nil {
			app.deps.Console.LogWarning("Cloud storage unavailable, exporting locally only: %s", err)
			storageRepo = nil
		}
	}

	exportUseCase := usecase.NewExportUseCase(
		reportStore,
		app.deps.Renderer,
		app.deps.Capturer,
		storageRepo,
		app.deps.ConfigRepo,
		app.deps.Console,
	)

	_, err = exportUseCase.RunExport(ctx, cliArgs)
	if errors.Is(err, types.ErrExportCancelled) {
		// Cancelamento não é falha da CLI.
		return nil
	}
	return err
}

// newServeCommand expõe o catálogo de relatórios e a exportação via HTTP.
func (app *CLIApp) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report catalog and export endpoint over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config-file")
			addr, _ := cmd.Flags().GetString("addr")
			dbPath, _ := cmd.Flags().GetString("db")

			addr, dbPath, err := resolveServeWiring(app.deps.ConfigRepo, configFile, addr, dbPath)
			if err != nil {
				return err
			}

			reportStore, err := app.deps.OpenStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open project database %s: %w", dbPath, err)
			}
			defer reportStore.Close()

			exportUseCase := usecase.NewExportUseCase(
				reportStore,
				app.deps.Renderer,
				app.deps.Capturer,
				nil,
				app.deps.ConfigRepo,
				app.deps.Console,
			)

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			server := httpapi.NewServer(logger, httpapi.Config{
				Addr:            addr,
				ShutdownTimeout: 10 * time.Second,
			}, httpapi.NewHandler(reportStore, exportUseCase))

			return server.Start()
		},
	}

	cmd.Flags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	cmd.Flags().String("addr", "", "Address to listen on (default: :8080)")
	cmd.Flags().String("db", "", "Path to the project SQLite database (default: costreport.db)")
	return cmd
}

// newSeedCommand carrega um bundle JSON no banco de projeto.
func (app *CLIApp) newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <bundle.json>",
		Short: "Load a report bundle JSON file into the project database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = defaultDBPath
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read bundle file: %w", err)
			}

			var bundle store.ReportBundle
			if err := json.Unmarshal(data, &bundle); err != nil {
				return fmt.Errorf("failed to parse bundle file: %w", err)
			}

			reportStore, err := app.deps.OpenStore(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open project database %s: %w", dbPath, err)
			}
			defer reportStore.Close()

			if err := reportStore.SaveBundle(cmd.Context(), bundle); err != nil {
				return fmt.Errorf("failed to save bundle: %w", err)
			}

			app.deps.Console.LogSuccess("Seeded report %s into %s", bundle.Report.ID, dbPath)
			return nil
		},
	}

	cmd.Flags().String("db", "", "Path to the project SQLite database (default: costreport.db)")
	return cmd
}
