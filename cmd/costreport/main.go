package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wattbuild/costreport-go/internal/adapter/driven/chart"
	"github.com/wattbuild/costreport-go/internal/adapter/driven/config"
	"github.com/wattbuild/costreport-go/internal/adapter/driven/render"
	"github.com/wattbuild/costreport-go/internal/adapter/driven/storage"
	"github.com/wattbuild/costreport-go/internal/adapter/driven/store"
	"github.com/wattbuild/costreport-go/internal/adapter/driving/cli"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
	"github.com/wattbuild/costreport-go/pkg/console"
)

func main() {
	// Inicializa os adapters e injeta na CLI
	app := cli.NewCLIApp(cli.Dependencies{
		Console:    console.NewConsole(),
		ConfigRepo: config.NewConfigRepository(),
		Renderer:   render.NewPDFRenderer(),
		Capturer:   chart.NewCapturer(),
		OpenStore: func(dbPath string) (*store.Store, error) {
			return store.Open(dbPath)
		},
		OpenStorage: func(ctx context.Context, bucket, prefix, region string) (repository.CloudStorageRepository, error) {
			return storage.NewS3Storage(ctx, bucket, prefix, region)
		},
	})

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
