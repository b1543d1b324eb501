// Package httpapi serves the report catalog and the export endpoint over
// HTTP, for integrations that cannot shell out to the CLI.
package httpapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// NewServer monta o router e o http.Server, sem iniciar a escuta.
func NewServer(logger zerolog.Logger, config Config, handler *Handler) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	router := chi.NewRouter()

	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handler.Healthz)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports", handler.ListReports)
		r.Get("/reports/{reportID}/summary", handler.GetReportSummary)
		r.Post("/reports/{reportID}/export", handler.ExportReport)
	})

	return &Server{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: config.ShutdownTimeout,
	}
}

// Router expõe o mux para os testes.
func (s *Server) Router() http.Handler { return s.router }

// Start serve até um erro do listener ou um sinal de término; no sinal faz
// shutdown gracioso com deadline.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		s.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		err := s.server.Shutdown(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = s.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
