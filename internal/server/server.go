// Package server wires the webhook gateway together: repository → service →
// commands → router → HTTP handler, plus middleware and graceful shutdown.
// This is the composition root: dependencies are assembled here and nowhere
// else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/checkin-bot/internal/command"
	"github.com/sakif/checkin-bot/internal/config"
	"github.com/sakif/checkin-bot/internal/handler"
	"github.com/sakif/checkin-bot/internal/middleware"
	"github.com/sakif/checkin-bot/internal/repository"
	"github.com/sakif/checkin-bot/internal/repository/jsonfile"
	"github.com/sakif/checkin-bot/internal/repository/sqlite"
	"github.com/sakif/checkin-bot/internal/service"
)

// Server is the HTTP gateway and the resources it owns. The repository is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	repo   repository.Store
}

// New assembles the full dependency chain from config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	repo, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StorageBackend, err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		repo:   repo,
	}
	s.setupRoutes()
	return s, nil
}

// openStore picks the repository backend. Config validation already
// rejected anything but json and sqlite.
func openStore(cfg config.Config) (repository.Store, error) {
	if cfg.StorageBackend == "sqlite" {
		return sqlite.Open(cfg.DataPath)
	}
	return jsonfile.Open(cfg.DataPath)
}

func (s *Server) setupRoutes() {
	// Middleware order: request ID and real IP first so the logger sees
	// them, Recoverer last so a panicking handler becomes a 500, not a
	// dead process.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Dependency chain: repository → service → commands → router → handler.
	svc := service.NewCheckinService(context.Background(), s.repo, s.logger)
	cmdRouter := command.NewRouter(s.logger)
	command.New(svc, s.logger).Register(cmdRouter, s.config.ExtendedLeaderboards)
	webhook := handler.NewWebhookHandler(cmdRouter, s.logger, s.config.WebhookToken)

	s.router.Post("/webhook", webhook.HandleEvent)
	s.router.Get("/healthz", webhook.HandleHealth)
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the store.
func (s *Server) Start() error {
	defer s.repo.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("gateway starting",
			slog.Int("port", s.config.Port),
			slog.String("backend", s.config.StorageBackend),
			slog.String("data", s.config.DataPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("gateway stopped gracefully")
	}

	return nil
}
