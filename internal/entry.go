// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/mkraus/slovnik/internal/analyzer"
	"github.com/mkraus/slovnik/internal/api"
	"github.com/mkraus/slovnik/internal/batch"
	"github.com/mkraus/slovnik/internal/index"
	"github.com/mkraus/slovnik/internal/noteservice"
	"github.com/mkraus/slovnik/internal/speak"
	"github.com/mkraus/slovnik/internal/sse"
	"github.com/mkraus/slovnik/internal/storage"
)

// stack bundles the services every command runs on.
type stack struct {
	cfg      *Config
	logger   *slog.Logger
	store    *storage.FS
	db       *index.DB
	analyzer *analyzer.Service
	proc     *batch.Processor
	tts      *speak.Client
	svc      *noteservice.Service
}

// buildStack initializes logging, storage, index, and the batch pipeline
// from cfg. onEvent, if non-nil, receives note events from the pipeline.
func buildStack(cfg *Config, onEvent func(kind, path string)) (*stack, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	s := &stack{cfg: cfg, logger: logger, store: store, db: db}

	if cfg.Analyzer.Enabled() {
		s.analyzer = analyzer.NewService(cfg.Analyzer.Servers,
			analyzer.WithRetries(cfg.Analyzer.RetryMax, time.Duration(cfg.Analyzer.RetryBaseSeconds)*time.Second))
	}

	procOpts := []batch.Option{
		batch.WithIndex(db),
		batch.WithColumns(cfg.Notes.Columns),
		batch.WithNotesFolder(cfg.Notes.Folder),
		batch.WithFlashcardsSection(cfg.Notes.FlashcardsSection),
		batch.WithRequestDelay(time.Duration(cfg.Analyzer.RequestDelaySeconds) * time.Second),
	}
	if s.analyzer != nil {
		procOpts = append(procOpts, batch.WithAnalyzer(s.analyzer))
	}
	if onEvent != nil {
		procOpts = append(procOpts, batch.WithEventCallback(onEvent))
	}
	s.proc = batch.NewProcessor(store, logger, procOpts...)

	if cfg.TTS.URL != "" {
		s.tts = speak.NewClient(cfg.TTS.URL, cfg.TTS.Voice, cfg.TTS.Speed, cfg.TTS.Language)
	}

	s.svc = noteservice.NewService(store, db, s.proc)
	return s, nil
}

func (s *stack) close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Run starts the serve mode: HTTP API, SSE, and the vault watcher, shutting
// down cleanly on SIGINT/SIGTERM.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	broker := sse.NewBroker()
	defer broker.Close()

	s, err := buildStack(cfg, broker.PublishWordEvent)
	if err != nil {
		return err
	}
	defer s.close()

	logger := s.logger
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("analyzer_enabled", cfg.Analyzer.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Bring the index up to date before serving.
	if err := index.Sync(s.db, s.store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(s.svc, s.tts, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the index current while serving.
	g.Go(func() error {
		return index.Watch(gCtx, s.db, s.store, s.store.Root(), logger, func(kind, path string) {
			broker.PublishWordEvent(kind, path)
		})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
