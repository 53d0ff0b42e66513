// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wort/internal/api"
	"github.com/starford/wort/internal/index"
	"github.com/starford/wort/internal/mcpserver"
	"github.com/starford/wort/internal/observability"
	"github.com/starford/wort/internal/refdata"
	"github.com/starford/wort/internal/service"
	"github.com/starford/wort/internal/sse"
	"github.com/starford/wort/internal/storage"
)

// NewLogger builds the structured JSON logger used by every command.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Components are the wired parts shared by the serve, mcp and analyze
// commands.
type Components struct {
	Store   *storage.FS
	Loader  *refdata.Loader
	Catalog *index.DB // nil when the catalog is disabled
	Service *service.Service
}

// Close releases the catalog database.
func (c *Components) Close() error {
	if c.Catalog == nil {
		return nil
	}
	return c.Catalog.Close()
}

// Build opens the reference data and, when enabled, syncs the catalog.
// metrics may be nil.
func Build(cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*Components, error) {
	store, err := storage.NewFS(cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	c := &Components{
		Store:  store,
		Loader: refdata.NewLoader(store, logger),
	}

	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(metrics)}
	if cfg.Catalog.Enabled {
		db, err := index.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("init catalog: %w", err)
		}
		if err := index.Sync(db, store, logger); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		} else {
			metrics.ObserveSync()
		}
		c.Catalog = db
		opts = append(opts, service.WithCatalog(db))
	}
	c.Service = service.New(c.Loader, opts...)
	return c, nil
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(os.Stdout, cfg.App.LogLevel)
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_path", cfg.Data.Path),
		slog.Bool("catalog_enabled", cfg.Catalog.Enabled),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Data.Path, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	metrics := observability.NewMetrics()
	comps, err := Build(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer comps.Close()

	broker := sse.NewBroker(cfg.App.HTTP.EventThrottle)
	defer broker.Close()

	apiRouter := api.NewRouter(comps.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health and metrics endpoints (unauthenticated).
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
	r.Handle("/metrics", observability.Handler())

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if comps.Catalog != nil && cfg.Catalog.Watch {
		g.Go(func() error {
			err := index.Watch(gCtx, comps.Catalog, comps.Store, comps.Store.Root(), logger, func(kind, path string) {
				metrics.ObserveCatalogEvent(kind)
				broker.PublishIngredientEvent(kind, path)
			})
			if err != nil {
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Streaming SSE clients only leave once the broker closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdin/stdout. Logs go to stderr because
// stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger
	if logger == nil {
		logger = NewLogger(os.Stderr, app.config.App.LogLevel)
	}

	comps, err := Build(app.config, logger, nil)
	if err != nil {
		return err
	}
	defer comps.Close()

	logger.Info("MCP server starting", slog.String("data_path", app.config.Data.Path))
	return mcpserver.New(comps.Service, app.version).ServeStdio()
}
