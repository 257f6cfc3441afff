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

	"github.com/starford/raftcheck/internal/api"
	"github.com/starford/raftcheck/internal/catalog"
	"github.com/starford/raftcheck/internal/inspection"
	"github.com/starford/raftcheck/internal/ledger"
	"github.com/starford/raftcheck/internal/mcpserver"
	"github.com/starford/raftcheck/internal/registry"
	"github.com/starford/raftcheck/internal/sse"
	"github.com/starford/raftcheck/internal/storage"
)

// core is the state shared by the HTTP and MCP front ends.
type core struct {
	logger  *slog.Logger
	db      *registry.DB
	ledger  *ledger.Ledger
	manual  *catalog.ManualCatalog
	sources *inspection.Sources
}

func setup(opts []Option) (*application, *core, error) {
	app := &application{logOutput: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Duration("fetch_timeout", cfg.Checklist.FetchTimeout),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	manual, err := loadManualCatalog(cfg.Data.ManualSpecsFile)
	if err != nil {
		return nil, nil, err
	}

	db, err := registry.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init registry: %w", err)
	}

	l := ledger.New(store, cfg.Data.LedgerFile)
	if _, err := l.Load(); err != nil {
		// A broken ledger only removes ledger items from checklists.
		logger.Warn("initial ledger load failed", slog.String("file", cfg.Data.LedgerFile), slog.String("error", err.Error()))
	} else {
		logger.Info("Ledger loaded", slog.Int("entries", l.Len()))
	}

	return app, &core{
		logger: logger,
		db:     db,
		ledger: l,
		manual: manual,
		sources: &inspection.Sources{
			Registry: db,
			Ledger:   l,
			Manual:   manual,
		},
	}, nil
}

func loadManualCatalog(path string) (*catalog.ManualCatalog, error) {
	if path == "" {
		c, err := catalog.DefaultManualCatalog()
		if err != nil {
			return nil, fmt.Errorf("load embedded manual specs: %w", err)
		}
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manual specs: %w", err)
	}
	defer f.Close()
	c, err := catalog.ParseManualCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load manual specs %s: %w", path, err)
	}
	return c, nil
}

// watchLedger runs the ledger watcher until ctx ends. A watcher that cannot
// start or fails only disables live reloads, so the error is logged.
func watchLedger(ctx context.Context, l *ledger.Ledger, logger *slog.Logger, cb ledger.ReloadCallback) {
	if err := ledger.Watch(ctx, l, logger, cb); err != nil {
		logger.Warn("ledger watcher stopped", slog.String("error", err.Error()))
	}
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, c, err := setup(opts)
	if err != nil {
		return err
	}
	defer c.db.Close()

	cfg := app.config
	logger := c.logger

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	inspections := inspection.NewService(c.sources,
		inspection.WithPublisher(broker),
		inspection.WithLogger(logger),
		inspection.WithFetchTimeout(cfg.Checklist.FetchTimeout))

	apiRouter := api.NewRouter(api.Deps{
		Registry:    c.db,
		Inspections: inspections,
		Ledger:      c.ledger,
		Manual:      c.manual,
	}, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
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
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, _, err := c.db.ListAssets(req.Context(), 1, 0, ""); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"registry unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the ledger when its file changes.
	if cfg.Data.Watch {
		g.Go(func() error {
			watchLedger(gCtx, c.ledger, logger, func(entries int) {
				logger.Info("Ledger reloaded", slog.Int("entries", entries))
				// Open checklists keep their items until regenerated.
				broker.Publish(sse.Event{Type: sse.EventLedgerReloaded, Data: map[string]int{"entries": entries}})
			})
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...", slog.Int("sse_clients", broker.ClientCount()))

		// Close SSE streams first so Shutdown does not wait on them.
		broker.Close()

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

// RunMCP serves the inspection tools over stdio until stdin closes.
// Logs must not go to stdout in this mode; pass WithLogOutput(os.Stderr).
func RunMCP(ctx context.Context, opts ...Option) error {
	app, c, err := setup(opts)
	if err != nil {
		return err
	}
	defer c.db.Close()

	if app.config.Data.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go watchLedger(watchCtx, c.ledger, c.logger, nil)
	}

	inspections := inspection.NewService(c.sources,
		inspection.WithLogger(c.logger),
		inspection.WithFetchTimeout(app.config.Checklist.FetchTimeout))

	c.logger.Info("Serving MCP over stdio")
	return mcpserver.New(c.db, inspections).ServeStdio()
}
