// Package main is the entrypoint for the minutes API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/minutes/internal/ai"
	"github.com/kiranshivaraju/minutes/internal/api"
	"github.com/kiranshivaraju/minutes/internal/api/handler"
	"github.com/kiranshivaraju/minutes/internal/api/response"
	"github.com/kiranshivaraju/minutes/internal/cache"
	"github.com/kiranshivaraju/minutes/internal/config"
	"github.com/kiranshivaraju/minutes/internal/events"
	"github.com/kiranshivaraju/minutes/internal/jobs"
	"github.com/kiranshivaraju/minutes/internal/store"
	"github.com/kiranshivaraju/minutes/internal/upload"
)

const (
	shutdownTimeout = 30 * time.Second
	migrationsDir   = "migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// pinger is anything the health endpoint can check.
type pinger interface {
	Ping(ctx context.Context) error
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"ai_mode", cfg.AI.Mode,
		"extraction_provider", cfg.AI.ExtractionProvider,
		"env", cfg.Server.Env,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []jobs.Option{
		jobs.WithMaxArtifactBytes(cfg.Upload.MaxArtifactBytes),
		jobs.WithTimeout(cfg.AI.InferenceTimeout),
	}
	checks := map[string]pinger{"cache": nil, "archive": nil, "events": nil}

	// Side channels are optional; a configured one must be reachable at startup.
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := store.RunMigrations(cfg.Database.URL, migrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		archive := store.NewPostgresStore(pool)
		opts = append(opts, jobs.WithArchive(archive))
		checks["archive"] = archive
		slog.Info("export archive enabled")
	}

	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		opts = append(opts, jobs.WithStatusCache(redisCache, cfg.Redis.StatusTTL))
		checks["cache"] = redisCache
		slog.Info("status cache enabled")
	}

	if cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer pub.Close()

		opts = append(opts, jobs.WithPublisher(pub))
		checks["events"] = pub
		slog.Info("job events enabled", "subject_prefix", cfg.NATS.SubjectPrefix)
	}

	transcriber, err := ai.NewTranscriber(cfg.AI)
	if err != nil {
		return fmt.Errorf("create transcriber: %w", err)
	}
	extractor, err := ai.NewExtractor(cfg.AI)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}
	if cfg.AI.Fixture() {
		slog.Warn("AI adapters running in fixture mode")
	}
	slog.Info("AI adapters initialized", "transcriber", transcriber.Name(), "extractor", extractor.Name())

	uploads, err := upload.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	engine := jobs.NewEngine(jobs.NewMemoryStore(), transcriber, extractor, uploads, opts...)

	router := api.NewRouter(api.Dependencies{
		CORSOrigins: cfg.Server.CORSOrigins,

		HealthHandler:  healthHandler(checks),
		UploadHandler:  handler.NewUploadHandler(engine, uploads, cfg.Upload.MaxRequestBytes),
		ProcessHandler: handler.NewProcessHandler(engine),
		StatusHandler:  handler.NewStatusHandler(engine),
		ResultsHandler: handler.NewResultsHandler(engine),
		ConfirmHandler: handler.NewConfirmHandler(engine),
		ExportHandler:  handler.NewExportHandler(engine),
		ExportsHandler: handler.NewExportHistoryHandler(engine),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// Uploads are large and /process blocks for two adapter calls.
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 2*cfg.AI.InferenceTimeout + time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler pings every enabled side channel. A nil entry is reported
// as disabled and never degrades the service.
func healthHandler(checks map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]string, len(checks))
		degraded := false

		for name, p := range checks {
			if p == nil {
				services[name] = "disabled"
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				slog.Warn("health check failed", "service", name, "error", err)
				services[name] = "degraded"
				degraded = true
				continue
			}
			services[name] = "ok"
		}

		if degraded {
			response.Status(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "degraded",
				"services": services,
			})
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": services,
		})
	}
}
