package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nexusprep/assessd/internal/archive"
	"github.com/nexusprep/assessd/internal/bank"
	"github.com/nexusprep/assessd/internal/config"
	"github.com/nexusprep/assessd/internal/database"
	"github.com/nexusprep/assessd/internal/engine"
	"github.com/nexusprep/assessd/internal/handler"
	"github.com/nexusprep/assessd/internal/logger"
	"github.com/nexusprep/assessd/internal/router"
	"github.com/nexusprep/assessd/internal/selector"
	"github.com/nexusprep/assessd/internal/validator"
	"github.com/nexusprep/assessd/internal/websocket"
	"github.com/nexusprep/assessd/internal/worker"
)

const janitorInterval = 10 * time.Minute

func main() {
	cfg := config.Load()
	log.Logger = logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Question catalog ───────────────────────────────────────────────
	questionBank, err := bank.Load(cfg.QuestionBankPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.QuestionBankPath).Msg("Failed to load question bank")
	}
	log.Info().Int("questions", questionBank.Len()).Msg("Question bank loaded")

	// ─── Archive store ──────────────────────────────────────────────────
	var primary engine.Archiver
	switch cfg.ArchiveBackend {
	case "file":
		fa, err := archive.NewFileArchiver(cfg.ArchiveDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize file archiver")
		}
		primary = fa
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		primary = archive.NewPostgresArchiver(pool, log.Logger)
	}

	var rdb *redis.Client
	archiver := primary
	rdb, err = database.NewRedisClient(ctx, cfg, log.Logger)
	if err != nil {
		// The engine still works without the retry queue; failed archive
		// writes are then only counted, not recovered.
		log.Warn().Err(err).Msg("Redis unavailable, archive retry queue disabled")
		rdb = nil
	} else {
		defer rdb.Close()
		archiver = archive.NewQueuedArchiver(primary, rdb, log.Logger)
	}

	// ─── Session engine ─────────────────────────────────────────────────
	hub := websocket.NewHub(log.Logger)
	registry := engine.NewRegistry(archiver, nil, log.Logger)
	monitor := engine.NewMonitor(registry, cfg.MonitorInterval, log.Logger)

	go monitor.Start(ctx)
	go runJanitor(ctx, registry, cfg.StaleSessionMaxAge)
	if rdb != nil {
		go worker.NewArchiveWorker(primary, rdb, log.Logger).Start(ctx)
	}

	// ─── HTTP surface ───────────────────────────────────────────────────
	h := router.Handlers{
		Session: handler.NewSessionHandler(registry, questionBank, selector.New(), hub, log.Logger),
		Catalog: handler.NewCatalogHandler(questionBank, log.Logger),
		WS:      handler.NewWSHandler(registry, hub, cfg.AllowedOrigins, log.Logger),
	}
	r := router.Setup(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// ─── Graceful shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}

	log.Info().Msg("Server stopped")
}

// runJanitor periodically force-expires abandoned sessions so they get scored
// and archived instead of lingering forever.
func runJanitor(ctx context.Context, registry *engine.Registry, maxAge time.Duration) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cleaned := registry.CleanupStale(maxAge); cleaned > 0 {
				log.Info().Int("count", cleaned).Msg("Stale sessions cleaned up")
			}
		}
	}
}
