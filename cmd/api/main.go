package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/modinver/recoverycashback-sub000/internal/cache"
	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/database"
	"github.com/modinver/recoverycashback-sub000/internal/handlers"
	"github.com/modinver/recoverycashback-sub000/internal/jobs"
	"github.com/modinver/recoverycashback-sub000/internal/log"
	"github.com/modinver/recoverycashback-sub000/internal/server"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	blobStore, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init blob store")
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, blobStore, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(redisClient, cfg.Jobs, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func newBlobStore(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (storage.BlobStore, error) {
	if cfg.Storage.Backend == "local" {
		return storage.NewLocalStore(cfg.Storage.Local)
	}

	store, err := storage.NewObjectStore(cfg.Storage.S3)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}
	return store, nil
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
