package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/modinver/recoverycashback-sub000/internal/cache"
	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/database"
	"github.com/modinver/recoverycashback-sub000/internal/log"
	"github.com/modinver/recoverycashback-sub000/internal/queue"
	"github.com/modinver/recoverycashback-sub000/internal/repository"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
	"github.com/modinver/recoverycashback-sub000/internal/tasks"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	blobStore, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init blob store")
	}

	processor := tasks.NewProcessor(
		repository.NewAssetRepository(dbPool),
		blobStore,
		cfg.Jobs.Retention,
		logger,
	)
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Jobs.Stream,
		cfg.Jobs.Group,
		cfg.Jobs.Consumer,
		cfg.Jobs.ClaimInterval,
		logger,
		processor,
	)

	go func() {
		if err := consumer.Start(ctx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
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
