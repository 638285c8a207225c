package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/modinver/recoverycashback-sub000/internal/config"
	"github.com/modinver/recoverycashback-sub000/internal/models"
)

// Task types on the maintenance stream.
const (
	TaskRemove = "remove"
	TaskPurge  = "purge"
)

// EnqueueRemoval asks the worker to delete one asset's blob after its row
// was soft-deleted.
func EnqueueRemoval(ctx context.Context, queue *redis.Client, stream string, asset models.Asset) error {
	if queue == nil {
		return nil
	}
	_, err := queue.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"type":    TaskRemove,
			"assetId": asset.ID,
			"key":     asset.Key,
		},
	}).Result()
	return err
}

// Scheduler enqueues the nightly purge sweep that removes blobs of
// soft-deleted assets past the retention window.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	cfg   config.JobsConfig
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.PurgeSchedule, s.enqueuePurge); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits up to five seconds for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueuePurge() {
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: s.cfg.Stream,
		Values: map[string]any{"type": TaskPurge},
	}).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("enqueue purge failed")
	}
}
