package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/modinver/recoverycashback-sub000/internal/jobs"
	"github.com/modinver/recoverycashback-sub000/internal/models"
	"github.com/modinver/recoverycashback-sub000/internal/storage"
)

const (
	purgeBatchSize = 100
	// One sweep drains at most this many batches; anything left waits for
	// the next scheduled purge instead of spinning against a failing store.
	maxPurgePasses = 50
)

// AssetJanitor is the slice of the asset repository the worker needs.
type AssetJanitor interface {
	ListPurgeable(ctx context.Context, olderThan time.Time, limit int) ([]models.Asset, error)
	HardDelete(ctx context.Context, id string) error
}

type TaskPayload struct {
	Type    string `json:"type"`
	AssetID string `json:"assetId"`
	Key     string `json:"key"`
}

// Processor executes maintenance tasks: targeted blob removals after an
// admin delete, and the nightly sweep of soft-deleted assets past
// retention.
type Processor struct {
	assets    AssetJanitor
	store     storage.BlobStore
	retention time.Duration
	logger    zerolog.Logger
}

func NewProcessor(assets AssetJanitor, store storage.BlobStore, retention time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		assets:    assets,
		store:     store,
		retention: retention,
		logger:    logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case jobs.TaskRemove:
		return p.handleRemove(ctx, payload)
	case jobs.TaskPurge:
		return p.handlePurge(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (p *Processor) handleRemove(ctx context.Context, payload TaskPayload) error {
	if payload.Key != "" {
		if err := p.store.Remove(ctx, payload.Key); err != nil {
			return fmt.Errorf("remove blob %s: %w", payload.Key, err)
		}
	}
	if payload.AssetID != "" {
		if err := p.assets.HardDelete(ctx, payload.AssetID); err != nil {
			return fmt.Errorf("delete asset row %s: %w", payload.AssetID, err)
		}
	}
	p.logger.Info().Str("asset_id", payload.AssetID).Str("key", payload.Key).Msg("asset removed")
	return nil
}

func (p *Processor) handlePurge(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-p.retention)

	for pass := 0; pass < maxPurgePasses; pass++ {
		assets, err := p.assets.ListPurgeable(ctx, cutoff, purgeBatchSize)
		if err != nil {
			return fmt.Errorf("list purgeable: %w", err)
		}
		if len(assets) == 0 {
			return nil
		}

		purged := 0
		for _, asset := range assets {
			if err := p.store.Remove(ctx, asset.Key); err != nil {
				p.logger.Error().Err(err).Str("key", asset.Key).Msg("purge blob failed")
				continue
			}
			if err := p.assets.HardDelete(ctx, asset.ID); err != nil {
				p.logger.Error().Err(err).Str("asset_id", asset.ID).Msg("purge row failed")
				continue
			}
			purged++
		}

		// A pass with zero progress means every removal is failing; the
		// same rows would come straight back from ListPurgeable.
		if purged == 0 {
			return fmt.Errorf("purge stalled: %d assets could not be removed", len(assets))
		}

		p.logger.Info().Int("count", purged).Msg("purged assets")
		if len(assets) < purgeBatchSize {
			return nil
		}
	}

	p.logger.Warn().Int("passes", maxPurgePasses).Msg("purge sweep truncated")
	return nil
}
