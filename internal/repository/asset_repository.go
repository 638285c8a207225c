package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modinver/recoverycashback-sub000/internal/models"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetRepository struct {
	pool *pgxpool.Pool
}

func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

func (r *AssetRepository) Create(ctx context.Context, asset models.Asset) error {
	const query = `
		INSERT INTO assets (
			id, file_name, key, backend, content_type, source_format,
			size_bytes, width, height, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.FileName,
		asset.Key,
		asset.Backend,
		asset.ContentType,
		asset.SourceFormat,
		asset.SizeBytes,
		asset.Width,
		asset.Height,
		asset.CreatedAt,
	)
	return err
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (models.Asset, error) {
	const query = `
		SELECT id, file_name, key, backend, content_type, source_format,
		       size_bytes, width, height, deleted_at, created_at
		FROM assets WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Asset{}, ErrAssetNotFound
		}
		return models.Asset{}, err
	}
	return asset, nil
}

func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	const query = `
		SELECT id, file_name, key, backend, content_type, source_format,
		       size_bytes, width, height, deleted_at, created_at
		FROM assets
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// SoftDelete marks the asset deleted and returns it so the caller can
// enqueue the blob removal.
func (r *AssetRepository) SoftDelete(ctx context.Context, id string) (models.Asset, error) {
	const query = `
		UPDATE assets SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, file_name, key, backend, content_type, source_format,
		          size_bytes, width, height, deleted_at, created_at
	`

	row := r.pool.QueryRow(ctx, query, id)
	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Asset{}, ErrAssetNotFound
		}
		return models.Asset{}, err
	}
	return asset, nil
}

// ListPurgeable returns soft-deleted assets past the retention window whose
// blobs and rows the worker may remove for good.
func (r *AssetRepository) ListPurgeable(ctx context.Context, olderThan time.Time, limit int) ([]models.Asset, error) {
	const query = `
		SELECT id, file_name, key, backend, content_type, source_format,
		       size_bytes, width, height, deleted_at, created_at
		FROM assets
		WHERE deleted_at IS NOT NULL AND deleted_at < $1
		ORDER BY deleted_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	return err
}

func scanAsset(row pgx.Row) (models.Asset, error) {
	var asset models.Asset
	err := row.Scan(
		&asset.ID,
		&asset.FileName,
		&asset.Key,
		&asset.Backend,
		&asset.ContentType,
		&asset.SourceFormat,
		&asset.SizeBytes,
		&asset.Width,
		&asset.Height,
		&asset.DeletedAt,
		&asset.CreatedAt,
	)
	return asset, err
}
