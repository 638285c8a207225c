package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modinver/recoverycashback-sub000/internal/models"
)

var ErrPageNotFound = errors.New("page not found")

type PageRepository struct {
	pool *pgxpool.Pool
}

func NewPageRepository(pool *pgxpool.Pool) *PageRepository {
	return &PageRepository{pool: pool}
}

// Upsert creates or replaces a static page keyed by slug. Pages are edited
// in place from the admin dashboard; there is no separate create flow.
func (r *PageRepository) Upsert(ctx context.Context, page models.Page) error {
	const query = `
		INSERT INTO pages (id, slug, title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title, body = EXCLUDED.body, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, page.ID, page.Slug, page.Title, page.Body)
	return err
}

func (r *PageRepository) Delete(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE slug = $1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}

func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (models.Page, error) {
	const query = `
		SELECT id, slug, title, body, created_at, updated_at
		FROM pages WHERE slug = $1
	`
	var page models.Page
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&page.ID, &page.Slug, &page.Title, &page.Body, &page.CreatedAt, &page.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Page{}, ErrPageNotFound
		}
		return models.Page{}, err
	}
	return page, nil
}

func (r *PageRepository) List(ctx context.Context) ([]models.Page, error) {
	const query = `
		SELECT id, slug, title, body, created_at, updated_at
		FROM pages ORDER BY slug ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var page models.Page
		if err := rows.Scan(&page.ID, &page.Slug, &page.Title, &page.Body, &page.CreatedAt, &page.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
