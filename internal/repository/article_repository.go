package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modinver/recoverycashback-sub000/internal/models"
)

var ErrArticleNotFound = errors.New("article not found")

type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

func (r *ArticleRepository) Create(ctx context.Context, article models.Article) error {
	const query = `
		INSERT INTO articles (id, author_id, title, slug, excerpt, body, cover_url, tags, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		article.ID, article.AuthorID, article.Title, article.Slug,
		article.Excerpt, article.Body, article.CoverURL, article.Tags, article.PublishedAt,
	)
	return err
}

func (r *ArticleRepository) Update(ctx context.Context, article models.Article) error {
	const query = `
		UPDATE articles
		SET author_id = $2, title = $3, slug = $4, excerpt = $5, body = $6,
		    cover_url = $7, tags = $8, published_at = $9, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		article.ID, article.AuthorID, article.Title, article.Slug,
		article.Excerpt, article.Body, article.CoverURL, article.Tags, article.PublishedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (models.Article, error) {
	const query = `
		SELECT id, author_id, title, slug, excerpt, body, cover_url, tags, published_at, created_at, updated_at
		FROM articles WHERE slug = $1
	`
	row := r.pool.QueryRow(ctx, query, slug)
	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Article{}, ErrArticleNotFound
		}
		return models.Article{}, err
	}
	return article, nil
}

// List returns published articles, newest first. An empty tag matches all.
func (r *ArticleRepository) List(ctx context.Context, tag string, limit, offset int) ([]models.Article, error) {
	const query = `
		SELECT id, author_id, title, slug, excerpt, body, cover_url, tags, published_at, created_at, updated_at
		FROM articles
		WHERE published_at IS NOT NULL AND published_at <= NOW()
		  AND ($1 = '' OR $1 = ANY(tags))
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, tag, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func scanArticle(row pgx.Row) (models.Article, error) {
	var article models.Article
	err := row.Scan(
		&article.ID,
		&article.AuthorID,
		&article.Title,
		&article.Slug,
		&article.Excerpt,
		&article.Body,
		&article.CoverURL,
		&article.Tags,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	return article, err
}
