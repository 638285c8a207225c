package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modinver/recoverycashback-sub000/internal/models"
)

var ErrAuthorNotFound = errors.New("author not found")

type AuthorRepository struct {
	pool *pgxpool.Pool
}

func NewAuthorRepository(pool *pgxpool.Pool) *AuthorRepository {
	return &AuthorRepository{pool: pool}
}

func (r *AuthorRepository) Create(ctx context.Context, author models.Author) error {
	const query = `
		INSERT INTO authors (id, name, slug, bio, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, author.ID, author.Name, author.Slug, author.Bio, author.AvatarURL)
	return err
}

func (r *AuthorRepository) Update(ctx context.Context, author models.Author) error {
	const query = `
		UPDATE authors SET name = $2, slug = $3, bio = $4, avatar_url = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, author.ID, author.Name, author.Slug, author.Bio, author.AvatarURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return nil
}

func (r *AuthorRepository) GetBySlug(ctx context.Context, slug string) (models.Author, error) {
	const query = `
		SELECT id, name, slug, bio, avatar_url, created_at, updated_at
		FROM authors WHERE slug = $1
	`
	var author models.Author
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&author.ID, &author.Name, &author.Slug, &author.Bio, &author.AvatarURL,
		&author.CreatedAt, &author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Author{}, ErrAuthorNotFound
		}
		return models.Author{}, err
	}
	return author, nil
}

func (r *AuthorRepository) List(ctx context.Context) ([]models.Author, error) {
	const query = `
		SELECT id, name, slug, bio, avatar_url, created_at, updated_at
		FROM authors ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var author models.Author
		if err := rows.Scan(
			&author.ID, &author.Name, &author.Slug, &author.Bio, &author.AvatarURL,
			&author.CreatedAt, &author.UpdatedAt,
		); err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}
