package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modinver/recoverycashback-sub000/internal/models"
)

var ErrBankNotFound = errors.New("bank not found")

type BankRepository struct {
	pool *pgxpool.Pool
}

func NewBankRepository(pool *pgxpool.Pool) *BankRepository {
	return &BankRepository{pool: pool}
}

func (r *BankRepository) Create(ctx context.Context, bank models.Bank) error {
	const query = `
		INSERT INTO banks (id, name, slug, logo_url, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, bank.ID, bank.Name, bank.Slug, bank.LogoURL, bank.Website)
	return err
}

func (r *BankRepository) Update(ctx context.Context, bank models.Bank) error {
	const query = `
		UPDATE banks SET name = $2, slug = $3, logo_url = $4, website = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, bank.ID, bank.Name, bank.Slug, bank.LogoURL, bank.Website)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBankNotFound
	}
	return nil
}

func (r *BankRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM banks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBankNotFound
	}
	return nil
}

func (r *BankRepository) GetBySlug(ctx context.Context, slug string) (models.Bank, error) {
	const query = `
		SELECT id, name, slug, logo_url, website, created_at, updated_at
		FROM banks WHERE slug = $1
	`
	var bank models.Bank
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&bank.ID, &bank.Name, &bank.Slug, &bank.LogoURL, &bank.Website,
		&bank.CreatedAt, &bank.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Bank{}, ErrBankNotFound
		}
		return models.Bank{}, err
	}
	return bank, nil
}

func (r *BankRepository) List(ctx context.Context) ([]models.Bank, error) {
	const query = `
		SELECT id, name, slug, logo_url, website, created_at, updated_at
		FROM banks ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []models.Bank
	for rows.Next() {
		var bank models.Bank
		if err := rows.Scan(
			&bank.ID, &bank.Name, &bank.Slug, &bank.LogoURL, &bank.Website,
			&bank.CreatedAt, &bank.UpdatedAt,
		); err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	return banks, rows.Err()
}
