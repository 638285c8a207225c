package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modinver/recoverycashback-sub000/internal/ids"
	"github.com/modinver/recoverycashback-sub000/internal/models"
)

var ErrCardNotFound = errors.New("card not found")

type CardRepository struct {
	pool *pgxpool.Pool
}

func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

func (r *CardRepository) Create(ctx context.Context, card models.Card) error {
	const query = `
		INSERT INTO cards (id, bank_id, name, slug, image_url, summary, annual_fee, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		card.ID, card.BankID, card.Name, card.Slug, card.ImageURL,
		card.Summary, card.AnnualFee, card.Active,
	)
	return err
}

func (r *CardRepository) Update(ctx context.Context, card models.Card) error {
	const query = `
		UPDATE cards
		SET bank_id = $2, name = $3, slug = $4, image_url = $5, summary = $6,
		    annual_fee = $7, active = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		card.ID, card.BankID, card.Name, card.Slug, card.ImageURL,
		card.Summary, card.AnnualFee, card.Active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) GetBySlug(ctx context.Context, slug string) (models.Card, error) {
	const query = `
		SELECT id, bank_id, name, slug, image_url, summary, annual_fee, active, created_at, updated_at
		FROM cards WHERE slug = $1
	`
	var card models.Card
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&card.ID, &card.BankID, &card.Name, &card.Slug, &card.ImageURL,
		&card.Summary, &card.AnnualFee, &card.Active, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Card{}, ErrCardNotFound
		}
		return models.Card{}, err
	}

	rates, err := r.ListRates(ctx, card.ID)
	if err != nil {
		return models.Card{}, fmt.Errorf("load rates: %w", err)
	}
	card.Rates = rates
	return card, nil
}

func (r *CardRepository) List(ctx context.Context, bankID string, limit, offset int) ([]models.Card, error) {
	const query = `
		SELECT id, bank_id, name, slug, image_url, summary, annual_fee, active, created_at, updated_at
		FROM cards
		WHERE active AND ($1 = '' OR bank_id = $1)
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, bankID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.ID, &card.BankID, &card.Name, &card.Slug, &card.ImageURL,
			&card.Summary, &card.AnnualFee, &card.Active, &card.CreatedAt, &card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *CardRepository) ListRates(ctx context.Context, cardID string) ([]models.CashbackRate, error) {
	const query = `
		SELECT id, card_id, category, rate_percent, monthly_cap
		FROM cashback_rates WHERE card_id = $1
		ORDER BY rate_percent DESC
	`
	rows, err := r.pool.Query(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.CashbackRate
	for rows.Next() {
		var rate models.CashbackRate
		if err := rows.Scan(&rate.ID, &rate.CardID, &rate.Category, &rate.RatePercent, &rate.MonthlyCap); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

// ReplaceRates swaps a card's cashback rates atomically. The admin form
// always submits the full rate set.
func (r *CardRepository) ReplaceRates(ctx context.Context, cardID string, rates []models.CashbackRate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cashback_rates WHERE card_id = $1`, cardID); err != nil {
		return err
	}

	const insert = `
		INSERT INTO cashback_rates (id, card_id, category, rate_percent, monthly_cap)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, rate := range rates {
		if rate.ID == "" {
			rate.ID = ids.New()
		}
		if _, err := tx.Exec(ctx, insert, rate.ID, cardID, rate.Category, rate.RatePercent, rate.MonthlyCap); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
