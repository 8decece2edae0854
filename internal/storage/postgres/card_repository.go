package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/ticket-sales/internal/domain"
)

type CardRepository struct {
	q querier
}

func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{q: querier{pool: pool}}
}

// CreateCard stores a card whose sensitive fields are already encrypted.
func (r *CardRepository) CreateCard(ctx context.Context, card domain.CreditCard) (int64, error) {
	const stmt = `
INSERT INTO credit_cards (number, holder_name, expiration_date, cvv, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var id int64
	err := r.q.queryRow(ctx, stmt, card.Number, card.HolderName, card.ExpirationDate, card.CVV, card.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create credit card: %w", err)
	}
	return id, nil
}

func (r *CardRepository) GetCard(ctx context.Context, id int64) (domain.CreditCard, error) {
	const query = `
SELECT id, number, holder_name, expiration_date, cvv, created_at
FROM credit_cards
WHERE id = $1`

	var c domain.CreditCard
	err := r.q.queryRow(ctx, query, id).Scan(&c.ID, &c.Number, &c.HolderName, &c.ExpirationDate, &c.CVV, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CreditCard{}, domain.ErrCardNotFound
		}
		return domain.CreditCard{}, fmt.Errorf("get credit card: %w", err)
	}
	return c, nil
}
