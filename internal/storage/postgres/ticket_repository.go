package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/domain"
)

const ticketColumns = `id, show_name, user_name, price, seat, ticket_type, version, sold_at, created_at`

type TicketRepository struct {
	pool *pgxpool.Pool
	q    querier
	opts txOptions
}

type TicketRepositoryOption func(*TicketRepository)

// WithLockTimeout bounds how long a sale waits for a ticket row held by a
// concurrent transaction.
func WithLockTimeout(d time.Duration) TicketRepositoryOption {
	return func(r *TicketRepository) {
		if d > 0 {
			r.opts.lockTimeout = d
		}
	}
}

func NewTicketRepository(pool *pgxpool.Pool, opts ...TicketRepositoryOption) *TicketRepository {
	r := &TicketRepository{pool: pool, q: querier{pool: pool}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, r.opts, fn)
}

func (r *TicketRepository) CreateTicket(ctx context.Context, t domain.Ticket) (int64, error) {
	const stmt = `
INSERT INTO tickets (show_name, user_name, price, seat, ticket_type, sold_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	var id int64
	err := r.q.queryRow(ctx, stmt, t.Show, t.User, t.Price, t.Seat, t.TicketType, t.SoldAt, t.CreatedAt).Scan(&id)
	if err != nil {
		if isCheckViolation(err) || isNumericOutOfRange(err) {
			return 0, domain.ErrInvalidPrice
		}
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	return id, nil
}

func (r *TicketRepository) GetTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return r.scanTicket(r.q.queryRow(ctx, query, id))
}

// GetTicketForUpdate reads the ticket and holds its row lock until the
// surrounding transaction ends. Other tickets are not affected.
func (r *TicketRepository) GetTicketForUpdate(ctx context.Context, id int64) (domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 FOR UPDATE`
	t, err := r.scanTicket(r.q.queryRow(ctx, query, id))
	switch {
	case err == nil:
		return t, nil
	case isLockTimeout(err):
		return domain.Ticket{}, domain.ErrSaleTimeout
	case isRetryableConflict(err):
		return domain.Ticket{}, domain.ErrSaleConflict
	}
	return domain.Ticket{}, err
}

// AssignOwner records buyer as the owner if the ticket is still unsold and
// unchanged since it was read at expectedVersion.
func (r *TicketRepository) AssignOwner(ctx context.Context, id, expectedVersion int64, buyer string, soldAt time.Time) error {
	const stmt = `
UPDATE tickets
SET user_name = $3, sold_at = $4, version = version + 1
WHERE id = $1 AND version = $2 AND user_name IS NULL`

	tag, err := r.q.exec(ctx, stmt, id, expectedVersion, buyer, soldAt)
	if err != nil {
		switch {
		case isRetryableConflict(err):
			return domain.ErrSaleConflict
		case isLockTimeout(err):
			return domain.ErrSaleTimeout
		}
		return fmt.Errorf("assign owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleConflict
	}
	return nil
}

func (r *TicketRepository) UpdateTicketPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	const stmt = `UPDATE tickets SET price = $2 WHERE id = $1`

	tag, err := r.q.exec(ctx, stmt, id, price)
	if err != nil {
		if isCheckViolation(err) || isNumericOutOfRange(err) {
			return domain.ErrInvalidPrice
		}
		return fmt.Errorf("update ticket price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) UpdateTicketDetails(ctx context.Context, id int64, upd domain.TicketUpdate) error {
	const stmt = `
UPDATE tickets
SET seat = COALESCE($2, seat),
	ticket_type = COALESCE($3, ticket_type),
	price = COALESCE($4::numeric, price)
WHERE id = $1`

	var price any
	if upd.Price != nil {
		price = *upd.Price
	}
	tag, err := r.q.exec(ctx, stmt, id, upd.Seat, upd.TicketType, price)
	if err != nil {
		if isCheckViolation(err) || isNumericOutOfRange(err) {
			return domain.ErrInvalidPrice
		}
		return fmt.Errorf("update ticket details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) DeleteTicket(ctx context.Context, id int64) error {
	tag, err := r.q.exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.Show, &t.User, &t.Price, &t.Seat, &t.TicketType, &t.Version, &t.SoldAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}
