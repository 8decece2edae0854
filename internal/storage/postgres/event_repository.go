package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/ticket-sales/internal/domain"
)

type EventRepository struct {
	q querier
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{q: querier{pool: pool}}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	const stmt = `
INSERT INTO events (name, nb_tickets, created_at)
VALUES ($1, $2, $3)
RETURNING id`

	var id int64
	if err := r.q.queryRow(ctx, stmt, event.Name, event.Capacity, event.CreatedAt).Scan(&id); err != nil {
		if isCheckViolation(err) {
			return 0, domain.ErrInvalidCapacity
		}
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) CreateSponsor(ctx context.Context, name string) (int64, error) {
	const stmt = `INSERT INTO sponsors (name) VALUES ($1) RETURNING id`

	var id int64
	if err := r.q.queryRow(ctx, stmt, name).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrSponsorExists
		}
		return 0, fmt.Errorf("create sponsor: %w", err)
	}
	return id, nil
}

// AddContribution links a sponsor to an event. A second pledge for the same
// pair adds to the recorded amount.
func (r *EventRepository) AddContribution(ctx context.Context, c domain.Contribution) error {
	const stmt = `
INSERT INTO sponsorships (event_id, sponsor_id, amount)
VALUES ($1, $2, $3)
ON CONFLICT (event_id, sponsor_id)
DO UPDATE SET amount = sponsorships.amount + EXCLUDED.amount`

	if _, err := r.q.exec(ctx, stmt, c.EventID, c.SponsorID, c.Amount); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrContributionFailed
		}
		if isCheckViolation(err) || isNumericOutOfRange(err) {
			return domain.ErrInvalidAmount
		}
		return fmt.Errorf("add contribution: %w", err)
	}
	return nil
}

func (r *EventRepository) ListEventsWithSponsors(ctx context.Context) ([]domain.EventWithSponsors, error) {
	const query = `
SELECT e.id, e.name, e.nb_tickets, e.created_at, s.id, s.name
FROM events e
LEFT JOIN sponsorships es ON es.event_id = e.id
LEFT JOIN sponsors s ON s.id = es.sponsor_id
ORDER BY e.id ASC, s.id ASC`

	rows, err := r.q.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.EventWithSponsors
	for rows.Next() {
		var (
			event       domain.Event
			sponsorID   *int64
			sponsorName *string
		)
		if err := rows.Scan(&event.ID, &event.Name, &event.Capacity, &event.CreatedAt, &sponsorID, &sponsorName); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if n := len(events); n == 0 || events[n-1].Event.ID != event.ID {
			events = append(events, domain.EventWithSponsors{Event: event, Sponsors: []domain.Sponsor{}})
		}
		if sponsorID != nil && sponsorName != nil {
			last := &events[len(events)-1]
			last.Sponsors = append(last.Sponsors, domain.Sponsor{ID: *sponsorID, Name: *sponsorName})
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}
