package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/clock"
	"github.com/cimillas/ticket-sales/internal/domain"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (int64, error)
	CreateSponsor(ctx context.Context, name string) (int64, error)
	AddContribution(ctx context.Context, c domain.Contribution) error
	ListEventsWithSponsors(ctx context.Context) ([]domain.EventWithSponsors, error)
}

// EventListingCache holds the events-with-sponsors listing between writes.
// Implementations treat backend failures as misses.
type EventListingCache interface {
	Get(ctx context.Context) ([]domain.EventWithSponsors, bool)
	Set(ctx context.Context, events []domain.EventWithSponsors)
	Invalidate(ctx context.Context)
}

type EventService struct {
	repo  EventRepository
	clock clock.Clock
	cache EventListingCache
}

type EventServiceOption func(*EventService)

func WithListingCache(c EventListingCache) EventServiceOption {
	return func(s *EventService) {
		if c != nil {
			s.cache = c
		}
	}
}

func NewEventService(repo EventRepository, clk clock.Clock, opts ...EventServiceOption) *EventService {
	svc := &EventService{
		repo:  repo,
		clock: clk,
		cache: noopListingCache{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateEventInput struct {
	Name     string
	Capacity int
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.Capacity < 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}

	event := domain.Event{
		Name:      name,
		Capacity:  in.Capacity,
		CreatedAt: s.clock.Now(),
	}
	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}
	event.ID = id
	s.cache.Invalidate(ctx)
	return event, nil
}

func (s *EventService) CreateSponsor(ctx context.Context, name string) (domain.Sponsor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Sponsor{}, domain.ErrSponsorNameRequired
	}
	id, err := s.repo.CreateSponsor(ctx, name)
	if err != nil {
		return domain.Sponsor{}, err
	}
	return domain.Sponsor{ID: id, Name: name}, nil
}

type AddSponsorInput struct {
	EventID   int64
	SponsorID int64
	Amount    decimal.Decimal
}

func (s *EventService) AddSponsorToEvent(ctx context.Context, in AddSponsorInput) error {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return err
	}
	if in.EventID <= 0 || in.SponsorID <= 0 {
		return domain.ErrContributionFailed
	}
	err := s.repo.AddContribution(ctx, domain.Contribution{
		EventID:   in.EventID,
		SponsorID: in.SponsorID,
		Amount:    in.Amount,
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *EventService) ListEventsWithSponsors(ctx context.Context) ([]domain.EventWithSponsors, error) {
	if events, ok := s.cache.Get(ctx); ok {
		return events, nil
	}
	events, err := s.repo.ListEventsWithSponsors(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, events)
	return events, nil
}

type noopListingCache struct{}

func (noopListingCache) Get(context.Context) ([]domain.EventWithSponsors, bool) { return nil, false }
func (noopListingCache) Set(context.Context, []domain.EventWithSponsors)        {}
func (noopListingCache) Invalidate(context.Context)                             {}
