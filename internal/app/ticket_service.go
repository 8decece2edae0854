package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/clock"
	"github.com/cimillas/ticket-sales/internal/domain"
)

type TicketRepository interface {
	CreateTicket(ctx context.Context, t domain.Ticket) (int64, error)
	GetTicket(ctx context.Context, id int64) (domain.Ticket, error)
	UpdateTicketPrice(ctx context.Context, id int64, price decimal.Decimal) error
	UpdateTicketDetails(ctx context.Context, id int64, upd domain.TicketUpdate) error
	DeleteTicket(ctx context.Context, id int64) error
}

type TicketService struct {
	repo  TicketRepository
	clock clock.Clock
}

func NewTicketService(repo TicketRepository, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		clock: clk,
	}
}

type CreateTicketInput struct {
	Show  *string
	User  *string
	Price *decimal.Decimal
}

func (s *TicketService) CreateTicket(ctx context.Context, in CreateTicketInput) (domain.Ticket, error) {
	price := decimal.Zero
	if in.Price != nil {
		price = *in.Price
	}
	if err := domain.ValidatePrice(price); err != nil {
		return domain.Ticket{}, err
	}

	ticket := domain.Ticket{
		Show:      in.Show,
		User:      blankToNil(in.User),
		Price:     price,
		CreatedAt: s.clock.Now(),
	}
	id, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket.ID = id
	return ticket, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	if id <= 0 {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return s.repo.GetTicket(ctx, id)
}

func (s *TicketService) UpdateTicketPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if err := domain.ValidatePrice(price); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrTicketNotFound
	}
	return s.repo.UpdateTicketPrice(ctx, id, price)
}

type UpdateTicketDetailsInput struct {
	Seat       *string
	TicketType *string
	Price      *decimal.Decimal
}

// UpdateTicketDetails changes only the provided fields. Ownership is never
// touched here; it changes through SaleService alone.
func (s *TicketService) UpdateTicketDetails(ctx context.Context, id int64, in UpdateTicketDetailsInput) error {
	if in.Price != nil {
		if err := domain.ValidatePrice(*in.Price); err != nil {
			return err
		}
	}
	if id <= 0 {
		return domain.ErrTicketNotFound
	}
	return s.repo.UpdateTicketDetails(ctx, id, domain.TicketUpdate{
		Seat:       in.Seat,
		TicketType: in.TicketType,
		Price:      in.Price,
	})
}

func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrTicketNotFound
	}
	return s.repo.DeleteTicket(ctx, id)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
