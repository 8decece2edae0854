package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/clock"
	"github.com/cimillas/ticket-sales/internal/domain"
)

func TestTicketService_CreateTicket(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("assigns id and defaults price to zero", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))

		show := "Hamlet"
		ticket, err := svc.CreateTicket(context.Background(), CreateTicketInput{Show: &show})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.ID != 1 {
			t.Fatalf("expected id 1, got %d", ticket.ID)
		}
		if !ticket.Price.IsZero() {
			t.Fatalf("expected zero price, got %s", ticket.Price)
		}
		if !ticket.CreatedAt.Equal(now) {
			t.Fatalf("expected created_at %v, got %v", now, ticket.CreatedAt)
		}
		if ticket.Sold() {
			t.Fatalf("expected new ticket to be unsold")
		}
	})

	t.Run("ids are sequential", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))

		for want := int64(1); want <= 3; want++ {
			ticket, err := svc.CreateTicket(context.Background(), CreateTicketInput{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ticket.ID != want {
				t.Fatalf("expected id %d, got %d", want, ticket.ID)
			}
		}
	})

	t.Run("blank owner is treated as unsold", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))

		blank := "  "
		ticket, err := svc.CreateTicket(context.Background(), CreateTicketInput{User: &blank})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.User != nil {
			t.Fatalf("expected nil owner, got %q", *ticket.User)
		}
	})

	t.Run("rejects negative price", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))

		price := decimal.NewFromInt(-1)
		_, err := svc.CreateTicket(context.Background(), CreateTicketInput{Price: &price})
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
		if len(repo.tickets) != 0 {
			t.Fatalf("expected nothing stored, got %d", len(repo.tickets))
		}
	})
}

func TestTicketService_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("updates price", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))
		price := decimal.NewFromInt(100)
		created, _ := svc.CreateTicket(context.Background(), CreateTicketInput{Price: &price})

		if err := svc.UpdateTicketPrice(context.Background(), created.ID, decimal.NewFromInt(250)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := svc.GetTicket(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !got.Price.Equal(decimal.NewFromInt(250)) {
			t.Fatalf("expected price 250, got %s", got.Price)
		}
	})

	t.Run("price update validates before lookup", func(t *testing.T) {
		svc := NewTicketService(newFakeTicketRepo(), clock.NewFixed(now))

		err := svc.UpdateTicketPrice(context.Background(), 42, decimal.NewFromInt(-5))
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
		err = svc.UpdateTicketPrice(context.Background(), 42, decimal.NewFromInt(5))
		if !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})

	t.Run("rejects prices the price column cannot hold", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))
		price := decimal.NewFromInt(100)
		created, _ := svc.CreateTicket(context.Background(), CreateTicketInput{Price: &price})

		for _, raw := range []string{"1e20", "0.005"} {
			bad := decimal.RequireFromString(raw)
			if err := svc.UpdateTicketPrice(context.Background(), created.ID, bad); !errors.Is(err, domain.ErrInvalidPrice) {
				t.Fatalf("price %s: expected ErrInvalidPrice, got %v", raw, err)
			}
			err := svc.UpdateTicketDetails(context.Background(), created.ID, UpdateTicketDetailsInput{Price: &bad})
			if !errors.Is(err, domain.ErrInvalidPrice) {
				t.Fatalf("details price %s: expected ErrInvalidPrice, got %v", raw, err)
			}
			if _, err := svc.CreateTicket(context.Background(), CreateTicketInput{Price: &bad}); !errors.Is(err, domain.ErrInvalidPrice) {
				t.Fatalf("create price %s: expected ErrInvalidPrice, got %v", raw, err)
			}
		}
		got, _ := svc.GetTicket(context.Background(), created.ID)
		if !got.Price.Equal(price) {
			t.Fatalf("expected price unchanged at 100, got %s", got.Price)
		}
	})

	t.Run("partial details update keeps other fields", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))
		price := decimal.NewFromInt(100)
		created, _ := svc.CreateTicket(context.Background(), CreateTicketInput{Price: &price})

		seat := "A12"
		if err := svc.UpdateTicketDetails(context.Background(), created.ID, UpdateTicketDetailsInput{Seat: &seat}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, _ := svc.GetTicket(context.Background(), created.ID)
		if got.Seat == nil || *got.Seat != "A12" {
			t.Fatalf("expected seat A12, got %v", got.Seat)
		}
		if !got.Price.Equal(price) {
			t.Fatalf("expected price unchanged, got %s", got.Price)
		}
	})

	t.Run("delete twice reports not found", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, clock.NewFixed(now))
		created, _ := svc.CreateTicket(context.Background(), CreateTicketInput{})

		if err := svc.DeleteTicket(context.Background(), created.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := svc.DeleteTicket(context.Background(), created.ID); !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
		if _, err := svc.GetTicket(context.Background(), created.ID); !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})
}

type fakeTicketRepo struct {
	nextID  int64
	tickets map[int64]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]domain.Ticket)}
}

func (f *fakeTicketRepo) CreateTicket(_ context.Context, t domain.Ticket) (int64, error) {
	f.nextID++
	t.ID = f.nextID
	f.tickets[t.ID] = t
	return t.ID, nil
}

func (f *fakeTicketRepo) GetTicket(_ context.Context, id int64) (domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTicketRepo) UpdateTicketPrice(_ context.Context, id int64, price decimal.Decimal) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Price = price
	f.tickets[id] = t
	return nil
}

func (f *fakeTicketRepo) UpdateTicketDetails(_ context.Context, id int64, upd domain.TicketUpdate) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if upd.Seat != nil {
		t.Seat = upd.Seat
	}
	if upd.TicketType != nil {
		t.TicketType = upd.TicketType
	}
	if upd.Price != nil {
		t.Price = *upd.Price
	}
	f.tickets[id] = t
	return nil
}

func (f *fakeTicketRepo) DeleteTicket(_ context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(f.tickets, id)
	return nil
}
