package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cimillas/ticket-sales/internal/clock"
	"github.com/cimillas/ticket-sales/internal/domain"
)

// SaleRepository is the storage contract of the sale coordinator.
// GetTicketForUpdate must lock the ticket row until the transaction opened
// by WithTx ends, and AssignOwner must only write when the row still has
// expectedVersion and no owner, returning domain.ErrSaleConflict otherwise.
type SaleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetTicketForUpdate(ctx context.Context, id int64) (domain.Ticket, error)
	AssignOwner(ctx context.Context, id, expectedVersion int64, buyer string, soldAt time.Time) error
}

// SaleRecorder observes finished sale attempts.
type SaleRecorder interface {
	ObserveSale(outcome domain.SaleOutcome, attempts int)
}

type SaleService struct {
	repo        SaleRepository
	clock       clock.Clock
	recorder    SaleRecorder
	maxAttempts int
	backoff     time.Duration
}

const (
	defaultSaleAttempts = 3
	defaultSaleBackoff  = 10 * time.Millisecond
)

type SaleServiceOption func(*SaleService)

// WithMaxAttempts caps how many transactions a single sale may run when it
// keeps losing compare-and-swap races.
func WithMaxAttempts(n int) SaleServiceOption {
	return func(s *SaleService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRetryBackoff sets the base pause between attempts; attempt n waits n*d.
func WithRetryBackoff(d time.Duration) SaleServiceOption {
	return func(s *SaleService) {
		if d >= 0 {
			s.backoff = d
		}
	}
}

func WithSaleRecorder(r SaleRecorder) SaleServiceOption {
	return func(s *SaleService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func NewSaleService(repo SaleRepository, clk clock.Clock, opts ...SaleServiceOption) *SaleService {
	svc := &SaleService{
		repo:        repo,
		clock:       clk,
		recorder:    nopSaleRecorder{},
		maxAttempts: defaultSaleAttempts,
		backoff:     defaultSaleBackoff,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type SellTicketInput struct {
	TicketID int64
	Buyer    string
}

type SaleResult struct {
	Outcome domain.SaleOutcome
	// Attempts is the number of transactions the sale ran.
	Attempts int
}

// Sell assigns the ticket to the buyer if nobody owns it yet. Among any
// number of concurrent calls for one ticket exactly one reports
// domain.SaleSold; the rest report domain.SaleAlreadySold.
//
// A sale that cannot get the row lock in time, or whose context ends first,
// is rolled back and returns domain.ErrSaleTimeout.
func (s *SaleService) Sell(ctx context.Context, in SellTicketInput) (SaleResult, error) {
	buyer := strings.TrimSpace(in.Buyer)
	if buyer == "" {
		return SaleResult{}, domain.ErrBuyerRequired
	}
	if in.TicketID <= 0 {
		return s.finish(domain.SaleNotFound, 0), nil
	}

	for attempt := 1; ; attempt++ {
		outcome, err := s.attempt(ctx, in.TicketID, buyer)
		switch {
		case err == nil:
			return s.finish(outcome, attempt), nil
		case errors.Is(err, domain.ErrSaleConflict):
			if attempt >= s.maxAttempts {
				return s.finish(domain.SaleAlreadySold, attempt), nil
			}
			if err := s.pause(ctx, attempt); err != nil {
				return SaleResult{Attempts: attempt}, err
			}
		case errors.Is(err, domain.ErrSaleTimeout):
			return SaleResult{Attempts: attempt}, err
		case ctx.Err() != nil:
			return SaleResult{Attempts: attempt}, fmt.Errorf("%w: %w", domain.ErrSaleTimeout, ctx.Err())
		default:
			return SaleResult{Attempts: attempt}, err
		}
	}
}

func (s *SaleService) attempt(ctx context.Context, id int64, buyer string) (domain.SaleOutcome, error) {
	var outcome domain.SaleOutcome
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, id)
		if err != nil {
			// A row deleted while we waited for its lock reads as missing.
			if errors.Is(err, domain.ErrTicketNotFound) {
				outcome = domain.SaleNotFound
				return nil
			}
			return err
		}
		if ticket.Sold() {
			outcome = domain.SaleAlreadySold
			return nil
		}
		if err := s.repo.AssignOwner(txCtx, id, ticket.Version, buyer, s.clock.Now()); err != nil {
			return err
		}
		outcome = domain.SaleSold
		return nil
	})
	return outcome, err
}

func (s *SaleService) pause(ctx context.Context, attempt int) error {
	if s.backoff == 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(attempt) * s.backoff)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrSaleTimeout, ctx.Err())
	}
}

func (s *SaleService) finish(outcome domain.SaleOutcome, attempts int) SaleResult {
	s.recorder.ObserveSale(outcome, attempts)
	return SaleResult{Outcome: outcome, Attempts: attempts}
}

type nopSaleRecorder struct{}

func (nopSaleRecorder) ObserveSale(domain.SaleOutcome, int) {}
