package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is a single sellable seat. User is nil until the ticket is sold.
type Ticket struct {
	ID         int64
	Show       *string
	User       *string
	Price      decimal.Decimal
	Seat       *string
	TicketType *string
	// Version is bumped on every ownership change and compared on write.
	Version   int64
	SoldAt    *time.Time
	CreatedAt time.Time
}

func (t Ticket) Sold() bool {
	return t.User != nil
}

type SaleOutcome string

const (
	SaleSold        SaleOutcome = "sold"
	SaleAlreadySold SaleOutcome = "already_sold"
	SaleNotFound    SaleOutcome = "not_found"
)

// TicketUpdate carries the optional fields of a partial ticket update.
// Nil fields are left unchanged.
type TicketUpdate struct {
	Seat       *string
	TicketType *string
	Price      *decimal.Decimal
}
