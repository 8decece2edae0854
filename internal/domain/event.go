package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a show with a ticket capacity counter.
type Event struct {
	ID        int64
	Name      string
	Capacity  int
	CreatedAt time.Time
}

type Sponsor struct {
	ID   int64
	Name string
}

// Contribution is a sponsor's pledge to an event. There is at most one per
// (event, sponsor) pair; repeated pledges add to Amount.
type Contribution struct {
	EventID   int64
	SponsorID int64
	Amount    decimal.Decimal
}

// EventWithSponsors is the read model behind the events-with-sponsors listing.
type EventWithSponsors struct {
	Event    Event
	Sponsors []Sponsor
}
