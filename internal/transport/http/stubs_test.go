package http

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/app"
	"github.com/cimillas/ticket-sales/internal/domain"
)

var errStub = errors.New("stub: not configured")

// stubServices implements every service interface with overridable funcs.
// Unset funcs fail with errStub, which maps to a 500.
type stubServices struct {
	createTicket  func(app.CreateTicketInput) (domain.Ticket, error)
	getTicket     func(int64) (domain.Ticket, error)
	updatePrice   func(int64, decimal.Decimal) error
	updateDetails func(int64, app.UpdateTicketDetailsInput) error
	deleteTicket  func(int64) error
	sell          func(app.SellTicketInput) (app.SaleResult, error)
	createEvent   func(app.CreateEventInput) (domain.Event, error)
	createSponsor func(string) (domain.Sponsor, error)
	addSponsor    func(app.AddSponsorInput) error
	listEvents    func() ([]domain.EventWithSponsors, error)
	storeCard     func(app.StoreCardInput) (int64, error)
	retrieveCard  func(int64) (app.CardDetails, error)
}

func (s *stubServices) services() Services {
	return Services{Tickets: s, Sales: s, Events: s, Cards: s}
}

func (s *stubServices) CreateTicket(_ context.Context, in app.CreateTicketInput) (domain.Ticket, error) {
	if s.createTicket == nil {
		return domain.Ticket{}, errStub
	}
	return s.createTicket(in)
}

func (s *stubServices) GetTicket(_ context.Context, id int64) (domain.Ticket, error) {
	if s.getTicket == nil {
		return domain.Ticket{}, errStub
	}
	return s.getTicket(id)
}

func (s *stubServices) UpdateTicketPrice(_ context.Context, id int64, price decimal.Decimal) error {
	if s.updatePrice == nil {
		return errStub
	}
	return s.updatePrice(id, price)
}

func (s *stubServices) UpdateTicketDetails(_ context.Context, id int64, in app.UpdateTicketDetailsInput) error {
	if s.updateDetails == nil {
		return errStub
	}
	return s.updateDetails(id, in)
}

func (s *stubServices) DeleteTicket(_ context.Context, id int64) error {
	if s.deleteTicket == nil {
		return errStub
	}
	return s.deleteTicket(id)
}

func (s *stubServices) Sell(_ context.Context, in app.SellTicketInput) (app.SaleResult, error) {
	if s.sell == nil {
		return app.SaleResult{}, errStub
	}
	return s.sell(in)
}

func (s *stubServices) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	if s.createEvent == nil {
		return domain.Event{}, errStub
	}
	return s.createEvent(in)
}

func (s *stubServices) CreateSponsor(_ context.Context, name string) (domain.Sponsor, error) {
	if s.createSponsor == nil {
		return domain.Sponsor{}, errStub
	}
	return s.createSponsor(name)
}

func (s *stubServices) AddSponsorToEvent(_ context.Context, in app.AddSponsorInput) error {
	if s.addSponsor == nil {
		return errStub
	}
	return s.addSponsor(in)
}

func (s *stubServices) ListEventsWithSponsors(context.Context) ([]domain.EventWithSponsors, error) {
	if s.listEvents == nil {
		return nil, errStub
	}
	return s.listEvents()
}

func (s *stubServices) StoreCard(_ context.Context, in app.StoreCardInput) (int64, error) {
	if s.storeCard == nil {
		return 0, errStub
	}
	return s.storeCard(in)
}

func (s *stubServices) RetrieveCard(_ context.Context, id int64) (app.CardDetails, error) {
	if s.retrieveCard == nil {
		return app.CardDetails{}, errStub
	}
	return s.retrieveCard(id)
}
