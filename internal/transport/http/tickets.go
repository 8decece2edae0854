package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/app"
	"github.com/cimillas/ticket-sales/internal/domain"
)

// TicketService is the interface needed by the ticket endpoints.
type TicketService interface {
	CreateTicket(ctx context.Context, in app.CreateTicketInput) (domain.Ticket, error)
	GetTicket(ctx context.Context, id int64) (domain.Ticket, error)
	UpdateTicketPrice(ctx context.Context, id int64, price decimal.Decimal) error
	UpdateTicketDetails(ctx context.Context, id int64, in app.UpdateTicketDetailsInput) error
	DeleteTicket(ctx context.Context, id int64) error
}

type createTicketRequest struct {
	Price *decimal.Decimal `json:"price"`
	Show  *string          `json:"show"`
	User  *string          `json:"user"`
}

type createTicketResponse struct {
	TicketID int64 `json:"ticket_id"`
}

type updateTicketRequest struct {
	Seat       *string          `json:"seat"`
	TicketType *string          `json:"ticket_type"`
	Price      *decimal.Decimal `json:"price"`
}

type ticketResponse struct {
	ID         int64       `json:"id"`
	Show       *string     `json:"show"`
	User       *string     `json:"user"`
	Price      json.Number `json:"price"`
	Seat       *string     `json:"seat,omitempty"`
	TicketType *string     `json:"ticket_type,omitempty"`
	SoldAt     *time.Time  `json:"sold_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func newTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:         t.ID,
		Show:       t.Show,
		User:       t.User,
		Price:      json.Number(t.Price.String()),
		Seat:       t.Seat,
		TicketType: t.TicketType,
		SoldAt:     t.SoldAt,
		CreatedAt:  t.CreatedAt,
	}
}

// HandleCreateTicket serves POST /ticket.
func HandleCreateTicket(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTicketRequest
		if !decodeBody(w, r, &req) {
			return
		}

		ticket, err := svc.CreateTicket(r.Context(), app.CreateTicketInput{
			Show:  req.Show,
			User:  req.User,
			Price: req.Price,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, createTicketResponse{TicketID: ticket.ID})
	}
}

// HandleGetTicket serves GET /ticket/{id} and GET /tickets/{id}.
func HandleGetTicket(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		ticket, err := svc.GetTicket(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newTicketResponse(ticket))
	}
}

// HandleUpdateTicket serves PUT /ticket/{id}; absent fields keep their value.
func HandleUpdateTicket(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		var req updateTicketRequest
		if !decodeBody(w, r, &req) {
			return
		}

		err := svc.UpdateTicketDetails(r.Context(), id, app.UpdateTicketDetailsInput{
			Seat:       req.Seat,
			TicketType: req.TicketType,
			Price:      req.Price,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDetail(w, "ticket updated")
	}
}

// HandleUpdateTicketPrice serves PUT /ticket/{id}/price/{new_price}.
func HandleUpdateTicketPrice(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		price, err := decimal.NewFromString(r.PathValue("new_price"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPrice, "price must be a number")
			return
		}

		if err := svc.UpdateTicketPrice(r.Context(), id, price); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDetail(w, "ticket price updated")
	}
}

// HandleDeleteTicket serves DELETE /ticket/{id}.
func HandleDeleteTicket(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeleteTicket(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDetail(w, "ticket removed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

// pathID parses an integer path value. Non-positive ids parse fine and are
// reported as not found by the services.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, name+" must be an integer")
		return 0, false
	}
	return id, true
}
