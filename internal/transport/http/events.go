package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/cimillas/ticket-sales/internal/app"
	"github.com/cimillas/ticket-sales/internal/domain"
)

// EventService is the interface needed by the event and sponsor endpoints.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	CreateSponsor(ctx context.Context, name string) (domain.Sponsor, error)
	AddSponsorToEvent(ctx context.Context, in app.AddSponsorInput) error
	ListEventsWithSponsors(ctx context.Context) ([]domain.EventWithSponsors, error)
}

type createEventRequest struct {
	Name     string `json:"event_name"`
	Capacity int    `json:"nb_tickets"`
}

type createEventResponse struct {
	EventID int64 `json:"event_id"`
}

type createSponsorResponse struct {
	SponsorID int64 `json:"sponsor_id"`
}

type sponsorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type eventWithSponsorsResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Capacity int               `json:"nb_tickets"`
	Sponsors []sponsorResponse `json:"sponsors"`
}

// HandleCreateEvent serves POST /event.
func HandleCreateEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if !decodeBody(w, r, &req) {
			return
		}
		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Name:     req.Name,
			Capacity: req.Capacity,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, createEventResponse{EventID: event.ID})
	}
}

// HandleCreateSponsor serves POST /sponsor/{sponsor_name}.
func HandleCreateSponsor(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sponsor, err := svc.CreateSponsor(r.Context(), r.PathValue("sponsor_name"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, createSponsorResponse{SponsorID: sponsor.ID})
	}
}

// HandleAddSponsorToEvent serves POST /event/{event_id}/sponsor/{sponsor_id}?amount=.
// A missing amount pledges zero.
func HandleAddSponsorToEvent(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := pathID(w, r, "event_id")
		if !ok {
			return
		}
		sponsorID, ok := pathID(w, r, "sponsor_id")
		if !ok {
			return
		}

		amount := decimal.Zero
		if raw := r.URL.Query().Get("amount"); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidAmount, "amount must be a number")
				return
			}
			amount = parsed
		}

		err := svc.AddSponsorToEvent(r.Context(), app.AddSponsorInput{
			EventID:   eventID,
			SponsorID: sponsorID,
			Amount:    amount,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeDetail(w, "sponsor added to event")
	}
}

// HandleListEventsWithSponsors serves GET /events-with-sponsors.
func HandleListEventsWithSponsors(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEventsWithSponsors(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		resp := make([]eventWithSponsorsResponse, 0, len(events))
		for _, e := range events {
			sponsors := make([]sponsorResponse, 0, len(e.Sponsors))
			for _, s := range e.Sponsors {
				sponsors = append(sponsors, sponsorResponse{ID: s.ID, Name: s.Name})
			}
			resp = append(resp, eventWithSponsorsResponse{
				ID:       e.Event.ID,
				Name:     e.Event.Name,
				Capacity: e.Event.Capacity,
				Sponsors: sponsors,
			})
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}
