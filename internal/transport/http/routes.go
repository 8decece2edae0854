package http

import (
	"log/slog"
	"net/http"
	"time"
)

// Services bundles the application services behind the API.
type Services struct {
	Tickets TicketService
	Sales   TicketSeller
	Events  EventService
	Cards   CardVault
}

type RouterOptions struct {
	Logger         *slog.Logger
	Metrics        RequestObserver
	MetricsHandler http.Handler
	CORSOrigins    []string
	RequestTimeout time.Duration
	Readiness      []Dependency
}

// NewRouter wires every endpoint and wraps the mux with request logging,
// CORS and the per-request timeout.
func NewRouter(svc Services, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, withRoute(pattern, h))
	}

	handle("GET /health", http.HandlerFunc(HealthHandler))
	handle("GET /ready", ReadinessHandler(opts.Readiness...))
	if opts.MetricsHandler != nil {
		handle("GET /metrics", opts.MetricsHandler)
	}

	handle("POST /ticket", HandleCreateTicket(svc.Tickets))
	handle("GET /ticket/{id}", HandleGetTicket(svc.Tickets))
	handle("GET /tickets/{id}", HandleGetTicket(svc.Tickets))
	handle("PUT /ticket/{id}", HandleUpdateTicket(svc.Tickets))
	handle("PUT /ticket/{id}/price/{new_price}", HandleUpdateTicketPrice(svc.Tickets))
	handle("DELETE /ticket/{id}", HandleDeleteTicket(svc.Tickets))
	handle("PUT /sellticket/{id}", HandleSellTicket(svc.Sales))

	handle("POST /event", HandleCreateEvent(svc.Events))
	handle("POST /sponsor/{sponsor_name}", HandleCreateSponsor(svc.Events))
	handle("POST /event/{event_id}/sponsor/{sponsor_id}", HandleAddSponsorToEvent(svc.Events))
	handle("GET /events-with-sponsors", HandleListEventsWithSponsors(svc.Events))

	handle("POST /creditcard", HandleStoreCard(svc.Cards))
	handle("GET /creditcard/{id}", HandleRetrieveCard(svc.Cards))

	mux.Handle("/", NotFoundHandler())

	var handler http.Handler = mux
	handler = RequestTimeout(opts.RequestTimeout, handler)
	handler = CORS(opts.CORSOrigins, handler)
	return RequestLogger(handler, opts.Logger, opts.Metrics)
}
