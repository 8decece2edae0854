package http

import (
	"context"
	"net/http"

	"github.com/cimillas/ticket-sales/internal/app"
	"github.com/cimillas/ticket-sales/internal/domain"
)

// TicketSeller is the minimal interface needed to sell a ticket.
type TicketSeller interface {
	Sell(ctx context.Context, in app.SellTicketInput) (app.SaleResult, error)
}

type saleResponse struct {
	Detail string `json:"detail"`
	Sold   bool   `json:"sold"`
}

// HandleSellTicket serves PUT /sellticket/{id}?user=. Losing a race is not
// an error: the loser gets 200 with sold=false.
func HandleSellTicket(svc TicketSeller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		res, err := svc.Sell(r.Context(), app.SellTicketInput{
			TicketID: id,
			Buyer:    r.URL.Query().Get("user"),
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		switch res.Outcome {
		case domain.SaleSold:
			writeJSON(w, http.StatusOK, saleResponse{Detail: "ticket sold", Sold: true})
		case domain.SaleAlreadySold:
			writeJSON(w, http.StatusOK, saleResponse{Detail: "ticket already sold", Sold: false})
		default:
			writeError(w, http.StatusNotFound, codeTicketNotFound, domain.ErrTicketNotFound.Error())
		}
	}
}
