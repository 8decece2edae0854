package http

import (
	"context"
	"net/http"

	"github.com/cimillas/ticket-sales/internal/app"
)

// CardVault is the interface needed by the credit card endpoints.
type CardVault interface {
	StoreCard(ctx context.Context, in app.StoreCardInput) (int64, error)
	RetrieveCard(ctx context.Context, id int64) (app.CardDetails, error)
}

type storeCardRequest struct {
	HolderName     string `json:"holder_name"`
	Number         string `json:"number"`
	ExpirationDate string `json:"expiry_date"`
	CVV            string `json:"cvv"`
}

type storeCardResponse struct {
	CardID int64 `json:"creditcard_id"`
}

type cardResponse struct {
	Number         string `json:"card_number"`
	CVV            string `json:"cvv"`
	HolderName     string `json:"card_holder"`
	ExpirationDate string `json:"expiry_date"`
}

// HandleStoreCard serves POST /creditcard.
func HandleStoreCard(svc CardVault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req storeCardRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id, err := svc.StoreCard(r.Context(), app.StoreCardInput{
			Number:         req.Number,
			HolderName:     req.HolderName,
			ExpirationDate: req.ExpirationDate,
			CVV:            req.CVV,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, storeCardResponse{CardID: id})
	}
}

// HandleRetrieveCard serves GET /creditcard/{id}.
func HandleRetrieveCard(svc CardVault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		card, err := svc.RetrieveCard(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, cardResponse{
			Number:         card.Number,
			CVV:            card.CVV,
			HolderName:     card.HolderName,
			ExpirationDate: card.ExpirationDate,
		})
	}
}
