package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/ticket-sales/internal/domain"
)

const (
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeTicketNotFound      = "ticket_not_found"
	codeInvalidPrice        = "invalid_price"
	codeBuyerRequired       = "buyer_required"
	codeSaleTimeout         = "sale_timeout"
	codeEventNameRequired   = "event_name_required"
	codeInvalidCapacity     = "invalid_capacity"
	codeSponsorNameRequired = "sponsor_name_required"
	codeSponsorExists       = "sponsor_exists"
	codeInvalidAmount       = "invalid_amount"
	codeContributionFailed  = "contribution_failed"
	codeCardFieldsRequired  = "card_fields_required"
	codeCardNotFound        = "creditcard_not_found"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

const (
	saleRetryAfterSeconds    = "1"
	internalErrorDescription = "internal error"
)

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Detail: msg,
		Code:   code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"detail":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, detailResponse{Detail: msg})
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrTicketNotFound, http.StatusNotFound, codeTicketNotFound},
	{domain.ErrCardNotFound, http.StatusNotFound, codeCardNotFound},
	{domain.ErrInvalidPrice, http.StatusBadRequest, codeInvalidPrice},
	{domain.ErrBuyerRequired, http.StatusBadRequest, codeBuyerRequired},
	{domain.ErrEventNameRequired, http.StatusBadRequest, codeEventNameRequired},
	{domain.ErrInvalidCapacity, http.StatusBadRequest, codeInvalidCapacity},
	{domain.ErrSponsorNameRequired, http.StatusBadRequest, codeSponsorNameRequired},
	{domain.ErrSponsorExists, http.StatusBadRequest, codeSponsorExists},
	{domain.ErrInvalidAmount, http.StatusBadRequest, codeInvalidAmount},
	{domain.ErrContributionFailed, http.StatusBadRequest, codeContributionFailed},
	{domain.ErrCardFieldsRequired, http.StatusBadRequest, codeCardFieldsRequired},
	{domain.ErrSaleTimeout, http.StatusServiceUnavailable, codeSaleTimeout},
}

// writeServiceError maps a domain error to its response. Unknown errors are
// logged with the request id and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorStatuses {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", saleRetryAfterSeconds)
		}
		writeError(w, m.status, m.code, m.err.Error())
		return
	}

	loggerFrom(r.Context()).ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	writeError(w, http.StatusInternalServerError, codeInternalError, internalErrorDescription)
}
