package http

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/cimillas/ticket-sales/internal/app"
	"github.com/cimillas/ticket-sales/internal/domain"
)

func TestHandleSellTicket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		result         app.SaleResult
		serviceErr     error
		expectedStatus int
		expectedSubstr string
		retryAfter     bool
	}{
		{
			name:           "sold",
			target:         "/sellticket/12345?user=User1",
			result:         app.SaleResult{Outcome: domain.SaleSold, Attempts: 1},
			expectedStatus: http.StatusOK,
			expectedSubstr: `{"detail":"ticket sold","sold":true}`,
		},
		{
			name:           "already sold",
			target:         "/sellticket/12345?user=User2",
			result:         app.SaleResult{Outcome: domain.SaleAlreadySold, Attempts: 1},
			expectedStatus: http.StatusOK,
			expectedSubstr: `{"detail":"ticket already sold","sold":false}`,
		},
		{
			name:           "not found",
			target:         "/sellticket/9?user=User1",
			result:         app.SaleResult{Outcome: domain.SaleNotFound, Attempts: 1},
			expectedStatus: http.StatusNotFound,
			expectedSubstr: codeTicketNotFound,
		},
		{
			name:           "missing buyer",
			target:         "/sellticket/12345",
			serviceErr:     domain.ErrBuyerRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeBuyerRequired,
		},
		{
			name:           "lock timeout",
			target:         "/sellticket/12345?user=User1",
			serviceErr:     fmt.Errorf("%w: lock wait", domain.ErrSaleTimeout),
			expectedStatus: http.StatusServiceUnavailable,
			expectedSubstr: codeSaleTimeout,
			retryAfter:     true,
		},
		{
			name:           "bad id",
			target:         "/sellticket/abc?user=User1",
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: codeInvalidID,
		},
		{
			name:           "zero id",
			target:         "/sellticket/0?user=User1",
			result:         app.SaleResult{Outcome: domain.SaleNotFound},
			expectedStatus: http.StatusNotFound,
			expectedSubstr: codeTicketNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got app.SellTicketInput
			stub := &stubServices{sell: func(in app.SellTicketInput) (app.SaleResult, error) {
				got = in
				return tc.result, tc.serviceErr
			}}

			rec := serve(stub, http.MethodPut, tc.target, "")
			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %q", tc.expectedSubstr, rec.Body.String())
			}
			if tc.retryAfter && rec.Header().Get("Retry-After") == "" {
				t.Fatalf("expected Retry-After header")
			}
			if tc.name == "sold" && (got.TicketID != 12345 || got.Buyer != "User1") {
				t.Fatalf("unexpected service input %+v", got)
			}
		})
	}
}
