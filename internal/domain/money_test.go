package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price string
		valid bool
	}{
		{"0", true},
		{"100", true},
		{"99.5", true},
		{"1.50", true},
		{"1.500", true},
		{"9999999999.99", true},
		{"10000000000", false},
		{"1e20", false},
		{"0.005", false},
		{"-1", false},
	}

	for _, tc := range tests {
		err := ValidatePrice(decimal.RequireFromString(tc.price))
		if tc.valid && err != nil {
			t.Fatalf("price %s: expected valid, got %v", tc.price, err)
		}
		if !tc.valid && !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("price %s: expected ErrInvalidPrice, got %v", tc.price, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.RequireFromString("999999999999.99")); err != nil {
		t.Fatalf("expected largest amount to be valid, got %v", err)
	}
	for _, raw := range []string{"1000000000000", "0.001", "-0.01"} {
		if err := ValidateAmount(decimal.RequireFromString(raw)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %s: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}
