package domain

import "github.com/shopspring/decimal"

// Prices and amounts are stored as NUMERIC with two decimal places.
const moneyScale = 2

var (
	priceLimit  = decimal.New(1, 10) // tickets.price NUMERIC(12, 2)
	amountLimit = decimal.New(1, 12) // sponsorships.amount NUMERIC(14, 2)
)

// ValidatePrice accepts non-negative prices below 10^10 with at most two
// decimal places.
func ValidatePrice(p decimal.Decimal) error {
	if !fitsMoney(p, priceLimit) {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateAmount accepts non-negative contribution amounts below 10^12 with
// at most two decimal places.
func ValidateAmount(a decimal.Decimal) error {
	if !fitsMoney(a, amountLimit) {
		return ErrInvalidAmount
	}
	return nil
}

func fitsMoney(d, limit decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(limit) && d.Equal(d.Truncate(moneyScale))
}
