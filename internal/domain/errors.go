package domain

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrInvalidPrice        = errors.New("price must be between 0 and 9999999999.99 with at most 2 decimals")
	ErrBuyerRequired       = errors.New("buyer required")
	ErrSaleConflict        = errors.New("concurrent sale conflict")
	ErrSaleTimeout         = errors.New("ticket is locked by another sale, retry later")
	ErrEventNameRequired   = errors.New("event name required")
	ErrInvalidCapacity     = errors.New("ticket capacity must be non-negative")
	ErrSponsorNameRequired = errors.New("sponsor name required")
	ErrSponsorExists       = errors.New("sponsor already exists")
	ErrInvalidAmount       = errors.New("amount must be between 0 and 999999999999.99 with at most 2 decimals")
	ErrContributionFailed  = errors.New("event or sponsor not found")
	ErrCardFieldsRequired  = errors.New("card number and cvv required")
	ErrCardNotFound        = errors.New("credit card not found")
	ErrCardUndecryptable   = errors.New("credit card data cannot be decrypted")
)
