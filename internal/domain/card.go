package domain

import "time"

// CreditCard is the stored form of a card: Number and CVV hold vault ciphertext.
type CreditCard struct {
	ID             int64
	Number         string
	HolderName     string
	ExpirationDate string
	CVV            string
	CreatedAt      time.Time
}
