package app

import (
	"context"
	"fmt"

	"github.com/cimillas/ticket-sales/internal/clock"
	"github.com/cimillas/ticket-sales/internal/domain"
)

type CardRepository interface {
	CreateCard(ctx context.Context, card domain.CreditCard) (int64, error)
	GetCard(ctx context.Context, id int64) (domain.CreditCard, error)
}

// Cipher seals card fields at rest. vault.Keyring is the production one.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type CardService struct {
	repo   CardRepository
	cipher Cipher
	clock  clock.Clock
}

func NewCardService(repo CardRepository, cipher Cipher, clk clock.Clock) *CardService {
	return &CardService{
		repo:   repo,
		cipher: cipher,
		clock:  clk,
	}
}

type StoreCardInput struct {
	Number         string
	HolderName     string
	ExpirationDate string
	CVV            string
}

// CardDetails is a decrypted card as returned to the caller.
type CardDetails struct {
	Number         string
	CVV            string
	HolderName     string
	ExpirationDate string
}

func (s *CardService) StoreCard(ctx context.Context, in StoreCardInput) (int64, error) {
	if in.Number == "" || in.CVV == "" {
		return 0, domain.ErrCardFieldsRequired
	}

	number, err := s.cipher.Encrypt(in.Number)
	if err != nil {
		return 0, fmt.Errorf("encrypt card number: %w", err)
	}
	cvv, err := s.cipher.Encrypt(in.CVV)
	if err != nil {
		return 0, fmt.Errorf("encrypt cvv: %w", err)
	}

	return s.repo.CreateCard(ctx, domain.CreditCard{
		Number:         number,
		HolderName:     in.HolderName,
		ExpirationDate: in.ExpirationDate,
		CVV:            cvv,
		CreatedAt:      s.clock.Now(),
	})
}

func (s *CardService) RetrieveCard(ctx context.Context, id int64) (CardDetails, error) {
	if id <= 0 {
		return CardDetails{}, domain.ErrCardNotFound
	}
	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return CardDetails{}, err
	}

	number, err := s.cipher.Decrypt(card.Number)
	if err != nil {
		return CardDetails{}, fmt.Errorf("%w: number: %w", domain.ErrCardUndecryptable, err)
	}
	cvv, err := s.cipher.Decrypt(card.CVV)
	if err != nil {
		return CardDetails{}, fmt.Errorf("%w: cvv: %w", domain.ErrCardUndecryptable, err)
	}

	return CardDetails{
		Number:         number,
		CVV:            cvv,
		HolderName:     card.HolderName,
		ExpirationDate: card.ExpirationDate,
	}, nil
}
