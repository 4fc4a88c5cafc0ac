package wallet

import (
	"strings"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	"github.com/google/uuid"
)

// DefaultCurrency is applied to lazily created wallets.
const DefaultCurrency = "USD"

// Wallet is the aggregate root for a user's monetary balance. The only
// supported mutation is an additive credit, so balances are monotonically
// non-decreasing under normal use.
type Wallet struct {
	userID    string
	balance   float64
	currency  string
	createdAt time.Time
	updatedAt time.Time
}

// NewWallet creates a fresh zero-balance wallet for a user.
func NewWallet(userID, currency string) (*Wallet, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.NewInvalidArgumentError("user id is required")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	now := time.Now().UTC()
	return &Wallet{
		userID:    userID,
		balance:   0,
		currency:  currency,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Wallet from persistence.
func Reconstruct(userID string, balance float64, currency string, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{userID: userID, balance: balance, currency: currency, createdAt: createdAt, updatedAt: updatedAt}
}

// Credit adds a positive amount to the balance. Zero and negative amounts
// are rejected; deduplication of repeated credits is the caller's job.
func (w *Wallet) Credit(amount float64) error {
	if amount <= 0 {
		return domain.NewInvalidArgumentError("amount must be positive")
	}
	w.balance += amount
	w.updatedAt = time.Now().UTC()
	return nil
}

// Getters.
func (w *Wallet) UserID() string       { return w.userID }
func (w *Wallet) Balance() float64     { return w.balance }
func (w *Wallet) Currency() string     { return w.currency }
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time { return w.updatedAt }

// Transaction is one append-only history entry recording a credit, so the
// balance keeps its provenance.
type Transaction struct {
	ID          uuid.UUID
	UserID      string
	Amount      float64
	Currency    string
	Description string
	CreatedAt   time.Time
}

// NewTransaction creates a history entry for a credit.
func NewTransaction(userID string, amount float64, currency, description string) Transaction {
	return Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
