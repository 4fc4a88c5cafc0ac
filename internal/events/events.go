// Package events defines the event contracts the billing service publishes
// and consumes, plus the consumer for external payment events.
package events

import "time"

// Topics.
const (
	TopicBillingEvents = "billing.events"
	TopicPaymentEvents = "payment.events"
)

// Event types.
const (
	WalletFundsAdded     = "billing.wallet.funds_added"
	WalletBalanceChanged = "billing.wallet.balance_changed"
	PaymentSucceeded     = "payment.succeeded"
)

// EventSource identifies this service in published envelopes.
const EventSource = "service-billing"

// FundsAddedEvent is published after a successful wallet credit.
type FundsAddedEvent struct {
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Balance     float64   `json:"balance"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BalanceChangedEvent is the broadcast signal consumers re-read balances on.
// It deliberately carries no balance data.
type BalanceChangedEvent struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentSucceededEvent arrives from external purchase flows (app-store
// receipts, checkout service) and triggers a wallet credit. Upstream is
// responsible for publishing each payment at most once; the credit itself is
// not idempotent.
type PaymentSucceededEvent struct {
	PaymentID  string    `json:"payment_id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}
