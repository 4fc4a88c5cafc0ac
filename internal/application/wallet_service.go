package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	walletDomain "github.com/Lumina-Wellness/service-billing/internal/domain/wallet"
	"github.com/Lumina-Wellness/service-billing/internal/events"
	"github.com/Lumina-Wellness/service-billing/internal/kafka"
	"github.com/Lumina-Wellness/service-billing/internal/money"
	"go.uber.org/zap"
)

// EventPublisher publishes CloudEvents. Satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// BalanceDTO is the API response for a wallet balance.
type BalanceDTO struct {
	UserID    string  `json:"user_id"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

// TransactionDTO is the API response for one history entry.
type TransactionDTO struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// WalletStatsDTO holds wallet statistics for the admin dashboard.
type WalletStatsDTO struct {
	TotalBalance float64 `json:"total_balance"`
	WalletCount  int64   `json:"wallet_count"`
}

// WalletService handles balance use cases.
type WalletService struct {
	repo            walletDomain.Repository
	publisher       EventPublisher
	defaultCurrency string
	logger          *zap.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(repo walletDomain.Repository, publisher EventPublisher, defaultCurrency string, logger *zap.Logger) *WalletService {
	if defaultCurrency == "" {
		defaultCurrency = walletDomain.DefaultCurrency
	}
	return &WalletService{repo: repo, publisher: publisher, defaultCurrency: defaultCurrency, logger: logger}
}

// GetBalance returns the user's wallet, lazily creating a zero-balance record
// on first read. Reads never fail outward: on a store error the caller gets a
// fresh zero-balance record and the error is only logged.
func (s *WalletService) GetBalance(ctx context.Context, userID string) *BalanceDTO {
	w, err := s.repo.GetOrCreate(ctx, userID, s.defaultCurrency)
	if err != nil {
		s.logger.Warn("wallet read failed, degrading to zero balance",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return &BalanceDTO{
			UserID:    userID,
			Balance:   0,
			Currency:  s.defaultCurrency,
			Formatted: money.Format(0, s.defaultCurrency),
		}
	}
	return toBalanceDTO(w)
}

// AddFunds credits the wallet and broadcasts the balance change. The amount
// must be positive. Credits are deliberately not idempotent; deduplication of
// repeated payments belongs to the caller.
func (s *WalletService) AddFunds(ctx context.Context, userID string, amount float64, currency, description string) (*walletDomain.Wallet, error) {
	if userID == "" {
		return nil, domain.NewInvalidArgumentError("user id is required")
	}
	if amount <= 0 {
		return nil, domain.NewInvalidArgumentError("amount must be positive")
	}
	if currency == "" {
		currency = s.defaultCurrency
	}

	w, err := s.repo.Credit(ctx, userID, amount, currency, description)
	if err != nil {
		s.logger.Error("wallet credit failed",
			zap.String("user_id", userID),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to add funds: %w", err)
	}

	s.logger.Info("funds added",
		zap.String("user_id", userID),
		zap.Float64("amount", amount),
		zap.Float64("balance", w.Balance()),
	)

	s.publishBalanceChanged(ctx, w, amount, description)
	return w, nil
}

// AddFundsFromPayment credits the wallet for a consumed payment event.
// Upstream publishes each payment at most once; the credit is applied as-is.
func (s *WalletService) AddFundsFromPayment(ctx context.Context, event events.PaymentSucceededEvent) error {
	description := fmt.Sprintf("Payment %s", event.PaymentID)
	_, err := s.AddFunds(ctx, event.UserID, event.Amount, event.Currency, description)
	return err
}

// GetTransactions returns the user's credit history, newest first.
func (s *WalletService) GetTransactions(ctx context.Context, userID string, limit int) ([]TransactionDTO, error) {
	txns, err := s.repo.Transactions(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]TransactionDTO, len(txns))
	for i, t := range txns {
		dtos[i] = TransactionDTO{
			ID:          t.ID.String(),
			Amount:      t.Amount,
			Currency:    t.Currency,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		}
	}
	return dtos, nil
}

// GetStats returns aggregate wallet statistics (admin).
func (s *WalletService) GetStats(ctx context.Context) (*WalletStatsDTO, error) {
	total, count, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &WalletStatsDTO{TotalBalance: total, WalletCount: count}, nil
}

// publishBalanceChanged emits the funds-added payload event followed by the
// no-payload balance-changed broadcast. Failures are logged, never surfaced:
// the credit already committed.
func (s *WalletService) publishBalanceChanged(ctx context.Context, w *walletDomain.Wallet, amount float64, description string) {
	now := time.Now().UTC()

	s.publish(ctx, events.WalletFundsAdded, events.FundsAddedEvent{
		UserID:      w.UserID(),
		Amount:      amount,
		Balance:     w.Balance(),
		Currency:    w.Currency(),
		Description: description,
		OccurredAt:  now,
	})
	s.publish(ctx, events.WalletBalanceChanged, events.BalanceChangedEvent{UserID: w.UserID(), OccurredAt: now})
}

// publish wraps the payload in a CloudEvent and writes it to the billing
// topic, logging both encode and publish failures.
func (s *WalletService) publish(ctx context.Context, eventType string, payload interface{}) {
	ce, err := kafka.NewCloudEvent(events.EventSource, eventType, payload)
	if err != nil {
		s.logger.Warn("failed to encode event",
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.publisher.PublishEvent(ctx, events.TopicBillingEvents, ce); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

func toBalanceDTO(w *walletDomain.Wallet) *BalanceDTO {
	return &BalanceDTO{
		UserID:    w.UserID(),
		Balance:   w.Balance(),
		Currency:  w.Currency(),
		Formatted: money.Format(w.Balance(), w.Currency()),
	}
}
