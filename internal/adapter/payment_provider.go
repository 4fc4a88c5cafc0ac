package adapter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentProvider is the Anti-Corruption Layer interface for the external
// payment processor used by wallet top-ups.
type PaymentProvider interface {
	// Charge collects amount from the user's payment method and returns the
	// provider's charge ID.
	Charge(ctx context.Context, userID string, amount float64, currency string) (chargeID string, err error)

	// Refund reverses a previous charge.
	Refund(ctx context.Context, chargeID string, amount float64) error
}

// MockPaymentProvider is a development/testing implementation that simulates
// the processor without a real account.
type MockPaymentProvider struct {
	logger *zap.Logger
}

// NewMockPaymentProvider creates a mock provider for development.
func NewMockPaymentProvider(logger *zap.Logger) *MockPaymentProvider {
	return &MockPaymentProvider{logger: logger}
}

// Charge simulates collecting a payment.
func (m *MockPaymentProvider) Charge(ctx context.Context, userID string, amount float64, currency string) (string, error) {
	chargeID := fmt.Sprintf("ch_mock_%s", uuid.New().String()[:8])
	m.logger.Info("[MOCK PROVIDER] charge created",
		zap.String("charge_id", chargeID),
		zap.String("user_id", userID),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)
	return chargeID, nil
}

// Refund simulates reversing a charge.
func (m *MockPaymentProvider) Refund(ctx context.Context, chargeID string, amount float64) error {
	m.logger.Info("[MOCK PROVIDER] refund created",
		zap.String("charge_id", chargeID),
		zap.Float64("amount", amount),
	)
	return nil
}
