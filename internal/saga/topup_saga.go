package saga

import (
	"context"
	"fmt"

	"github.com/Lumina-Wellness/service-billing/internal/adapter"
	"github.com/Lumina-Wellness/service-billing/internal/domain/wallet"
	"go.uber.org/zap"
)

// Step is a single saga step with an execute action and an optional
// compensating action.
type Step struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Run executes the steps in order. On failure, already executed steps are
// compensated in reverse order before the error is returned.
func Run(ctx context.Context, name string, steps []Step, logger *zap.Logger) error {
	done := make([]Step, 0, len(steps))
	for _, step := range steps {
		logger.Info("executing saga step", zap.String("saga", name), zap.String("step", step.Name))
		if err := step.Execute(ctx); err != nil {
			logger.Error("saga step failed, compensating",
				zap.String("saga", name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			for i := len(done) - 1; i >= 0; i-- {
				if done[i].Compensate == nil {
					continue
				}
				if compErr := done[i].Compensate(ctx); compErr != nil {
					logger.Error("compensation failed",
						zap.String("saga", name),
						zap.String("step", done[i].Name),
						zap.Error(compErr),
					)
				}
			}
			return fmt.Errorf("saga '%s' failed at step '%s': %w", name, step.Name, err)
		}
		done = append(done, step)
	}
	return nil
}

// WalletCreditor credits a wallet and broadcasts the balance change.
// Implemented by the wallet application service.
type WalletCreditor interface {
	AddFunds(ctx context.Context, userID string, amount float64, currency, description string) (*wallet.Wallet, error)
}

// TopupSagaService orchestrates the wallet top-up workflow: charge the
// payment provider, then credit the wallet. A failed credit refunds the
// charge.
type TopupSagaService struct {
	creditor WalletCreditor
	provider adapter.PaymentProvider
	logger   *zap.Logger
}

// NewTopupSagaService creates a new TopupSagaService.
func NewTopupSagaService(creditor WalletCreditor, provider adapter.PaymentProvider, logger *zap.Logger) *TopupSagaService {
	return &TopupSagaService{creditor: creditor, provider: provider, logger: logger}
}

// Topup runs the top-up saga and returns the updated wallet.
func (s *TopupSagaService) Topup(ctx context.Context, userID string, amount float64, currency, description string) (*wallet.Wallet, error) {
	var (
		chargeID string
		updated  *wallet.Wallet
	)

	steps := []Step{
		{
			Name: "charge_provider",
			Execute: func(ctx context.Context) error {
				var err error
				chargeID, err = s.provider.Charge(ctx, userID, amount, currency)
				return err
			},
			Compensate: func(ctx context.Context) error {
				if chargeID != "" {
					return s.provider.Refund(ctx, chargeID, amount)
				}
				return nil
			},
		},
		{
			Name: "credit_wallet",
			Execute: func(ctx context.Context) error {
				var err error
				updated, err = s.creditor.AddFunds(ctx, userID, amount, currency, description)
				return err
			},
			// A persisted credit is never rolled back; compensation on the
			// charge step covers failures before this point.
			Compensate: nil,
		},
	}

	if err := Run(ctx, "wallet_topup", steps, s.logger); err != nil {
		return nil, err
	}
	return updated, nil
}
