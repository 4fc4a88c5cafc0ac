package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lumina-Wellness/service-billing/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// WalletCreditor credits a wallet from a consumed payment event.
type WalletCreditor interface {
	AddFundsFromPayment(ctx context.Context, event PaymentSucceededEvent) error
}

// PaymentEventConsumer listens to external payment events and credits wallets.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	creditor WalletCreditor
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a consumer for the payment events topic.
func NewPaymentEventConsumer(brokers []string, groupID string, creditor WalletCreditor, logger *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger),
		creditor: creditor,
		logger:   logger,
	}
}

// Start begins consuming. It blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming messages to the appropriate handler.
func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	switch {
	case strings.EqualFold(ce.Type, PaymentSucceeded):
		var event PaymentSucceededEvent
		if err := ce.ParseData(&event); err != nil {
			return fmt.Errorf("failed to parse PaymentSucceededEvent data: %w", err)
		}
		c.logger.Info("received payment succeeded event",
			zap.String("payment_id", event.PaymentID),
			zap.String("user_id", event.UserID),
		)
		return c.creditor.AddFundsFromPayment(ctx, event)

	default:
		c.logger.Debug("ignoring unhandled payment event type", zap.String("type", ce.Type))
		return nil
	}
}

// Close closes the underlying consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}
