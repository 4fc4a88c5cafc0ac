// Package kafka wraps segmentio/kafka-go with a CloudEvents-style envelope.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CloudEvent is the JSON envelope every published message is wrapped in.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps a payload in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          source,
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// ParseCloudEvent decodes an envelope from raw bytes.
func ParseCloudEvent(b []byte) (CloudEvent, error) {
	var ce CloudEvent
	if err := json.Unmarshal(b, &ce); err != nil {
		return CloudEvent{}, fmt.Errorf("failed to parse cloud event: %w", err)
	}
	return ce, nil
}

// ParseData decodes the event payload into v.
func (ce CloudEvent) ParseData(v interface{}) error {
	return json.Unmarshal(ce.Data, v)
}

// Producer publishes CloudEvents to Kafka topics.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers. The topic is set per
// message.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

// PublishEvent writes a CloudEvent to the given topic, keyed by event ID.
func (p *Producer) PublishEvent(ctx context.Context, topic string, ce CloudEvent) error {
	value, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(ce.ID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("type", ce.Type),
			zap.Error(err),
		)
		return err
	}
	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", ce.Type),
	)
	return nil
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads messages from one topic as part of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger *zap.Logger
}

// NewConsumer creates a Consumer for the given topic and group.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		logger: logger,
	}
}

// Consume reads messages until the context is cancelled, invoking handler for
// each. Handler errors are logged; consumption continues.
func (c *Consumer) Consume(ctx context.Context, handler func(ctx context.Context, msg kafkago.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if err := handler(ctx, msg); err != nil {
			c.logger.Error("message handler failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
