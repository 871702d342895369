// Package events publishes spot lifecycle events to Kafka for downstream
// consumers. Publishing is fire-and-forget: callers log failures and move
// on, nothing is retried here.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of kafka.Writer the publisher needs. It allows
// for easy mocking in unit tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON-encoded event envelopes to a single topic, keyed so
// that events for the same spot stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a publisher against the given broker and topic.
func NewPublisher(broker, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publish writes one event. The key groups related events onto the same
// partition.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	value, err := json.Marshal(envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("events: encoding %s: %w", eventType, err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		return fmt.Errorf("events: writing %s: %w", eventType, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
