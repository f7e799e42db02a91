// Package kafka publishes committed OrderChanged events to a Kafka topic.
// Messages are keyed by aggregate id so all changes of one order land on the same
// partition in commit order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/event"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderChangedProducer implements ports.EventPublisher on top of a kafka-go writer.
type OrderChangedProducer struct {
	writer messageWriter
}

// NewOrderChangedProducer creates a producer writing to topic on the given brokers.
func NewOrderChangedProducer(brokers []string, topic string) *OrderChangedProducer {
	return newOrderChangedProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	})
}

func newOrderChangedProducer(writer messageWriter) *OrderChangedProducer {
	return &OrderChangedProducer{writer: writer}
}

// Publish writes all events in one batch.
func (p *OrderChangedProducer) Publish(ctx context.Context, events ...event.OrderChanged) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal order changed event: %w", err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(e.AggregateID),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "kind", Value: []byte(e.Kind)},
				{Key: "aggregate_type", Value: []byte(e.AggregateType)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to write %d order changed events: %w", len(messages), err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *OrderChangedProducer) Close() error {
	return p.writer.Close()
}
