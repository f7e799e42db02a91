package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestOrderChangedProducer_Publish(t *testing.T) {
	occurredAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	milestone := 3
	events := []event.OrderChanged{
		{
			AggregateID:        "order-1",
			AggregateType:      event.AggregateOrder,
			OwnerID:            "user-1",
			Kind:               event.KindDeliveryVerified,
			Status:             "delivered",
			VerificationStatus: "verified",
			OccurredAt:         occurredAt,
		},
		{
			AggregateID:   "origin-1",
			AggregateType: event.AggregateOriginOrder,
			Kind:          event.KindMilestoneReached,
			Milestone:     &milestone,
			OccurredAt:    occurredAt,
		},
	}

	writer := &recordingWriter{}
	producer := newOrderChangedProducer(writer)

	require.NoError(t, producer.Publish(t.Context(), events...))

	require.Len(t, writer.messages, 2)
	first := writer.messages[0]
	assert.Equal(t, []byte("order-1"), first.Key)
	assert.Equal(t, occurredAt, first.Time)
	assert.Contains(t, first.Headers, kafka.Header{Key: "kind", Value: []byte("delivery_verified")})

	var decoded event.OrderChanged
	require.NoError(t, json.Unmarshal(first.Value, &decoded))
	assert.Equal(t, "delivered", decoded.Status)
	assert.Nil(t, decoded.Milestone)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[1].Value, &raw))
	assert.InDelta(t, 3, raw["milestone"], 0)
	assert.NotContains(t, string(first.Value), "token")
}

func TestOrderChangedProducer_PublishNothing(t *testing.T) {
	writer := &recordingWriter{err: errors.New("must not be called")}

	require.NoError(t, newOrderChangedProducer(writer).Publish(t.Context()))
}

func TestOrderChangedProducer_WriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker unavailable")}

	err := newOrderChangedProducer(writer).Publish(t.Context(), event.OrderChanged{AggregateID: "order-1"})

	require.ErrorContains(t, err, "broker unavailable")
}

func TestOrderChangedProducer_Close(t *testing.T) {
	writer := &recordingWriter{}

	require.NoError(t, newOrderChangedProducer(writer).Close())
	assert.True(t, writer.closed)
}
