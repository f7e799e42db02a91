package ports

import (
	"context"

	"orderflow/internal/core/domain/model/event"
)

// EventPublisher delivers committed domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.OrderChanged) error
}
