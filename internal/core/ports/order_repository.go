// Package ports defines the contracts between the order domain and infrastructure:
// repositories bound to a unit of work, the event publisher, the verification
// attempt limiter and verification metrics.
package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Every write is conditional on the version the aggregate was read with; a write
// that loses a race returns errs.ConcurrentModificationError and changes nothing.
type OrderRepository interface {
	// Add persists a new order aggregate. The order must not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order, guarded by its version.
	Update(ctx context.Context, aggregate *order.Order) error

	// CompleteDelivery persists a redeemed order. The write only succeeds while the
	// stored token still equals expectedToken and the version is unchanged, so at
	// most one concurrent redemption of the same token can commit.
	CompleteDelivery(ctx context.Context, aggregate *order.Order, expectedToken string) error

	// Get retrieves an order with its items.
	// Returns errs.ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByOwner returns the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID kernel.OwnerID) ([]*order.Order, error)

	// GetAllWithExpiredTokens returns up to limit orders whose stored token expired before now.
	GetAllWithExpiredTokens(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)
}
