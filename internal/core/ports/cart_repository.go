package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
)

// CartRepository exposes the one cart operation checkout needs: clearing the
// owner's cart in the same transaction that creates the order.
type CartRepository interface {
	Clear(ctx context.Context, ownerID kernel.OwnerID) error
}
