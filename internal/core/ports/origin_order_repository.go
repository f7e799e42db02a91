package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/origin"
)

// OriginOrderRepository defines the persistence contract for origin orders.
// It follows the same version-guarded write rules as OrderRepository.
type OriginOrderRepository interface {
	Add(ctx context.Context, aggregate *origin.OriginOrder) error
	Update(ctx context.Context, aggregate *origin.OriginOrder) error
	CompleteDelivery(ctx context.Context, aggregate *origin.OriginOrder, expectedToken string) error
	Get(ctx context.Context, id kernel.UUID) (*origin.OriginOrder, error)
	ListByOwner(ctx context.Context, ownerID kernel.OwnerID) ([]*origin.OriginOrder, error)
}
