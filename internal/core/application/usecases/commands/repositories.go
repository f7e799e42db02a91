// Package commands contains the operations that change orders and origin orders.
// Every handler validates its command, opens a unit of work, applies domain rules
// to the loaded aggregate and commits. Domain events are published by the unit
// of work after commit.
package commands

import (
	"context"
	"time"

	"orderflow/internal/core/ports"
)

// Unit of Work interfaces narrowed to the repositories each handler touches.
type (
	// TxManager handles the database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OriginOrderRepoFactory provides the origin order repository bound to the transaction.
	OriginOrderRepoFactory interface {
		OriginOrderRepository() ports.OriginOrderRepository
	}

	// CartRepoFactory provides the cart repository bound to the transaction.
	CartRepoFactory interface {
		CartRepository() ports.CartRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CheckoutUoW writes the new order and clears the owner's cart atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.OrderRepository().Add(ctx, o)
	//   err = uow.CartRepository().Clear(ctx, o.OwnerID())
	//
	//   err = uow.Commit(ctx)
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		CartRepoFactory
	}

	// CheckoutUoWFactory creates new checkout unit of work instances.
	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// OriginUoW manages transactions for origin order operations.
	OriginUoW interface {
		TxManager
		OriginOrderRepoFactory
	}

	// OriginUoWFactory creates new origin unit of work instances.
	OriginUoWFactory interface {
		Create() OriginUoW
	}
)

// Clock returns the current time. Handlers take one so tests can pin time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
