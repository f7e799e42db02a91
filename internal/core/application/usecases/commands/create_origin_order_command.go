package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOriginOrderCommandIsNotConstructed = errors.New(
	"CreateOriginOrderCommand must be created via NewCreateOriginOrderCommand constructor",
)

// CreateOriginOrderCommand registers an order fulfilled by an external origin and
// tracked through milestones.
type CreateOriginOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	ownerID kernel.OwnerID
	items   []order.Item
	pricing order.Pricing
	address order.Address

	guard guard.ConstructorGuard
}

func NewCreateOriginOrderCommand(
	orderID kernel.UUID,
	ownerID kernel.OwnerID,
	items []order.Item,
	pricing order.Pricing,
	address order.Address,
) (CreateOriginOrderCommand, error) {
	var itemsErr error
	if len(items) == 0 {
		itemsErr = order.ErrItemsAreRequired
	}

	if err := errors.Join(orderID.Validate(), ownerID.Validate(), itemsErr, address.Validate()); err != nil {
		return CreateOriginOrderCommand{}, err
	}

	copied := make([]order.Item, len(items))
	copy(copied, items)
	return CreateOriginOrderCommand{
		orderID: orderID,
		ownerID: ownerID,
		items:   copied,
		pricing: pricing,
		address: address,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOriginOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOriginOrderCommandIsNotConstructed)
}

func (c CreateOriginOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c CreateOriginOrderCommand) OwnerID() kernel.OwnerID { return c.ownerID }
func (c CreateOriginOrderCommand) Pricing() order.Pricing  { return c.pricing }
func (c CreateOriginOrderCommand) Address() order.Address  { return c.address }

func (c CreateOriginOrderCommand) Items() []order.Item {
	out := make([]order.Item, len(c.items))
	copy(out, c.items)
	return out
}
