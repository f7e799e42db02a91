package commands

import (
	"context"

	"orderflow/internal/core/domain/model/origin"
)

// CreateOriginOrderCommandHandler creates an origin order at the first milestone.
type CreateOriginOrderCommandHandler struct {
	uowFactory OriginUoWFactory
	clock      Clock
}

func NewCreateOriginOrderCommandHandler(uowFactory OriginUoWFactory, clock Clock) CreateOriginOrderCommandHandler {
	return CreateOriginOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *CreateOriginOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CreateOriginOrderCommand,
) (*origin.OriginOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := origin.NewOriginOrder(cmd.OrderID(), cmd.OwnerID(), cmd.Items(), cmd.Pricing(), cmd.Address(), h.clock.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OriginOrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
