package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order owned by the requester.
//
// Business rules:
//   - only the owner may cancel
//   - pending and confirmed orders can be cancelled
//   - cancelling an already cancelled order returns it unchanged and writes nothing
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.Authorize(cmd.RequesterID()); err != nil {
		return nil, err
	}
	if o.Status() == order.Cancelled {
		return o, nil
	}

	if err = o.Cancel(h.clock.now()); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
