package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// AdvanceOrderStatusCommandHandler moves an order exactly one step along
// pending -> confirmed -> preparing -> out_for_delivery. A target that is not
// the next step is a StateConflictError, so repeated or skipped requests fail.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

func NewAdvanceOrderStatusCommandHandler(uowFactory OrderUoWFactory, clock Clock) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderStatusCommand) (*order.Order, error) {
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

	next, err := o.Status().Advance()
	if err != nil {
		return nil, err
	}
	if next != cmd.Target() {
		return nil, errs.NewStateConflictError("advance to "+cmd.Target().String(), o.Status().String())
	}

	if err = o.Advance(h.clock.now()); err != nil {
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
