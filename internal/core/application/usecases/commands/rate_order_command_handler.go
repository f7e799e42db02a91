package commands

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// RateOrderCommandHandler stores a rating on a delivered order owned by the requester.
type RateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

func NewRateOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) (*order.Order, error) {
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
	if err = o.Rate(cmd.Rating(), cmd.Review(), h.clock.now()); err != nil {
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
