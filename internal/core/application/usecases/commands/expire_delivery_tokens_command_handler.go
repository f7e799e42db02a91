package commands

import (
	"context"
	"errors"

	"orderflow/internal/pkg/errs"
)

// ExpireDeliveryTokensCommandHandler clears delivery tokens whose expiry has passed
// and returns those orders to verification pending. Order status is never touched.
// Orders changed concurrently are skipped and picked up by a later run.
type ExpireDeliveryTokensCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

func NewExpireDeliveryTokensCommandHandler(uowFactory OrderUoWFactory, clock Clock) ExpireDeliveryTokensCommandHandler {
	return ExpireDeliveryTokensCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns the number of orders whose token was cleared.
func (h *ExpireDeliveryTokensCommandHandler) Handle(ctx context.Context, cmd ExpireDeliveryTokensCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.now()
	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetAllWithExpiredTokens(ctx, now, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, o := range orders {
		if !o.ExpireDeliveryToken(now) {
			continue
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			if errors.Is(err, errs.ErrConcurrentModification) {
				continue
			}
			return 0, err
		}
		expired++
	}

	if expired == 0 {
		return 0, nil
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return expired, nil
}
