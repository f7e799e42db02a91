package commands

import (
	"context"

	"orderflow/internal/core/domain/model/origin"
)

// AdvanceMilestoneCommandHandler moves an origin order one milestone forward.
// At the last milestone the call succeeds without writing anything.
type AdvanceMilestoneCommandHandler struct {
	uowFactory OriginUoWFactory
	clock      Clock
}

func NewAdvanceMilestoneCommandHandler(uowFactory OriginUoWFactory, clock Clock) AdvanceMilestoneCommandHandler {
	return AdvanceMilestoneCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle returns the milestone the order is at after the call.
func (h *AdvanceMilestoneCommandHandler) Handle(ctx context.Context, cmd AdvanceMilestoneCommand) (origin.Milestone, error) {
	if err := cmd.Validate(); err != nil {
		return origin.MilestoneConfirmed, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return origin.MilestoneConfirmed, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OriginOrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return origin.MilestoneConfirmed, err
	}

	before := o.Milestone()
	after := o.Advance(h.clock.now())
	if after == before {
		return after, nil
	}

	if err = repo.Update(ctx, o); err != nil {
		return before, err
	}
	if err = uow.Commit(ctx); err != nil {
		return before, err
	}

	return after, nil
}
