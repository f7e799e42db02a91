package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAdvanceMilestoneCommandIsNotConstructed = errors.New(
	"AdvanceMilestoneCommand must be created via NewAdvanceMilestoneCommand constructor",
)

// AdvanceMilestoneCommand is an origin status update: move the order to its next stage.
type AdvanceMilestoneCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAdvanceMilestoneCommand(orderID kernel.UUID) (AdvanceMilestoneCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AdvanceMilestoneCommand{}, err
	}
	return AdvanceMilestoneCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AdvanceMilestoneCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceMilestoneCommandIsNotConstructed)
}

func (c AdvanceMilestoneCommand) OrderID() kernel.UUID {
	return c.orderID
}
