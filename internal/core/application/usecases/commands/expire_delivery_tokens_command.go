package commands

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrExpireDeliveryTokensCommandIsNotConstructed = errors.New(
	"ExpireDeliveryTokensCommand must be created via NewExpireDeliveryTokensCommand constructor",
)

// ExpireDeliveryTokensCommand asks the sweeper to clear up to BatchSize expired tokens.
type ExpireDeliveryTokensCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireDeliveryTokensCommand(batchSize int) (ExpireDeliveryTokensCommand, error) {
	if batchSize <= 0 {
		return ExpireDeliveryTokensCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return ExpireDeliveryTokensCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireDeliveryTokensCommand) Validate() error {
	return c.guard.Validate(ErrExpireDeliveryTokensCommandIsNotConstructed)
}

func (c ExpireDeliveryTokensCommand) BatchSize() int {
	return c.batchSize
}
