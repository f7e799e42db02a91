package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrIssueDeliveryTokenCommandIsNotConstructed = errors.New(
	"IssueDeliveryTokenCommand must be created via NewIssueDeliveryTokenCommand constructor",
)

// IssueDeliveryTokenCommand requests a proof-of-delivery code for an order or an
// origin order owned by the requester. The same command type serves both handlers.
type IssueDeliveryTokenCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	requesterID kernel.OwnerID

	guard guard.ConstructorGuard
}

func NewIssueDeliveryTokenCommand(orderID kernel.UUID, requesterID kernel.OwnerID) (IssueDeliveryTokenCommand, error) {
	if err := errors.Join(orderID.Validate(), requesterID.Validate()); err != nil {
		return IssueDeliveryTokenCommand{}, err
	}

	return IssueDeliveryTokenCommand{
		orderID:     orderID,
		requesterID: requesterID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c IssueDeliveryTokenCommand) Validate() error {
	return c.guard.Validate(ErrIssueDeliveryTokenCommandIsNotConstructed)
}

func (c IssueDeliveryTokenCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c IssueDeliveryTokenCommand) RequesterID() kernel.OwnerID {
	return c.requesterID
}
