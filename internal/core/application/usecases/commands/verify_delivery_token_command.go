package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrVerifyDeliveryTokenCommandIsNotConstructed = errors.New(
	"VerifyDeliveryTokenCommand must be created via NewVerifyDeliveryTokenCommand constructor",
)

// VerifyDeliveryTokenCommand carries a scanned token and the issuedAt it was signed with.
//
// Example:
//
//	// scanner posts the raw code
//	cmd, err := NewVerifyDeliveryTokenCommandFromPayload(orderID, requester, "DLVQR|v1|...")
//
//	// or the decoded fields
//	cmd, err = NewVerifyDeliveryTokenCommand(orderID, requester, token, issuedAt)
type VerifyDeliveryTokenCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	requesterID kernel.OwnerID
	token       string
	issuedAt    time.Time

	guard guard.ConstructorGuard
}

func NewVerifyDeliveryTokenCommand(
	orderID kernel.UUID,
	requesterID kernel.OwnerID,
	token string,
	issuedAt time.Time,
) (VerifyDeliveryTokenCommand, error) {
	var tokenErr, issuedAtErr error
	if strings.TrimSpace(token) == "" {
		tokenErr = errs.NewValueIsRequiredError("token")
	}
	if issuedAt.IsZero() {
		issuedAtErr = errs.NewValueIsRequiredError("issuedAt")
	}

	if err := errors.Join(orderID.Validate(), requesterID.Validate(), tokenErr, issuedAtErr); err != nil {
		return VerifyDeliveryTokenCommand{}, err
	}

	return VerifyDeliveryTokenCommand{
		orderID:     orderID,
		requesterID: requesterID,
		token:       token,
		issuedAt:    issuedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// NewVerifyDeliveryTokenCommandFromPayload decodes a scanned DLVQR payload. The order
// id inside the payload must match orderID.
func NewVerifyDeliveryTokenCommandFromPayload(
	orderID kernel.UUID,
	requesterID kernel.OwnerID,
	payload string,
) (VerifyDeliveryTokenCommand, error) {
	decoded, err := services.ParseDeliveryPayload(payload)
	if err != nil {
		return VerifyDeliveryTokenCommand{}, err
	}
	if !decoded.OrderID.IsEqual(orderID) {
		return VerifyDeliveryTokenCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"payload order id",
			fmt.Errorf("payload is for %s", decoded.OrderID),
		)
	}
	return NewVerifyDeliveryTokenCommand(orderID, requesterID, decoded.Token, decoded.IssuedAt)
}

func (c VerifyDeliveryTokenCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDeliveryTokenCommandIsNotConstructed)
}

func (c VerifyDeliveryTokenCommand) OrderID() kernel.UUID        { return c.orderID }
func (c VerifyDeliveryTokenCommand) RequesterID() kernel.OwnerID { return c.requesterID }
func (c VerifyDeliveryTokenCommand) Token() string               { return c.token }
func (c VerifyDeliveryTokenCommand) IssuedAt() time.Time         { return c.issuedAt }
