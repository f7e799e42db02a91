package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand carries the customer's 1..5 rating and optional review.
//
// Example:
//
//	cmd, err := NewRateOrderCommand(orderID, requester, 5, "Still hot on arrival")
//	if errors.Is(err, errs.ErrValueIsOutOfRange) {
//	    // rating outside 1..5
//	}
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	requesterID kernel.OwnerID
	rating      order.Rating
	review      string

	guard guard.ConstructorGuard
}

func NewRateOrderCommand(
	orderID kernel.UUID,
	requesterID kernel.OwnerID,
	rating int,
	review string,
) (RateOrderCommand, error) {
	r, ratingErr := order.NewRating(rating)
	if err := errors.Join(orderID.Validate(), requesterID.Validate(), ratingErr); err != nil {
		return RateOrderCommand{}, err
	}

	return RateOrderCommand{
		orderID:     orderID,
		requesterID: requesterID,
		rating:      r,
		review:      review,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

func (c RateOrderCommand) OrderID() kernel.UUID        { return c.orderID }
func (c RateOrderCommand) RequesterID() kernel.OwnerID { return c.requesterID }
func (c RateOrderCommand) Rating() order.Rating        { return c.rating }
func (c RateOrderCommand) Review() string              { return c.review }
