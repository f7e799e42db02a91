package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of the requester.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, requester)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrAccessDenied) {
//	    // someone else's order
//	}
type GetOrderQuery struct {
	orderID     kernel.UUID
	requesterID kernel.OwnerID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, requesterID kernel.OwnerID) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), requesterID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, requesterID: requesterID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) RequesterID() kernel.OwnerID {
	return q.requesterID
}

// GetOrderQueryResponse is the owner's view of an order. The delivery token itself
// is never part of it; TokenExpiry tells the client whether a code is live.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	OwnerID            string
	Status             string
	VerificationStatus string
	Items              []OrderItemView
	Pricing            PricingView
	Address            AddressView
	TokenExpiry        *time.Time
	VerifiedAt         *time.Time
	Rating             *int
	Review             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
