package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOriginOrderQueryIsNotConstructed = errors.New(
	"GetOriginOrderQuery must be created via NewGetOriginOrderQuery constructor",
)

type GetOriginOrderQuery struct {
	orderID     kernel.UUID
	requesterID kernel.OwnerID

	guard guard.ConstructorGuard
}

func NewGetOriginOrderQuery(orderID kernel.UUID, requesterID kernel.OwnerID) (GetOriginOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), requesterID.Validate()); err != nil {
		return GetOriginOrderQuery{}, err
	}
	return GetOriginOrderQuery{orderID: orderID, requesterID: requesterID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOriginOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOriginOrderQueryIsNotConstructed)
}

func (q GetOriginOrderQuery) OrderID() kernel.UUID        { return q.orderID }
func (q GetOriginOrderQuery) RequesterID() kernel.OwnerID { return q.requesterID }

// GetOriginOrderQueryResponse shows where an origin order is among its milestones.
type GetOriginOrderQueryResponse struct {
	ID                 kernel.UUID
	OwnerID            string
	Milestone          string
	MilestoneIndex     int
	Milestones         []string
	IsActive           bool
	VerificationStatus string
	Items              []OrderItemView
	Pricing            PricingView
	Address            AddressView
	TokenExpiry        *time.Time
	VerifiedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
