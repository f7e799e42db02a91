package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the requester's orders, newest first.
type ListOrdersQuery struct {
	requesterID kernel.OwnerID

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(requesterID kernel.OwnerID) (ListOrdersQuery, error) {
	if err := requesterID.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{requesterID: requesterID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) RequesterID() kernel.OwnerID {
	return q.requesterID
}

type ListOrdersQueryResponse struct {
	ID                 kernel.UUID
	Status             string
	VerificationStatus string
	TotalMinor         int64
	CreatedAt          time.Time
}
