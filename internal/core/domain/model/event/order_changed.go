// Package event holds the domain events recorded by order aggregates and
// published after a unit of work commits.
package event

import "time"

// Kind names what happened to the aggregate.
type Kind string

const (
	KindCreated              Kind = "created"
	KindCancelled            Kind = "cancelled"
	KindRated                Kind = "rated"
	KindAdvanced             Kind = "advanced"
	KindDeliveryTokenIssued  Kind = "delivery_token_issued"
	KindDeliveryVerified     Kind = "delivery_verified"
	KindVerificationFailed   Kind = "verification_failed"
	KindDeliveryTokenExpired Kind = "delivery_token_expired"
	KindMilestoneReached     Kind = "milestone_reached"
)

// Aggregate types carried in OrderChanged.AggregateType.
const (
	AggregateOrder       = "order"
	AggregateOriginOrder = "origin_order"
)

// OrderChanged is emitted whenever an order or origin order changes state.
// It never carries token material.
type OrderChanged struct {
	AggregateID        string    `json:"aggregateId"`
	AggregateType      string    `json:"aggregateType"`
	OwnerID            string    `json:"ownerId"`
	Kind               Kind      `json:"kind"`
	Status             string    `json:"status"`
	VerificationStatus string    `json:"verificationStatus"`
	Milestone          *int      `json:"milestone,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}
