package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> OutForDelivery
//	   │            │  └──────────┴──────────────┴──> Delivered (token redemption only)
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal. Status only moves forward.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Pending is the status of a freshly created order.
	Pending

	// Confirmed means the restaurant accepted the order.
	Confirmed

	// Preparing means the order is being prepared and can no longer be cancelled.
	Preparing

	// OutForDelivery means the order left the restaurant.
	OutForDelivery

	// Delivered is set only by a successful delivery token redemption.
	Delivered

	// Cancelled is set by the owner before preparation starts.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "pending",
	Confirmed:      "confirmed",
	Preparing:      "preparing",
	OutForDelivery: "out_for_delivery",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

// ParseStatus converts the wire name of a status back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate reports whether s is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case wire name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanIssueDeliveryToken reports whether a proof-of-delivery token may be issued.
func (s Status) CanIssueDeliveryToken() bool {
	return s == Confirmed || s == Preparing || s == OutForDelivery
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled
//   - Confirmed -> Cancelled
//   - Cancelled -> Cancelled (repeated cancel is accepted without change)
//
// Preparing, OutForDelivery and Delivered reject cancellation.
func (s Status) Cancel() (Status, error) {
	switch s {
	case Pending, Confirmed, Cancelled:
		return Cancelled, nil
	default:
		return Unknown, errs.NewStateConflictError("cancel", s.String())
	}
}

// Advance moves an order one step along the fulfilment path:
// Pending -> Confirmed -> Preparing -> OutForDelivery.
// Delivered cannot be reached this way; it requires token redemption.
func (s Status) Advance() (Status, error) {
	switch s {
	case Pending:
		return Confirmed, nil
	case Confirmed:
		return Preparing, nil
	case Preparing:
		return OutForDelivery, nil
	default:
		return Unknown, errs.NewStateConflictError("advance", s.String())
	}
}

// Deliver transitions to Delivered from any status in which a delivery token can
// be live.
func (s Status) Deliver() (Status, error) {
	if !s.CanIssueDeliveryToken() {
		return Unknown, errs.NewStateConflictError("deliver", s.String())
	}
	return Delivered, nil
}
