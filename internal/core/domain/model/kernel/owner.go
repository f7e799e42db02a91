package kernel

import (
	"strings"

	"orderflow/internal/pkg/errs"
)

const maxOwnerIDLength = 255

// OwnerID identifies the customer an order belongs to. It is the authenticated
// subject handed over by the identity layer and is compared on every read and
// mutation of an order.
type OwnerID struct {
	value string
}

// NewOwnerID trims and validates an opaque subject identifier.
func NewOwnerID(value string) (OwnerID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return OwnerID{}, errs.NewValueIsRequiredError("ownerID")
	}
	if len(value) > maxOwnerIDLength {
		return OwnerID{}, errs.NewValueIsOutOfRangeError("ownerID length", len(value), 1, maxOwnerIDLength)
	}
	return OwnerID{value: value}, nil
}

func (o OwnerID) String() string {
	return o.value
}

// IsEqual compares two owners by value.
func (o OwnerID) IsEqual(other OwnerID) bool {
	return o.value == other.value
}

// Validate rejects the zero value.
func (o OwnerID) Validate() error {
	if o.value == "" {
		return errs.NewValueIsRequiredError("ownerID")
	}
	return nil
}
