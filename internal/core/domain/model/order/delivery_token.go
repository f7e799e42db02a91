package order

import (
	"time"

	"orderflow/internal/pkg/errs"
)

// DeliveryToken is the live proof-of-delivery secret stored on an order.
// It is produced by the token issuer and cleared on redemption.
type DeliveryToken struct {
	value    string
	issuedAt time.Time
	expiry   time.Time
}

// NewDeliveryToken validates that the token is present and expires after issuance.
func NewDeliveryToken(value string, issuedAt, expiry time.Time) (DeliveryToken, error) {
	if value == "" {
		return DeliveryToken{}, errs.NewValueIsRequiredError("delivery token")
	}
	if issuedAt.IsZero() {
		return DeliveryToken{}, errs.NewValueIsRequiredError("delivery token issuedAt")
	}
	if !expiry.After(issuedAt) {
		return DeliveryToken{}, errs.NewValueIsInvalidError("delivery token expiry must be after issuedAt")
	}
	return DeliveryToken{value: value, issuedAt: issuedAt, expiry: expiry}, nil
}

func (t DeliveryToken) Value() string {
	return t.value
}

func (t DeliveryToken) IssuedAt() time.Time {
	return t.issuedAt
}

func (t DeliveryToken) Expiry() time.Time {
	return t.expiry
}

// IsExpiredAt reports whether now is past the stored expiry.
func (t DeliveryToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.expiry)
}
