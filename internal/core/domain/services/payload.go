package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const (
	payloadTag       = "DLVQR"
	payloadVersion   = "v1"
	payloadSeparator = "|"
)

// DeliveryPayload is the content of a scanned delivery code.
type DeliveryPayload struct {
	OrderID  kernel.UUID
	Token    string
	IssuedAt time.Time
}

// FormatDeliveryPayload renders "DLVQR|v1|<orderId>|<token>|<issuedAtMillis>".
func FormatDeliveryPayload(orderID kernel.UUID, token string, issuedAt time.Time) string {
	return strings.Join([]string{
		payloadTag,
		payloadVersion,
		orderID.String(),
		token,
		strconv.FormatInt(issuedAt.UnixMilli(), 10),
	}, payloadSeparator)
}

// ParseDeliveryPayload decodes a scanned payload. It does not check the signature.
func ParseDeliveryPayload(raw string) (DeliveryPayload, error) {
	parts := strings.Split(strings.TrimSpace(raw), payloadSeparator)
	if len(parts) != 5 {
		return DeliveryPayload{}, errs.NewValueIsInvalidErrorWithCause(
			"payload", fmt.Errorf("expected 5 fields, got %d", len(parts)))
	}
	if parts[0] != payloadTag || parts[1] != payloadVersion {
		return DeliveryPayload{}, errs.NewValueIsInvalidErrorWithCause(
			"payload", fmt.Errorf("unsupported protocol %s|%s", parts[0], parts[1]))
	}

	orderID, err := kernel.UUIDFromString(parts[2])
	if err != nil {
		return DeliveryPayload{}, errs.NewValueIsInvalidErrorWithCause("payload order id", err)
	}
	if parts[3] == "" {
		return DeliveryPayload{}, errs.NewValueIsRequiredError("payload token")
	}
	millis, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil || millis <= 0 {
		return DeliveryPayload{}, errs.NewValueIsInvalidErrorWithCause(
			"payload issuedAt", fmt.Errorf("%q is not a positive millisecond timestamp", parts[4]))
	}

	return DeliveryPayload{
		OrderID:  orderID,
		Token:    parts[3],
		IssuedAt: time.UnixMilli(millis).UTC(),
	}, nil
}

// VerificationCode derives the human-readable fallback code: the first and last three
// hex characters of the token, upper-cased and joined with a hyphen. It is a display
// aid and is never accepted as a credential.
func VerificationCode(token string) string {
	if len(token) < 6 {
		return strings.ToUpper(token)
	}
	return strings.ToUpper(token[:3]) + "-" + strings.ToUpper(token[len(token)-3:])
}
