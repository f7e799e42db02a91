package services

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// DefaultTokenTTL is the validity window of a delivery token.
const DefaultTokenTTL = 5 * time.Minute

// TokenHolder is an aggregate that can carry a live delivery token.
// Both order.Order and origin.OriginOrder satisfy it.
type TokenHolder interface {
	Validate() error
	ID() kernel.UUID
	AttachDeliveryToken(token order.DeliveryToken, now time.Time) error
}

// DeliveryTicket is everything the owner needs to present a delivery code.
type DeliveryTicket struct {
	Payload          string
	Token            string
	IssuedAt         time.Time
	Expiry           time.Time
	VerificationCode string
}

// DeliveryTokenIssuer signs a fresh token and stores it on the holder.
//
// Business rules:
//   - issuedAt is truncated to milliseconds, the precision carried in the payload
//   - expiry is issuedAt + ttl
//   - issuing again overwrites the previous token, which invalidates it
//
// Example usage:
//
//	issuer, _ := services.NewDeliveryTokenIssuer(signer, services.DefaultTokenTTL)
//	ticket, err := issuer.Issue(o, time.Now())
//	if errors.Is(err, errs.ErrStateConflict) {
//	    // order is not confirmed, preparing or out for delivery
//	}
type DeliveryTokenIssuer struct {
	signer TokenSigner
	ttl    time.Duration
}

func NewDeliveryTokenIssuer(signer TokenSigner, ttl time.Duration) (DeliveryTokenIssuer, error) {
	if ttl <= 0 {
		return DeliveryTokenIssuer{}, errs.NewValueIsOutOfRangeError("token ttl", ttl, "1ms", "unbounded")
	}
	return DeliveryTokenIssuer{signer: signer, ttl: ttl}, nil
}

// Issue attaches a new token to holder and returns the ticket for display.
func (i DeliveryTokenIssuer) Issue(holder TokenHolder, now time.Time) (DeliveryTicket, error) {
	if err := holder.Validate(); err != nil {
		return DeliveryTicket{}, err
	}

	issuedAt := time.UnixMilli(now.UnixMilli()).UTC()
	expiry := issuedAt.Add(i.ttl)
	value := i.signer.Sign(holder.ID(), issuedAt)

	token, err := order.NewDeliveryToken(value, issuedAt, expiry)
	if err != nil {
		return DeliveryTicket{}, err
	}
	if err := holder.AttachDeliveryToken(token, now); err != nil {
		return DeliveryTicket{}, err
	}

	return DeliveryTicket{
		Payload:          FormatDeliveryPayload(holder.ID(), value, issuedAt),
		Token:            value,
		IssuedAt:         issuedAt,
		Expiry:           expiry,
		VerificationCode: VerificationCode(value),
	}, nil
}
