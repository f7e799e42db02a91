package services

import (
	"crypto/hmac"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// RedemptionTarget is an aggregate whose live delivery token can be redeemed.
type RedemptionTarget interface {
	Validate() error
	ID() kernel.UUID
	DeliveryToken() *order.DeliveryToken
	AcceptsDelivery() bool
	LifecycleState() string
	ConfirmDelivery(now time.Time) error
	RecordFailedVerification(now time.Time)
}

// DeliveryTokenVerifier checks a presented token and applies the outcome to the target.
//
// Validation sequence, all of which must pass:
//  1. now - issuedAt <= ttl, else TokenExpiredError
//  2. the token equals the HMAC of (id, issuedAt), else TokenMismatchError
//  3. the token equals the live token stored on the target, else TokenMismatchError
//
// A target that does not accept delivery yields a StateConflictError naming its
// current state and is not modified. That covers terminal targets and orders still
// pending, which can never have held a token. Any token failure marks the target's
// verification as attempt pending without touching its status.
type DeliveryTokenVerifier struct {
	signer TokenSigner
	ttl    time.Duration
}

func NewDeliveryTokenVerifier(signer TokenSigner, ttl time.Duration) (DeliveryTokenVerifier, error) {
	if ttl <= 0 {
		return DeliveryTokenVerifier{}, errs.NewValueIsOutOfRangeError("token ttl", ttl, "1ms", "unbounded")
	}
	return DeliveryTokenVerifier{signer: signer, ttl: ttl}, nil
}

// Verify runs the validation sequence and, on success, confirms delivery on target.
// The returned token is the stored value that was consumed; repositories use it as
// the compare-and-swap condition.
func (v DeliveryTokenVerifier) Verify(
	target RedemptionTarget,
	presentedToken string,
	presentedIssuedAt time.Time,
	now time.Time,
) (consumed string, err error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if !target.AcceptsDelivery() {
		return "", errs.NewStateConflictError("verify delivery token", target.LifecycleState())
	}

	if err := v.check(target, presentedToken, presentedIssuedAt, now); err != nil {
		target.RecordFailedVerification(now)
		return "", err
	}

	stored := target.DeliveryToken().Value()
	if err := target.ConfirmDelivery(now); err != nil {
		return "", err
	}
	return stored, nil
}

func (v DeliveryTokenVerifier) check(target RedemptionTarget, presented string, issuedAt, now time.Time) error {
	presented = strings.ToLower(strings.TrimSpace(presented))

	age := now.Sub(issuedAt)
	if age > v.ttl {
		return errs.NewTokenExpiredError(age, v.ttl)
	}
	if !v.signer.Matches(target.ID(), issuedAt, presented) {
		return errs.NewTokenMismatchError("signature does not match order and issuedAt")
	}

	stored := target.DeliveryToken()
	if stored == nil {
		return errs.NewTokenMismatchError("no live token is stored")
	}
	if !hmac.Equal([]byte(stored.Value()), []byte(presented)) {
		return errs.NewTokenMismatchError("token is not the live token")
	}
	return nil
}
