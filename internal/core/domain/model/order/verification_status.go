package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// VerificationStatus tracks the proof-of-delivery sub-state. It is independent of
// Status: a failed scan moves it to AttemptPending without touching Status.
type VerificationStatus int

const (
	VerificationUnknown VerificationStatus = iota
	// VerificationPending means no live token exists and no scan failed yet.
	VerificationPending
	// VerificationQRGenerated means a live token is stored on the order.
	VerificationQRGenerated
	// VerificationVerified means the token was redeemed and the order is delivered.
	VerificationVerified
	// VerificationAttemptPending means the last scan failed; a new token is needed.
	VerificationAttemptPending
)

var verificationNames = map[VerificationStatus]string{
	VerificationPending:        "pending",
	VerificationQRGenerated:    "qr_generated",
	VerificationVerified:       "verified",
	VerificationAttemptPending: "attempt_pending",
}

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	for status, name := range verificationNames {
		if name == s {
			return status, nil
		}
	}
	return VerificationUnknown, errs.NewValueIsInvalidErrorWithCause(
		"verification status",
		fmt.Errorf("%q is not a valid verification status", s),
	)
}

func (v VerificationStatus) Validate() error {
	if _, ok := verificationNames[v]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"verification status is invalid",
			fmt.Errorf("%d is not a valid verification status", v),
		)
	}
	return nil
}

func (v VerificationStatus) String() string {
	if name, ok := verificationNames[v]; ok {
		return name
	}
	return "unknown"
}
