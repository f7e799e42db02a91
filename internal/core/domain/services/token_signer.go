package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// MinSecretLength is the minimum accepted signing secret size in bytes.
const MinSecretLength = 32

// TokenSigner computes proof-of-delivery tokens as
// hex(HMAC-SHA256(secret, orderID + ":" + issuedAtMillis)).
//
// The secret is process configuration; it is never stored with an order.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner copies the secret and rejects secrets shorter than MinSecretLength.
func NewTokenSigner(secret []byte) (TokenSigner, error) {
	if len(secret) < MinSecretLength {
		return TokenSigner{}, errs.NewValueIsOutOfRangeError("token secret length", len(secret), MinSecretLength, "unbounded")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return TokenSigner{secret: key}, nil
}

// Sign returns the lower-case hex token for orderID and issuedAt. Only the
// millisecond part of issuedAt is signed.
func (s TokenSigner) Sign(orderID kernel.UUID, issuedAt time.Time) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput(orderID, issuedAt)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Matches recomputes the token and compares it with the presented one in constant time.
func (s TokenSigner) Matches(orderID kernel.UUID, issuedAt time.Time, presented string) bool {
	expected := s.Sign(orderID, issuedAt)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(presented)))
}

func signingInput(orderID kernel.UUID, issuedAt time.Time) string {
	return orderID.String() + ":" + strconv.FormatInt(issuedAt.UnixMilli(), 10)
}
