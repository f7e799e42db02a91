package errs

import (
	"fmt"
	"time"
)

// TokenExpiredError reports a delivery token presented after its validity window.
type TokenExpiredError struct {
	Age time.Duration
	TTL time.Duration
}

func NewTokenExpiredError(age, ttl time.Duration) *TokenExpiredError {
	return &TokenExpiredError{Age: age, TTL: ttl}
}

func (e *TokenExpiredError) Error() string {
	return fmt.Sprintf("%s: token age %s exceeds ttl %s", ErrTokenExpired, e.Age, e.TTL)
}

func (e *TokenExpiredError) Unwrap() error {
	return ErrTokenExpired
}

// TokenMismatchError reports a delivery token that does not match the signature
// or the token currently stored for the order.
type TokenMismatchError struct {
	Reason string
}

func NewTokenMismatchError(reason string) *TokenMismatchError {
	return &TokenMismatchError{Reason: reason}
}

func (e *TokenMismatchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenMismatch, e.Reason)
}

func (e *TokenMismatchError) Unwrap() error {
	return ErrTokenMismatch
}

// ConcurrentModificationError is returned by conditional writes that lost a race.
type ConcurrentModificationError struct {
	Resource string
	ID       string
}

func NewConcurrentModificationError(resource, id string) *ConcurrentModificationError {
	return &ConcurrentModificationError{Resource: resource, ID: id}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %s was changed by another request", ErrConcurrentModification, e.Resource, e.ID)
}

// Unwrap reports both the concurrency sentinel and ErrStateConflict so callers
// that only know the state-conflict taxonomy still classify it correctly.
func (e *ConcurrentModificationError) Unwrap() []error {
	return []error{ErrConcurrentModification, ErrStateConflict}
}

// TooManyAttemptsError is returned when a key exceeded its attempt budget.
type TooManyAttemptsError struct {
	Key string
}

func NewTooManyAttemptsError(key string) *TooManyAttemptsError {
	return &TooManyAttemptsError{Key: key}
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTooManyAttempts, sanitize(e.Key))
}

func (e *TooManyAttemptsError) Unwrap() error {
	return ErrTooManyAttempts
}
