// Package errs provides standardized error types for the order service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the common failure classes:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: an order or origin order does not exist
//   - AccessDeniedError: the requester does not own the order
//   - StateConflictError: the operation is illegal in the current status
//   - TokenExpiredError, TokenMismatchError: a delivery token failed verification
//   - ConcurrentModificationError: a conditional write lost a race
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Callers classify errors with errors.Is against the sentinels; the HTTP adapter
// maps each sentinel to a status code in one place.
package errs
