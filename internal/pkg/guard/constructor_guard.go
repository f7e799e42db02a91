// Package guard provides ConstructorGuard, a marker embedded in commands, queries
// and value objects so that zero-value instances can be told apart from ones
// built through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded value was not
// constructed and the caller did not supply a more specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value went through its constructor.
//
// Example:
//
//	type IssueDeliveryTokenCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c IssueDeliveryTokenCommand) Validate() error {
//	    return c.guard.Validate(ErrIssueDeliveryTokenCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
