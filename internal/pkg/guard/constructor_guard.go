// Package guard holds the ConstructorGuard used by value objects, entities and
// commands to tell a constructed value apart from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does not
// supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types whose zero value is not meaningful.
// Only NewConstructorGuard produces a guard that validates, so a struct
// literal that skipped the constructor is caught the first time it is used.
//
// Example:
//
//	var ErrFeeNotConstructed = errors.New("Fee must be created via NewFee")
//
//	type Fee struct {
//	    amount decimal.Decimal
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewFee(amount decimal.Decimal) (Fee, error) {
//	    if amount.IsNegative() {
//	        return Fee{}, errs.NewValueIsInvalidError("fee")
//	    }
//	    return Fee{amount: amount, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (f Fee) Validate() error {
//	    return f.guard.Validate(ErrFeeNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns validationError, or ErrDefaultConstructorGuard when that is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
