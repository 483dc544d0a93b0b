package order

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// OptionScope decides whether an option is charged for every unit of a line
// or once for the whole line.
type OptionScope int

const (
	// PerUnit options are charged UnitPrice × Quantity for every unit of the line.
	PerUnit OptionScope = iota
	// PerLine options are charged UnitPrice × Quantity once, whatever the
	// line's unit count (e.g. one extra sauce pot for three burgers).
	PerLine
)

// ParseOptionScope converts "per_unit" / "per_line" into an OptionScope.
// The empty string means PerUnit.
func ParseOptionScope(s string) (OptionScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_unit":
		return PerUnit, nil
	case "per_line":
		return PerLine, nil
	default:
		return PerUnit, errs.NewValueIsInvalidErrorWithCause("option scope is invalid", fmt.Errorf("%q is not a valid option scope", s))
	}
}

func (s OptionScope) String() string {
	if s == PerLine {
		return "per_line"
	}
	return "per_unit"
}

// ErrOptionSelectionIsNotConstructed is returned when a zero OptionSelection is used.
var ErrOptionSelectionIsNotConstructed = errors.New("OptionSelection must be created via NewOptionSelection constructor")

// OptionSelection is an add-on chosen for a line. Quantity is scoped to the
// line and may be fractional: a per-unit quantity of 1/N on an N-unit line
// charges the add-on once, which is how older carts encoded per-line charges.
type OptionSelection struct { //nolint:recvcheck //using for validation
	id        string
	name      string
	unitPrice decimal.Decimal
	quantity  decimal.Decimal
	scope     OptionScope
	guard     guard.ConstructorGuard
}

// NewOptionSelection validates id, non-negative price and non-negative quantity.
func NewOptionSelection(
	id, name string,
	unitPrice, quantity decimal.Decimal,
	scope OptionScope,
) (OptionSelection, error) {
	o := OptionSelection{
		name:  strings.TrimSpace(name),
		scope: scope,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setUnitPrice(unitPrice),
		o.setQuantity(quantity),
	); err != nil {
		return OptionSelection{}, err
	}

	return o, nil
}

// Validate fails for a zero OptionSelection.
func (o OptionSelection) Validate() error {
	return o.guard.Validate(ErrOptionSelectionIsNotConstructed)
}

func (o OptionSelection) ID() string                 { return o.id }
func (o OptionSelection) Name() string               { return o.name }
func (o OptionSelection) UnitPrice() decimal.Decimal { return o.unitPrice }
func (o OptionSelection) Quantity() decimal.Decimal  { return o.quantity }
func (o OptionSelection) Scope() OptionScope         { return o.scope }

// IsPaid reports whether the option contributes to the line total.
func (o OptionSelection) IsPaid() bool {
	return o.unitPrice.IsPositive() && o.quantity.IsPositive()
}

// Charge is UnitPrice × Quantity, before any multiplication by unit count.
func (o OptionSelection) Charge() decimal.Decimal {
	return o.unitPrice.Mul(o.quantity)
}

func (o *OptionSelection) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("option id")
	}
	o.id = id
	return nil
}

func (o *OptionSelection) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("option price is invalid", fmt.Errorf("%s is negative", price))
	}
	o.unitPrice = price
	return nil
}

func (o *OptionSelection) setQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("option quantity is invalid", fmt.Errorf("%s is negative", quantity))
	}
	o.quantity = quantity
	return nil
}
