package order

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places totals are rounded to.
const MoneyPlaces = 2

// ErrLineIsNotConstructed is returned when a zero Line is used.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Breakdown is the priced decomposition of a line.
type Breakdown struct {
	PaidOptionsPerUnit decimal.Decimal
	PerLineCharges     decimal.Decimal
	LineTotal          decimal.Decimal
}

// ComputeBreakdown applies the line pricing formula:
//
//	lineTotal = quantity × (unitPrice + Σ per-unit charges) + Σ per-line charges
//
// The per-unit sum is taken before multiplying by quantity so fractional
// option quantities amortize a flat charge over the units. Only paid options
// (price > 0 and quantity > 0) contribute. The total is rounded half away
// from zero to MoneyPlaces.
func ComputeBreakdown(unitPrice decimal.Decimal, quantity int, options []OptionSelection) Breakdown {
	perUnit := decimal.Zero
	perLine := decimal.Zero

	for _, o := range options {
		if !o.IsPaid() {
			continue
		}
		if o.Scope() == PerLine {
			perLine = perLine.Add(o.Charge())
		} else {
			perUnit = perUnit.Add(o.Charge())
		}
	}

	total := unitPrice.Add(perUnit).
		Mul(decimal.NewFromInt(int64(quantity))).
		Add(perLine).
		Round(MoneyPlaces)

	return Breakdown{
		PaidOptionsPerUnit: perUnit,
		PerLineCharges:     perLine,
		LineTotal:          total,
	}
}

// Line is one priced entry of an order: a menu item in a size with its
// selected options, ordered Quantity times.
type Line struct { //nolint:recvcheck //using for validation
	menuItemID string
	name       string
	size       string
	unitPrice  decimal.Decimal
	quantity   int
	options    []OptionSelection
	breakdown  Breakdown
	guard      guard.ConstructorGuard
}

// NewLine validates the inputs and computes the line total. There is no way
// to give a Line a total of the caller's choosing.
func NewLine(
	menuItemID, name, size string,
	unitPrice decimal.Decimal,
	quantity int,
	options []OptionSelection,
) (Line, error) {
	l := Line{
		name:  strings.TrimSpace(name),
		size:  strings.TrimSpace(size),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setMenuItemID(menuItemID),
		l.setUnitPrice(unitPrice),
		l.setQuantity(quantity),
		l.setOptions(options),
	); err != nil {
		return Line{}, err
	}

	l.breakdown = ComputeBreakdown(l.unitPrice, l.quantity, l.options)
	return l, nil
}

// Validate fails for a zero Line.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}

func (l Line) MenuItemID() string         { return l.menuItemID }
func (l Line) Name() string               { return l.name }
func (l Line) Size() string               { return l.size }
func (l Line) UnitPrice() decimal.Decimal { return l.unitPrice }
func (l Line) Quantity() int              { return l.quantity }
func (l Line) Breakdown() Breakdown       { return l.breakdown }
func (l Line) Total() decimal.Decimal     { return l.breakdown.LineTotal }

// Options returns a copy of the selected options.
func (l Line) Options() []OptionSelection {
	out := make([]OptionSelection, len(l.options))
	copy(out, l.options)
	return out
}

func (l *Line) setMenuItemID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("menu item id")
	}
	l.menuItemID = id
	return nil
}

func (l *Line) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid", fmt.Errorf("%s is negative", price))
	}
	l.unitPrice = price
	return nil
}

func (l *Line) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	l.quantity = quantity
	return nil
}

func (l *Line) setOptions(options []OptionSelection) error {
	copied := make([]OptionSelection, 0, len(options))
	for i, o := range options {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
		copied = append(copied, o)
	}
	l.options = copied
	return nil
}
