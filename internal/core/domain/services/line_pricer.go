package services

import (
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PriceValue is a price as it arrives from a cart: a JSON number or a
// numeric string. Anything that does not parse counts as zero.
type PriceValue string

// Price builds a PriceValue from a decimal.
func Price(d decimal.Decimal) PriceValue {
	return PriceValue(d.String())
}

// Decimal coerces the value, returning zero when it is missing or not numeric.
func (p PriceValue) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(p)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsSet reports whether the cart carried any price at all.
func (p PriceValue) IsSet() bool {
	return strings.TrimSpace(string(p)) != ""
}

// CartOption is an option selection as submitted by a client.
type CartOption struct {
	ID        string
	Name      string
	UnitPrice PriceValue
	// Quantity is nil when the client omitted it.
	Quantity *decimal.Decimal
	// Scope is nil when the client omitted it, which means PerUnit.
	Scope *order.OptionScope
}

// CartLine is a line as submitted by a client. UnitPrice is whatever the
// client last saw; the assembler replaces it with the catalog price.
type CartLine struct {
	MenuItemID string
	Name       string
	Size       string
	UnitPrice  PriceValue
	Quantity   int
	Options    []CartOption
}

// PricedLine is the outcome of pricing one cart line.
type PricedLine struct {
	BasePrice          decimal.Decimal
	PaidOptionsPerUnit decimal.Decimal
	PerLineCharges     decimal.Decimal
	LineTotal          decimal.Decimal
	Quantity           int
	NormalizedOptions  []order.OptionSelection
	Line               order.Line
}

// LinePricer prices a single cart line. It is pure: the same line always
// yields the same result, so placement and repricing agree.
//
// Normalization rules:
//   - a missing or non-numeric option price is 0
//   - a paid option without a quantity counts once
//   - a free option is presence only and carries quantity 1
//   - an option with quantity 0 is unselected and dropped
//   - a negative option quantity is a validation error
type LinePricer struct{}

// NewLinePricer creates a LinePricer.
func NewLinePricer() LinePricer {
	return LinePricer{}
}

// Price normalizes the options of cl and computes its totals through
// order.NewLine.
//
// Example:
//
//	one := decimal.NewFromInt(1)
//	priced, _ := services.NewLinePricer().Price(services.CartLine{
//	    MenuItemID: "margherita",
//	    UnitPrice:  "10.00",
//	    Quantity:   2,
//	    Options:    []services.CartOption{{ID: "extra-cheese", UnitPrice: "1.50", Quantity: &one}},
//	})
//	// priced.LineTotal == 23.00
func (p LinePricer) Price(cl CartLine) (PricedLine, error) {
	options, err := p.normalizeOptions(cl.Options)
	if err != nil {
		return PricedLine{}, err
	}

	base := cl.UnitPrice.Decimal()
	line, err := order.NewLine(cl.MenuItemID, cl.Name, cl.Size, base, cl.Quantity, options)
	if err != nil {
		return PricedLine{}, err
	}

	b := line.Breakdown()
	return PricedLine{
		BasePrice:          base,
		PaidOptionsPerUnit: b.PaidOptionsPerUnit,
		PerLineCharges:     b.PerLineCharges,
		LineTotal:          b.LineTotal,
		Quantity:           line.Quantity(),
		NormalizedOptions:  line.Options(),
		Line:               line,
	}, nil
}

func (p LinePricer) normalizeOptions(in []CartOption) ([]order.OptionSelection, error) {
	out := make([]order.OptionSelection, 0, len(in))

	for _, o := range in {
		price := o.UnitPrice.Decimal()
		if price.IsNegative() {
			price = decimal.Zero
		}

		qty := decimal.NewFromInt(1)
		if o.Quantity != nil {
			qty = *o.Quantity
		}
		if qty.IsNegative() {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"option quantity is invalid",
				fmt.Errorf("%s: %s is negative", o.ID, qty),
			)
		}
		if qty.IsZero() {
			continue
		}
		if price.IsZero() {
			qty = decimal.NewFromInt(1)
		}

		scope := order.PerUnit
		if o.Scope != nil {
			scope = *o.Scope
		}
		sel, err := order.NewOptionSelection(o.ID, o.Name, price, qty, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}

	return out, nil
}
