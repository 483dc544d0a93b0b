package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/menu"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/clock"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Change flags a difference between a cart line and the current catalog.
type Change string

const (
	PriceChanged       Change = "price_changed"
	OptionPriceChanged Change = "option_price_changed"
	Unavailable        Change = "unavailable"
	Removed            Change = "removed"
)

// TableOrderRequest is everything a client sends to order at a table.
type TableOrderRequest struct {
	TableID      string
	Lines        []CartLine
	Notes        string
	PaymentLabel string
}

// CustomerRequest is the unverified customer block of a delivery order.
type CustomerRequest struct {
	Name    string
	Phone   string
	Address string
}

// DeliveryOrderRequest is everything a client sends to order a delivery.
type DeliveryOrderRequest struct {
	Customer     CustomerRequest
	Lines        []CartLine
	Notes        string
	PaymentLabel string
}

// RepricedLine is one line of a reprice result. Cart holds the line with
// current catalog prices so it can be submitted again.
type RepricedLine struct {
	Cart      CartLine
	Priced    *PricedLine
	Changes   []Change
	LineTotal decimal.Decimal
}

// HasChange reports whether c was flagged on the line.
func (l RepricedLine) HasChange(c Change) bool {
	for _, x := range l.Changes {
		if x == c {
			return true
		}
	}
	return false
}

// RepriceResult is the outcome of pricing a cart against the current catalog.
type RepriceResult struct {
	Lines []RepricedLine
	Total decimal.Decimal
}

// CartLines returns the repriced cart, ready to be priced or placed again.
func (r RepriceResult) CartLines() []CartLine {
	out := make([]CartLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		out = append(out, l.Cart)
	}
	return out
}

// OrderAssembler turns client carts into priced, pending orders.
//
// Business rules:
//   - prices always come from the current catalog; prices or totals sent by
//     the client are ignored
//   - an unknown or unavailable item, size or option fails placement
//   - delivery orders are geocoded and matched against the delivery zones
//     before anything is written; any failure aborts the placement
type OrderAssembler struct {
	catalog  ports.Catalog
	zones    ports.ZoneDirectory
	geocoder ports.Geocoder
	pricer   LinePricer
	resolver ZoneResolver
	clock    clock.Clock
}

// NewOrderAssembler creates an OrderAssembler.
func NewOrderAssembler(
	catalog ports.Catalog,
	zones ports.ZoneDirectory,
	geocoder ports.Geocoder,
	clk clock.Clock,
) (*OrderAssembler, error) {
	if catalog == nil {
		return nil, errs.NewValueIsRequiredError("catalog")
	}
	if zones == nil {
		return nil, errs.NewValueIsRequiredError("zones")
	}
	if geocoder == nil {
		return nil, errs.NewValueIsRequiredError("geocoder")
	}
	if clk == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}

	return &OrderAssembler{
		catalog:  catalog,
		zones:    zones,
		geocoder: geocoder,
		pricer:   NewLinePricer(),
		resolver: NewZoneResolver(),
		clock:    clk,
	}, nil
}

// AssembleTable prices the cart and builds a pending table order.
func (a *OrderAssembler) AssembleTable(ctx context.Context, req TableOrderRequest) (*order.Order, error) {
	lines, err := a.priceCart(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	return order.NewTableOrder(order.TableOrderParams{
		ID:           kernel.NewUUID(),
		TableID:      req.TableID,
		Lines:        lines,
		Notes:        req.Notes,
		PaymentLabel: req.PaymentLabel,
		Now:          a.clock.Now(),
	})
}

// AssembleDelivery prices the cart, geocodes the address and resolves the
// delivery fee, then builds a pending delivery order.
func (a *OrderAssembler) AssembleDelivery(ctx context.Context, req DeliveryOrderRequest) (*order.Order, error) {
	if err := validateCustomerRequest(req.Customer); err != nil {
		return nil, err
	}

	lines, err := a.priceCart(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	point, err := a.geocoder.Geocode(ctx, req.Customer.Address)
	if err != nil {
		return nil, fmt.Errorf("geocode address: %w", err)
	}

	zones, err := a.zones.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load delivery zones: %w", err)
	}

	z, err := a.resolver.Resolve(point, zones)
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(req.Customer.Name, req.Customer.Phone, req.Customer.Address, point)
	if err != nil {
		return nil, err
	}

	return order.NewDeliveryOrder(order.DeliveryOrderParams{
		ID:           kernel.NewUUID(),
		Customer:     customer,
		DeliveryFee:  z.Fee(),
		Lines:        lines,
		Notes:        req.Notes,
		PaymentLabel: req.PaymentLabel,
		Now:          a.clock.Now(),
	})
}

// Reprice prices lines against the current catalog without persisting
// anything. Lines whose item was removed, or whose item, size or option is
// no longer available, are kept and flagged with a zero total.
//
// Repricing is idempotent: pricing result.CartLines() again yields the same
// total.
func (a *OrderAssembler) Reprice(ctx context.Context, lines []CartLine) (RepriceResult, error) {
	cat, err := a.catalog.Current(ctx)
	if err != nil {
		return RepriceResult{}, fmt.Errorf("load catalog: %w", err)
	}

	result := RepriceResult{
		Lines: make([]RepricedLine, 0, len(lines)),
		Total: decimal.Zero,
	}

	for i, cl := range lines {
		current, changes, err := a.resolveAgainst(cat, cl)
		switch {
		case errors.Is(err, menu.ErrItemNotFound):
			result.Lines = append(result.Lines, RepricedLine{Cart: cl, Changes: []Change{Removed}, LineTotal: decimal.Zero})
			continue
		case menu.IsUnavailable(err):
			result.Lines = append(result.Lines, RepricedLine{Cart: cl, Changes: []Change{Unavailable}, LineTotal: decimal.Zero})
			continue
		case err != nil:
			return RepriceResult{}, fmt.Errorf("line %d: %w", i, err)
		}

		priced, err := a.pricer.Price(current)
		if err != nil {
			return RepriceResult{}, fmt.Errorf("line %d: %w", i, err)
		}

		result.Lines = append(result.Lines, RepricedLine{
			Cart:      current,
			Priced:    &priced,
			Changes:   changes,
			LineTotal: priced.LineTotal,
		})
		result.Total = result.Total.Add(priced.LineTotal)
	}

	result.Total = result.Total.Round(order.MoneyPlaces)
	return result, nil
}

func (a *OrderAssembler) priceCart(ctx context.Context, lines []CartLine) ([]order.Line, error) {
	if len(lines) == 0 {
		return nil, order.ErrOrderHasNoLines
	}

	cat, err := a.catalog.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	out := make([]order.Line, 0, len(lines))
	for i, cl := range lines {
		current, _, err := a.resolveAgainst(cat, cl)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("line %d", i), err)
		}

		priced, err := a.pricer.Price(current)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		out = append(out, priced.Line)
	}
	return out, nil
}

// resolveAgainst replaces every price of cl with the catalog's and reports
// which prices differed from what the client had.
func (a *OrderAssembler) resolveAgainst(cat *menu.Catalog, cl CartLine) (CartLine, []Change, error) {
	item, err := cat.Item(cl.MenuItemID)
	if err != nil {
		return CartLine{}, nil, err
	}

	unitPrice, err := item.UnitPrice(cl.Size)
	if err != nil {
		return CartLine{}, nil, err
	}

	var changes []Change
	if cl.UnitPrice.IsSet() && !cl.UnitPrice.Decimal().Equal(unitPrice) {
		changes = append(changes, PriceChanged)
	}

	current := CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Size:       strings.TrimSpace(cl.Size),
		UnitPrice:  Price(unitPrice),
		Quantity:   cl.Quantity,
		Options:    make([]CartOption, 0, len(cl.Options)),
	}

	optionChanged := false
	for _, co := range cl.Options {
		mo, err := item.Option(co.ID)
		if err != nil {
			return CartLine{}, nil, err
		}
		scope := order.PerUnit
		if mo.PerLine {
			scope = order.PerLine
		}
		// The catalog decides how an option is charged. A client that
		// priced it on another basis saw a different charge.
		if co.UnitPrice.IsSet() && !co.UnitPrice.Decimal().Equal(mo.Price) ||
			co.Scope != nil && *co.Scope != scope {
			optionChanged = true
		}

		current.Options = append(current.Options, CartOption{
			ID:        mo.ID,
			Name:      mo.Name,
			UnitPrice: Price(mo.Price),
			Quantity:  co.Quantity,
			Scope:     &scope,
		})
	}
	if optionChanged {
		changes = append(changes, OptionPriceChanged)
	}

	return current, changes, nil
}

func validateCustomerRequest(c CustomerRequest) error {
	var problems []error
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer name"))
	}
	if strings.TrimSpace(c.Phone) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer phone"))
	}
	if strings.TrimSpace(c.Address) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customer address"))
	}
	return errors.Join(problems...)
}
