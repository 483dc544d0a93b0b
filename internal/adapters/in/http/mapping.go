package http

import (
	"fmt"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/wire"
)

func toCartLines(in []CartLine) ([]services.CartLine, error) {
	out := make([]services.CartLine, 0, len(in))
	for i, l := range in {
		options := make([]services.CartOption, 0, len(l.Options))
		for _, o := range l.Options {
			var scope *order.OptionScope
			if o.Scope != "" {
				parsed, err := order.ParseOptionScope(o.Scope)
				if err != nil {
					return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("line %d option %q", i, o.ID), err)
				}
				scope = &parsed
			}
			options = append(options, services.CartOption{
				ID:        o.ID,
				Name:      o.Name,
				UnitPrice: services.PriceValue(o.UnitPrice),
				Quantity:  o.Quantity,
				Scope:     scope,
			})
		}
		out = append(out, services.CartLine{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Size:       l.Size,
			UnitPrice:  services.PriceValue(l.UnitPrice),
			Quantity:   l.Quantity,
			Options:    options,
		})
	}
	return out, nil
}

func fromCartLine(l services.CartLine) CartLine {
	options := make([]CartOption, 0, len(l.Options))
	for _, o := range l.Options {
		opt := CartOption{
			ID:        o.ID,
			Name:      o.Name,
			UnitPrice: Price(o.UnitPrice),
			Quantity:  o.Quantity,
		}
		if o.Scope != nil {
			opt.Scope = o.Scope.String()
		}
		options = append(options, opt)
	}
	return CartLine{
		MenuItemID: l.MenuItemID,
		Name:       l.Name,
		Size:       l.Size,
		UnitPrice:  Price(l.UnitPrice),
		Quantity:   l.Quantity,
		Options:    options,
	}
}

func fromRepriceResult(r services.RepriceResult) RepriceResponse {
	resp := RepriceResponse{
		Lines: make([]RepricedLine, 0, len(r.Lines)),
		Total: wire.Money(r.Total),
	}
	for _, l := range r.Lines {
		changes := make([]string, 0, len(l.Changes))
		for _, c := range l.Changes {
			changes = append(changes, string(c))
		}
		resp.Lines = append(resp.Lines, RepricedLine{
			Line:      fromCartLine(l.Cart),
			Changes:   changes,
			LineTotal: wire.Money(l.LineTotal),
		})
	}
	return resp
}
