package queries

import (
	"context"

	"ordering/internal/core/domain/services"
)

// Repricer is implemented by services.OrderAssembler.
type Repricer interface {
	Reprice(ctx context.Context, lines []services.CartLine) (services.RepriceResult, error)
}

type RepriceOrderQueryHandler struct {
	repricer Repricer
}

func NewRepriceOrderQueryHandler(repricer Repricer) RepriceOrderQueryHandler {
	return RepriceOrderQueryHandler{repricer: repricer}
}

func (h RepriceOrderQueryHandler) Handle(ctx context.Context, query RepriceOrderQuery) (services.RepriceResult, error) {
	if err := query.Validate(); err != nil {
		return services.RepriceResult{}, err
	}
	return h.repricer.Reprice(ctx, query.lines)
}
