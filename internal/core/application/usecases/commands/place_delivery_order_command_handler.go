package commands

import (
	"context"

	"ordering/internal/core/domain/model/order"
)

// PlaceDeliveryOrderCommandHandler prices a delivery cart, resolves the
// delivery fee from the customer's address and stores the pending order.
// Geocoding and zone failures abort before the unit of work is opened.
type PlaceDeliveryOrderCommandHandler struct {
	assembler  DeliveryAssembler
	uowFactory OrderUoWFactory
}

func NewPlaceDeliveryOrderCommandHandler(assembler DeliveryAssembler, uowFactory OrderUoWFactory) PlaceDeliveryOrderCommandHandler {
	return PlaceDeliveryOrderCommandHandler{
		assembler:  assembler,
		uowFactory: uowFactory,
	}
}

func (h PlaceDeliveryOrderCommandHandler) Handle(ctx context.Context, cmd PlaceDeliveryOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	placed, err := h.assembler.AssembleDelivery(ctx, cmd.Request())
	if err != nil {
		return nil, err
	}

	if err = persistNew(ctx, h.uowFactory, placed); err != nil {
		return nil, err
	}

	return placed, nil
}
