package commands

import (
	"context"

	"ordering/internal/core/domain/model/order"
)

// PlaceTableOrderCommandHandler prices a table cart against the catalog and
// stores the resulting pending order.
type PlaceTableOrderCommandHandler struct {
	assembler  TableAssembler
	uowFactory OrderUoWFactory
}

func NewPlaceTableOrderCommandHandler(assembler TableAssembler, uowFactory OrderUoWFactory) PlaceTableOrderCommandHandler {
	return PlaceTableOrderCommandHandler{
		assembler:  assembler,
		uowFactory: uowFactory,
	}
}

// Handle returns the stored order. Nothing is written when pricing fails.
func (h PlaceTableOrderCommandHandler) Handle(ctx context.Context, cmd PlaceTableOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	placed, err := h.assembler.AssembleTable(ctx, cmd.Request())
	if err != nil {
		return nil, err
	}

	if err = persistNew(ctx, h.uowFactory, placed); err != nil {
		return nil, err
	}

	return placed, nil
}
