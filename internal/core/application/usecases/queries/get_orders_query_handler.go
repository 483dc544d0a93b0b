package queries

import (
	"context"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// GetOrdersQueryHandler pages through orders.
type GetOrdersQueryHandler struct {
	reader ports.OrderReader
}

func NewGetOrdersQueryHandler(reader ports.OrderReader) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{reader: reader}
}

// Handle loads the requested page, every order with its lines.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) (*GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	page, err := h.reader.List(ctx, query.Filter())
	if err != nil {
		return nil, err
	}

	orders := page.Orders
	if orders == nil {
		orders = []*order.Order{}
	}

	return &GetOrdersQueryResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       query.page,
			Limit:      query.limit,
			Total:      page.Total,
			TotalPages: int((page.Total + int64(query.limit) - 1) / int64(query.limit)),
		},
	}, nil
}
