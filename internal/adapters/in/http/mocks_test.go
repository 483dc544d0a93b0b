package http_test

import (
	"context"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"

	"github.com/stretchr/testify/mock"
)

type MockPlaceTableOrderHandler struct{ mock.Mock }

func (m *MockPlaceTableOrderHandler) Handle(ctx context.Context, cmd commands.PlaceTableOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockPlaceDeliveryOrderHandler struct{ mock.Mock }

func (m *MockPlaceDeliveryOrderHandler) Handle(ctx context.Context, cmd commands.PlaceDeliveryOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockUpdateOrderStatusHandler struct{ mock.Mock }

func (m *MockUpdateOrderStatusHandler) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockRepriceOrderHandler struct{ mock.Mock }

func (m *MockRepriceOrderHandler) Handle(ctx context.Context, query queries.RepriceOrderQuery) (services.RepriceResult, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).(services.RepriceResult)
	return r, args.Error(1)
}

type MockGetOrdersHandler struct{ mock.Mock }

func (m *MockGetOrdersHandler) Handle(ctx context.Context, query queries.GetOrdersQuery) (*queries.GetOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).(*queries.GetOrdersQueryResponse)
	return r, args.Error(1)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	args := m.Called(ctx, query)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}
