package queries_test

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Find(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) List(ctx context.Context, filter ports.OrderFilter) (ports.OrderPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(ports.OrderPage), args.Error(1)
}
