package http

import (
	"context"
	"net/http"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	PlaceTableOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceTableOrderCommand) (*order.Order, error)
	}
	PlaceDeliveryOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceDeliveryOrderCommand) (*order.Order, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	RepriceOrderHandler interface {
		Handle(ctx context.Context, query queries.RepriceOrderQuery) (services.RepriceResult, error)
	}
	GetOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetOrdersQuery) (*queries.GetOrdersQueryResponse, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	}
)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	// Command handlers
	placeTableOrderHandler    PlaceTableOrderHandler
	placeDeliveryOrderHandler PlaceDeliveryOrderHandler
	updateOrderStatusHandler  UpdateOrderStatusHandler

	// Query handlers
	repriceOrderHandler RepriceOrderHandler
	getOrdersHandler    GetOrdersHandler
	getOrderHandler     GetOrderHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeTableOrderHandler PlaceTableOrderHandler,
	placeDeliveryOrderHandler PlaceDeliveryOrderHandler,
	updateOrderStatusHandler UpdateOrderStatusHandler,
	repriceOrderHandler RepriceOrderHandler,
	getOrdersHandler GetOrdersHandler,
	getOrderHandler GetOrderHandler,
) *Server {
	return &Server{
		placeTableOrderHandler:    placeTableOrderHandler,
		placeDeliveryOrderHandler: placeDeliveryOrderHandler,
		updateOrderStatusHandler:  updateOrderStatusHandler,
		repriceOrderHandler:       repriceOrderHandler,
		getOrdersHandler:          getOrdersHandler,
		getOrderHandler:           getOrderHandler,
	}
}

// PlaceOrder handles POST /api/v1/orders/table.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body TableOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return invalidBody(err)
	}

	lines, err := toCartLines(body.Lines)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPlaceTableOrderCommand(body.TableID, lines, body.Notes, body.PaymentLabel)
	if err != nil {
		return err
	}

	placed, err := s.placeTableOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, wire.FromOrder(placed))
}

// PlaceDeliveryOrder handles POST /api/v1/orders/delivery.
func (s *Server) PlaceDeliveryOrder(ctx echo.Context) error {
	var body DeliveryOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return invalidBody(err)
	}

	lines, err := toCartLines(body.Lines)
	if err != nil {
		return err
	}

	customer := services.CustomerRequest{
		Name:    body.Customer.Name,
		Phone:   body.Customer.Phone,
		Address: body.Customer.Address,
	}
	cmd, err := commands.NewPlaceDeliveryOrderCommand(customer, lines, body.Notes, body.PaymentLabel)
	if err != nil {
		return err
	}

	placed, err := s.placeDeliveryOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, wire.FromOrder(placed))
}

// RepriceOrder handles POST /api/v1/orders/reprice. Nothing is stored.
func (s *Server) RepriceOrder(ctx echo.Context) error {
	var body RepriceRequest
	if err := ctx.Bind(&body); err != nil {
		return invalidBody(err)
	}

	lines, err := toCartLines(body.Lines)
	if err != nil {
		return err
	}

	query, err := queries.NewRepriceOrderQuery(lines)
	if err != nil {
		return err
	}

	result, err := s.repriceOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, fromRepriceResult(result))
}

// UpdateOrderStatus handles PUT /api/v1/orders/{id}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id uuid.UUID) error {
	var body StatusUpdateRequest
	if err := ctx.Bind(&body); err != nil {
		return invalidBody(err)
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, body.Status, body.WaitTimeMinutes)
	if err != nil {
		return err
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, wire.FromOrder(updated))
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context, params GetOrdersParams) error {
	query, err := queries.NewGetOrdersQuery(queries.GetOrdersParams{
		From:   params.From,
		To:     params.To,
		Status: deref(params.Status),
		Type:   deref(params.Type),
		Page:   deref(params.Page),
		Limit:  deref(params.Limit),
		Sort:   deref(params.Sort),
		Order:  deref(params.Order),
	})
	if err != nil {
		return err
	}

	resp, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	list := OrderList{
		Orders: make([]wire.Order, 0, len(resp.Orders)),
		Pagination: Pagination{
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			Total:      resp.Pagination.Total,
			TotalPages: resp.Pagination.TotalPages,
		},
	}
	for _, o := range resp.Orders {
		list.Orders = append(list.Orders, wire.FromOrder(o))
	}

	return ctx.JSON(http.StatusOK, list)
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id uuid.UUID) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, wire.FromOrder(o))
}

func invalidBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
