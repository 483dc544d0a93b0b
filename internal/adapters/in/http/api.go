package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ordering/internal/pkg/wire"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// Error codes returned in Error.Code.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeOutOfServiceArea = "out_of_service_area"
	CodeAddressNotFound  = "address_not_found"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeUnavailable      = "temporarily_unavailable"
	CodeInternal         = "internal_error"
)

// Price is an amount as sent by a client: a JSON number or a numeric string.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*p = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*p = Price(str)
	default:
		*p = Price(s)
	}
	return nil
}

type CartOption struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	UnitPrice Price            `json:"unitPrice,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	Scope     string           `json:"scope,omitempty"`
}

type CartLine struct {
	MenuItemID string       `json:"menuItemId"`
	Name       string       `json:"name,omitempty"`
	Size       string       `json:"size,omitempty"`
	UnitPrice  Price        `json:"unitPrice,omitempty"`
	Quantity   int          `json:"quantity"`
	Options    []CartOption `json:"options,omitempty"`
}

type TableOrderRequest struct {
	TableID      string     `json:"tableId"`
	Lines        []CartLine `json:"lines"`
	Notes        string     `json:"notes,omitempty"`
	PaymentLabel string     `json:"paymentLabel,omitempty"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type DeliveryOrderRequest struct {
	Customer     CustomerRequest `json:"customer"`
	Lines        []CartLine      `json:"lines"`
	Notes        string          `json:"notes,omitempty"`
	PaymentLabel string          `json:"paymentLabel,omitempty"`
}

type RepriceRequest struct {
	Lines []CartLine `json:"lines"`
}

// RepricedLine is a cart line at current catalog prices. Changes lists what
// differed from the submitted line; removed and unavailable lines keep the
// submitted values and a zero total.
type RepricedLine struct {
	Line      CartLine `json:"line"`
	Changes   []string `json:"changes"`
	LineTotal string   `json:"lineTotal"`
}

type RepriceResponse struct {
	Lines []RepricedLine `json:"lines"`
	Total string         `json:"total"`
}

type StatusUpdateRequest struct {
	Status          string `json:"status"`
	WaitTimeMinutes *int   `json:"waitTimeMinutes,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type OrderList struct {
	Orders     []wire.Order `json:"orders"`
	Pagination Pagination   `json:"pagination"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetOrdersParams are the query parameters of GET /api/v1/orders.
type GetOrdersParams struct {
	From   *time.Time
	To     *time.Time
	Status *string
	Type   *string
	Page   *int
	Limit  *int
	Sort   *string
	Order  *string
}

// ServerInterface is implemented by Server; one method per operation.
type ServerInterface interface {
	// POST /api/v1/orders/table
	PlaceOrder(ctx echo.Context) error
	// POST /api/v1/orders/delivery
	PlaceDeliveryOrder(ctx echo.Context) error
	// POST /api/v1/orders/reprice
	RepriceOrder(ctx echo.Context) error
	// PUT /api/v1/orders/{id}/status
	UpdateOrderStatus(ctx echo.Context, id uuid.UUID) error
	// GET /api/v1/orders
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// GET /api/v1/orders/{id}
	GetOrder(ctx echo.Context, id uuid.UUID) error
}

// ServerInterfaceWrapper binds path and query parameters before calling
// the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) PlaceOrder(ctx echo.Context) error {
	return w.Handler.PlaceOrder(ctx)
}

func (w *ServerInterfaceWrapper) PlaceDeliveryOrder(ctx echo.Context) error {
	return w.Handler.PlaceDeliveryOrder(ctx)
}

func (w *ServerInterfaceWrapper) RepriceOrder(ctx echo.Context) error {
	return w.Handler.RepriceOrder(ctx)
}

func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UpdateOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var params GetOrdersParams
	query := ctx.QueryParams()

	bindings := []struct {
		name string
		dest any
	}{
		{"from", &params.From},
		{"to", &params.To},
		{"status", &params.Status},
		{"type", &params.Type},
		{"page", &params.Page},
		{"limit", &params.Limit},
		{"sort", &params.Sort},
		{"order", &params.Order},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", b.name, err))
		}
	}

	return w.Handler.GetOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func bindOrderID(ctx echo.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation of si on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL mounts every operation of si under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/orders/table", wrapper.PlaceOrder)
	router.POST(baseURL+"/api/v1/orders/delivery", wrapper.PlaceDeliveryOrder)
	router.POST(baseURL+"/api/v1/orders/reprice", wrapper.RepriceOrder)
	router.PUT(baseURL+"/api/v1/orders/:id/status", wrapper.UpdateOrderStatus)
	router.GET(baseURL+"/api/v1/orders", wrapper.GetOrders)
	router.GET(baseURL+"/api/v1/orders/:id", wrapper.GetOrder)
}
