package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ordering/internal/adapters/out/metrics"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/order/ordertest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []order.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e order.Event) {
	r.events = append(r.events, e)
}

func TestInstrumentPublisher(t *testing.T) {
	collector := metrics.NewCollector()
	next := &recordingPublisher{}
	publisher := collector.InstrumentPublisher(next)

	o := ordertest.DeliveryOrder(t)
	require.NoError(t, o.Accept(nil, ordertest.PlacedAt.Add(time.Minute)))
	for _, e := range o.DomainEvents() {
		publisher.Publish(t.Context(), e)
	}

	assert.Len(t, next.events, 2)
	expected := `
# HELP ordering_order_transitions_total Committed status transitions.
# TYPE ordering_order_transitions_total counter
ordering_order_transitions_total{from="pending",to="accepted"} 1
# HELP ordering_orders_placed_total Orders committed, by fulfillment type.
# TYPE ordering_orders_placed_total counter
ordering_orders_placed_total{type="delivery"} 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"ordering_orders_placed_total", "ordering_order_transitions_total"))
}

func TestObserverCounters(t *testing.T) {
	collector := metrics.NewCollector()

	collector.EventPublished("new_order")
	collector.EventDropped("client_buffer_full")
	collector.EventDropped("client_buffer_full")

	expected := `
# HELP ordering_events_dropped_total Lifecycle events that were not delivered.
# TYPE ordering_events_dropped_total counter
ordering_events_dropped_total{reason="client_buffer_full"} 2
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"ordering_events_dropped_total"))
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	collector := metrics.NewCollector()
	e := echo.New()
	e.Use(collector.Middleware())
	e.GET("/api/v1/orders/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ordering_http_request_duration_seconds_count{method="GET",route="/api/v1/orders/:id",status="204"} 1`)
}
