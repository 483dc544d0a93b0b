// Package metrics exposes Prometheus counters for order flow, event
// delivery and HTTP latency.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ordering"

// Collector owns a private registry so tests and multiple servers in one
// process never collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	ordersPlaced     *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec
	requestDurations *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders committed, by fulfillment type.",
		}, []string{"type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Committed status transitions.",
		}, []string{"from", "to"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Lifecycle events handed to the event channel.",
		}, []string{"type"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Lifecycle events that were not delivered.",
		}, []string{"reason"}),
		requestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	c.registry.MustRegister(
		c.ordersPlaced,
		c.transitions,
		c.eventsPublished,
		c.eventsDropped,
		c.requestDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// EventPublished implements broadcast.Observer.
func (c *Collector) EventPublished(eventType string) {
	c.eventsPublished.WithLabelValues(eventType).Inc()
}

// EventDropped implements broadcast.Observer.
func (c *Collector) EventDropped(reason string) {
	c.eventsDropped.WithLabelValues(reason).Inc()
}

// Middleware records the latency of every request under its route pattern.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			started := time.Now()
			if err := next(ctx); err != nil {
				// render now so the recorded status is the one sent
				ctx.Error(err)
			}

			status := ctx.Response().Status
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			c.requestDurations.
				WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(started).Seconds())
			return nil
		}
	}
}

// InstrumentPublisher counts committed orders and transitions on their way
// to next.
func (c *Collector) InstrumentPublisher(next ports.EventPublisher) ports.EventPublisher {
	return countingPublisher{collector: c, next: next}
}

type countingPublisher struct {
	collector *Collector
	next      ports.EventPublisher
}

func (p countingPublisher) Publish(ctx context.Context, e order.Event) {
	switch e.Kind {
	case order.Placed:
		if e.Order != nil {
			p.collector.ordersPlaced.WithLabelValues(e.Order.Type().String()).Inc()
		}
	case order.StatusChanged:
		p.collector.transitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
	}
	p.next.Publish(ctx, e)
}
