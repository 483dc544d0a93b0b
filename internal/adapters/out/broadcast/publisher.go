package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/wire"
)

const DefaultPublisherBuffer = 256

type envelope struct {
	eventType wire.EventType
	orderID   string
	data      []byte
}

// Publisher implements ports.EventPublisher. Publish snapshots the order into
// its wire form immediately and hands it to a background goroutine, so a
// slow sink never delays the request that committed.
type Publisher struct {
	sink     Sink
	notices  *wire.Notifier
	observer Observer
	logger   *slog.Logger

	queue chan envelope

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewPublisher creates a publisher that delivers to sink once Run is
// started. notices may be nil.
func NewPublisher(sink Sink, notices *wire.Notifier, buffer int, observer Observer, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = DefaultPublisherBuffer
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sink:     sink,
		notices:  notices,
		observer: observer,
		logger:   logger.With("component", "event_publisher"),
		queue:    make(chan envelope, buffer),
		done:     make(chan struct{}),
	}
}

// Publish enqueues the event. It drops the event when the buffer is full or
// the publisher is closed.
func (p *Publisher) Publish(ctx context.Context, e order.Event) {
	ev, err := wire.NewEvent(e, p.notices)
	if err != nil {
		p.logger.ErrorContext(ctx, "cannot encode event", "error", err, "kind", e.Kind.String())
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.ErrorContext(ctx, "cannot marshal event", "error", err, "order_id", ev.Order.ID)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.observer.EventDropped(DropPublisherFull)
		return
	}

	select {
	case p.queue <- envelope{eventType: ev.Type, orderID: ev.Order.ID, data: data}:
	default:
		p.observer.EventDropped(DropPublisherFull)
		p.logger.WarnContext(ctx, "event dropped, publisher buffer full",
			"order_id", ev.Order.ID, "type", string(ev.Type))
	}
}

// Run delivers queued events until ctx is done or Close is called, then
// returns after the remaining queue is drained.
func (p *Publisher) Run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case env, ok := <-p.queue:
			if !ok {
				return
			}
			p.deliver(ctx, env)
		case <-ctx.Done():
			p.Close()
			for env := range p.queue {
				p.deliver(context.WithoutCancel(ctx), env)
			}
			return
		}
	}
}

// Close stops accepting events. It is safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
}

// Done is closed when Run has returned.
func (p *Publisher) Done() <-chan struct{} {
	return p.done
}

func (p *Publisher) deliver(ctx context.Context, env envelope) {
	if err := p.sink.Deliver(ctx, env.data); err != nil {
		p.observer.EventDropped(DropSinkFailed)
		p.logger.WarnContext(ctx, "event delivery failed",
			"error", err, "order_id", env.orderID, "type", string(env.eventType))
		return
	}
	p.observer.EventPublished(string(env.eventType))
}
