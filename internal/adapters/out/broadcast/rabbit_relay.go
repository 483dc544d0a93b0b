package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "order_events"

	minRelayBackoff = 500 * time.Millisecond
	maxRelayBackoff = 30 * time.Second
)

// ErrRelayClosed is returned once Close has been called.
var ErrRelayClosed = errors.New("rabbit relay closed")

// RabbitRelay shares events between server instances through a fanout
// exchange. Messages are transient and published without confirms; each
// instance reads them back through its own exclusive, auto-deleted queue
// and hands them to a local Sink, usually the Hub.
//
// A dropped connection is redialed on the next Deliver and by Consume, so a
// broker restart loses the events sent while it was away and nothing more.
type RabbitRelay struct {
	url      string
	exchange string
	local    Sink
	logger   *slog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	pub    *amqp.Channel
	closed bool
}

// DialRabbitRelay connects to url and declares the exchange.
func DialRabbitRelay(url, exchange string, local Sink, logger *slog.Logger) (*RabbitRelay, error) {
	if local == nil {
		return nil, errors.New("rabbit relay needs a local sink")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &RabbitRelay{
		url:      url,
		exchange: exchange,
		local:    local,
		logger:   logger.With("component", "rabbit_relay", "exchange", exchange),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.connectLocked(); err != nil {
		r.closeLocked()
		return nil, err
	}
	return r, nil
}

// connectLocked redials the connection and reopens the publishing channel
// when either is gone; mu must be held.
func (r *RabbitRelay) connectLocked() error {
	if r.closed {
		return ErrRelayClosed
	}

	if r.conn == nil || r.conn.IsClosed() {
		conn, err := amqp.Dial(r.url)
		if err != nil {
			return fmt.Errorf("dial rabbitmq: %w", err)
		}
		r.conn = conn
		r.pub = nil
	}

	if r.pub == nil || r.pub.IsClosed() {
		pub, err := r.conn.Channel()
		if err != nil {
			return fmt.Errorf("open channel: %w", err)
		}
		// Non-durable: events only matter to replicas connected right now.
		if err = pub.ExchangeDeclare(r.exchange, amqp.ExchangeFanout, false, false, false, false, nil); err != nil {
			_ = pub.Close()
			return fmt.Errorf("declare exchange %s: %w", r.exchange, err)
		}
		r.pub = pub
	}
	return nil
}

// Deliver implements Sink by publishing to the exchange. A publish on a
// channel that closed since the last call is retried once on a fresh one.
func (r *RabbitRelay) Deliver(ctx context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := amqp.Publishing{
		DeliveryMode: amqp.Transient,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         data,
	}

	if err := r.connectLocked(); err != nil {
		return err
	}
	err := r.pub.PublishWithContext(ctx, r.exchange, "", false, false, msg)
	if !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	r.logger.WarnContext(ctx, "publish channel closed, reconnecting")
	r.pub = nil
	if err = r.connectLocked(); err != nil {
		return err
	}
	return r.pub.PublishWithContext(ctx, r.exchange, "", false, false, msg)
}

// Consume forwards every message from the exchange to the local sink until
// ctx is done or the relay is closed. A lost connection or channel is
// redialed with exponential backoff and a new queue is bound. ready, when
// non-nil, is closed once the first queue is bound.
func (r *RabbitRelay) Consume(ctx context.Context, ready chan<- struct{}) error {
	backoff := minRelayBackoff
	for {
		bound, err := r.consumeOnce(ctx, ready)
		if bound {
			ready = nil
			backoff = minRelayBackoff
		}
		if ctx.Err() != nil || errors.Is(err, ErrRelayClosed) || r.isClosed() {
			return nil
		}

		r.logger.WarnContext(ctx, "relay consumer lost", "error", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxRelayBackoff)
	}
}

// consumeOnce runs one consumer on its own channel. It reports whether the
// queue was bound before the consumer stopped.
func (r *RabbitRelay) consumeOnce(ctx context.Context, ready chan<- struct{}) (bool, error) {
	ch, err := r.channel()
	if err != nil {
		return false, err
	}
	defer ch.Close()

	closed := ch.NotifyClose(make(chan *amqp.Error, 1))

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return false, fmt.Errorf("declare queue: %w", err)
	}
	if err = ch.QueueBind(q.Name, "", r.exchange, false, nil); err != nil {
		return false, fmt.Errorf("bind queue %s: %w", q.Name, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return false, fmt.Errorf("consume %s: %w", q.Name, err)
	}
	if ready != nil {
		close(ready)
	}
	r.logger.InfoContext(ctx, "relay consuming", "queue", q.Name)

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case amqpErr := <-closed:
			if amqpErr != nil {
				return true, fmt.Errorf("channel closed: %w", amqpErr)
			}
			return true, errors.New("channel closed")
		case d, ok := <-deliveries:
			if !ok {
				return true, errors.New("rabbitmq delivery channel closed")
			}
			if err := r.local.Deliver(ctx, d.Body); err != nil {
				r.logger.WarnContext(ctx, "local delivery failed", "error", err)
			}
		}
	}
}

// channel opens a consumer channel on a live connection.
func (r *RabbitRelay) channel() (*amqp.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.connectLocked(); err != nil {
		return nil, err
	}
	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

func (r *RabbitRelay) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close shuts the connection down and stops Consume.
func (r *RabbitRelay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *RabbitRelay) closeLocked() error {
	r.closed = true

	var errPub, errConn error
	if r.pub != nil && !r.pub.IsClosed() {
		errPub = r.pub.Close()
	}
	if r.conn != nil && !r.conn.IsClosed() {
		errConn = r.conn.Close()
	}
	r.pub, r.conn = nil, nil
	return errors.Join(errPub, errConn)
}
