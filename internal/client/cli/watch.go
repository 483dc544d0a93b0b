package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"ordering/internal/client/reconcile"
	"ordering/internal/client/remote"
	"ordering/internal/pkg/wire"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const (
	DefaultPollSchedule = "@every 30s"
	minBackoff          = time.Second
	DefaultMaxBackoff   = 30 * time.Second
)

// OrderSource is the part of the service a Watcher reads from.
type OrderSource interface {
	GetOrder(ctx context.Context, id string) (wire.Order, error)
	Subscribe(ctx context.Context, handle func(wire.Event), bad func(error)) error
}

// Watcher keeps the active set current. Pushed events are applied as they
// arrive; a cron poll refetches every tracked order in case an event was
// missed while the channel was down.
type Watcher struct {
	source       OrderSource
	orders       *reconcile.OrderReconciler
	out          printer
	pollSchedule string
	maxBackoff   time.Duration
	logger       *slog.Logger
}

// WatchConfig tunes a Watcher. Zero values pick the defaults.
type WatchConfig struct {
	PollSchedule string
	MaxBackoff   time.Duration
	Format       string
	Out          io.Writer
}

func NewWatcher(source OrderSource, orders *reconcile.OrderReconciler, cfg WatchConfig, logger *slog.Logger) *Watcher {
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = DefaultPollSchedule
	}
	if cfg.MaxBackoff < minBackoff {
		cfg.MaxBackoff = DefaultMaxBackoff
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	return &Watcher{
		source:       source,
		orders:       orders,
		out:          printer{format: cfg.Format, w: cfg.Out},
		pollSchedule: cfg.PollSchedule,
		maxBackoff:   cfg.MaxBackoff,
		logger:       logger.With("component", "watcher"),
	}
}

// HandleEvent applies one event and prints it when it changed a tracked order.
func (w *Watcher) HandleEvent(ctx context.Context, ev wire.Event) error {
	changed, err := reconcile.ApplyEvent(ctx, w.orders, ev)
	if err != nil {
		return err
	}
	if !changed {
		w.logger.DebugContext(ctx, "event ignored", "type", ev.Type, "order_id", ev.Order.ID)
		return nil
	}
	return w.out.event(ev)
}

// PollOnce refetches every tracked order. Orders the server reports as
// unknown are left alone; other failures are joined into the result.
func (w *Watcher) PollOnce(ctx context.Context) error {
	var failures []error
	for _, id := range w.orders.Keys() {
		o, err := w.source.GetOrder(ctx, id)
		if errors.Is(err, remote.ErrNotFound) {
			w.logger.WarnContext(ctx, "tracked order unknown to server", "order_id", id)
			continue
		}
		if err != nil {
			failures = append(failures, fmt.Errorf("poll order %s: %w", id, err))
			continue
		}

		err = w.HandleEvent(ctx, wire.Event{Type: wire.EventStatusUpdate, Order: o})
		if err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

// Run subscribes to the event channel, reconnecting with exponential
// backoff, and polls on the cron schedule until ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	poller := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := poller.AddFunc(w.pollSchedule, func() {
		if err := w.PollOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "poll failed", "error", err)
		}
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid poll schedule", err)
	}
	poller.Start()
	defer func() { <-poller.Stop().Done() }()

	backoff := minBackoff
	for {
		started := time.Now()
		err := w.source.Subscribe(ctx, func(ev wire.Event) {
			if err := w.HandleEvent(ctx, ev); err != nil {
				w.logger.ErrorContext(ctx, "apply event failed", "order_id", ev.Order.ID, "error", err)
			}
		}, func(err error) {
			w.logger.WarnContext(ctx, "malformed event skipped", "error", err)
		})
		if ctx.Err() != nil {
			return nil
		}

		if time.Since(started) > w.maxBackoff {
			backoff = minBackoff
		}
		w.logger.WarnContext(ctx, "event channel lost", "error", err, "retry_in", backoff)

		// catch up on what was missed before waiting
		if err := w.PollOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, w.maxBackoff)
	}
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var pollSchedule string
	var maxBackoff time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow tracked orders until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			logger := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)
			w := NewWatcher(s.client, s.orders, WatchConfig{
				PollSchedule: pollSchedule,
				MaxBackoff:   maxBackoff,
				Format:       rootOpts.Format,
				Out:          cmd.OutOrStdout(),
			}, logger)

			logger.Info("watching", "server", rootOpts.Server, "tracked", len(s.orders.Keys()))
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&pollSchedule, "poll", DefaultPollSchedule, "cron schedule for polling tracked orders")
	cmd.Flags().DurationVar(&maxBackoff, "max-backoff", DefaultMaxBackoff, "longest wait between reconnect attempts")

	return cmd
}
