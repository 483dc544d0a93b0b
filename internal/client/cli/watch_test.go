package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"ordering/internal/client/localstore"
	"ordering/internal/client/reconcile"
	"ordering/internal/client/remote"
	"ordering/internal/pkg/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderSource struct{ mock.Mock }

func (m *MockOrderSource) GetOrder(ctx context.Context, id string) (wire.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(wire.Order), args.Error(1)
}

func (m *MockOrderSource) Subscribe(ctx context.Context, handle func(wire.Event), bad func(error)) error {
	args := m.Called(ctx, handle, bad)
	return args.Error(0)
}

func newTrackedSet(t *testing.T, orders ...wire.Order) *reconcile.OrderReconciler {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	r := reconcile.NewOrderReconciler(store)
	for i := len(orders) - 1; i >= 0; i-- {
		require.NoError(t, r.Track(t.Context(), orders[i]))
	}
	return r
}

type cancelWriter struct{ cancel context.CancelFunc }

func (w cancelWriter) Write(p []byte) (int, error) {
	w.cancel()
	return len(p), nil
}

func newTestWatcher(source OrderSource, orders *reconcile.OrderReconciler, out *bytes.Buffer) *Watcher {
	return NewWatcher(source, orders, WatchConfig{Out: out}, slog.New(slog.DiscardHandler))
}

func TestWatcher_HandleEvent(t *testing.T) {
	orders := newTrackedSet(t, wire.Order{ID: "o-1", Status: "pending", Version: 1})
	var out bytes.Buffer
	w := newTestWatcher(&MockOrderSource{}, orders, &out)

	// someone else's order
	err := w.HandleEvent(t.Context(), wire.Event{Type: wire.EventNewOrder, Order: wire.Order{ID: "o-2", Status: "pending", Version: 1}})
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Equal(t, []string{"o-1"}, orders.Keys())

	err = w.HandleEvent(t.Context(), wire.Event{
		Type:   wire.EventStatusUpdate,
		Order:  wire.Order{ID: "o-1", Status: "accepted", Version: 2},
		Notice: "ready in 20 minutes",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_status_update order o-1 is accepted: ready in 20 minutes\n", out.String())
	assert.Equal(t, "accepted", orders.Active()[0].Status)

	// replay of the same version prints nothing
	out.Reset()
	err = w.HandleEvent(t.Context(), wire.Event{Type: wire.EventStatusUpdate, Order: wire.Order{ID: "o-1", Status: "accepted", Version: 2}})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestWatcher_PollOnce(t *testing.T) {
	orders := newTrackedSet(t,
		wire.Order{ID: "o-1", Status: "pending", Version: 1},
		wire.Order{ID: "o-2", Status: "pending", Version: 1},
		wire.Order{ID: "o-3", Status: "pending", Version: 1},
	)
	source := &MockOrderSource{}
	source.On("GetOrder", mock.Anything, "o-1").Return(wire.Order{ID: "o-1", Status: "declined", Version: 2}, nil)
	source.On("GetOrder", mock.Anything, "o-2").Return(wire.Order{}, &remote.APIError{Status: 404})
	source.On("GetOrder", mock.Anything, "o-3").Return(wire.Order{}, &remote.APIError{Status: 503})

	var out bytes.Buffer
	err := newTestWatcher(source, orders, &out).PollOnce(t.Context())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll order o-3")
	assert.NotContains(t, err.Error(), "o-2")
	assert.Equal(t, []string{"o-2", "o-3"}, orders.Keys())
	assert.Contains(t, out.String(), "order o-1 is declined")
	source.AssertExpectations(t)
}

func TestWatcher_RunAppliesPushedEvents(t *testing.T) {
	orders := newTrackedSet(t, wire.Order{ID: "o-1", Status: "pending", Version: 1})
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	source := &MockOrderSource{}
	source.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			handle := args.Get(1).(func(wire.Event))
			handle(wire.Event{Type: wire.EventStatusUpdate, Order: wire.Order{ID: "o-1", Status: "preparing", Version: 2}})
			cancel()
		}).
		Return(nil).Once()

	var out bytes.Buffer
	err := newTestWatcher(source, orders, &out).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, "preparing", orders.Active()[0].Status)
	source.AssertExpectations(t)
}

func TestWatcher_RunPollsAfterDisconnect(t *testing.T) {
	orders := newTrackedSet(t, wire.Order{ID: "o-1", Status: "pending", Version: 1})
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	source := &MockOrderSource{}
	source.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()
	source.On("GetOrder", mock.Anything, "o-1").
		Return(wire.Order{ID: "o-1", Status: "ready", Version: 4}, nil).Once()

	// stop once the polled update has been saved and printed
	out := cancelWriter{cancel: cancel}
	w := NewWatcher(source, orders, WatchConfig{Out: out}, slog.New(slog.DiscardHandler))
	err := w.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, "ready", orders.Active()[0].Status)
	source.AssertExpectations(t)
}

func TestWatcher_RunRejectsBadSchedule(t *testing.T) {
	orders := newTrackedSet(t)
	w := NewWatcher(&MockOrderSource{}, orders, WatchConfig{PollSchedule: "whenever"}, slog.New(slog.DiscardHandler))

	err := w.Run(t.Context())

	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
