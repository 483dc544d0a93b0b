package cli

import (
	"context"

	"ordering/internal/client/localstore"
	"ordering/internal/client/reconcile"
	"ordering/internal/client/remote"
)

// session is the state every subcommand works on: the local store, the
// active set loaded from it and a client for the service.
type session struct {
	store  *localstore.Store
	orders *reconcile.OrderReconciler
	client *remote.Client
}

func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	client, err := remote.New(opts.Server, opts.Timeout)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --server", err)
	}

	store, err := localstore.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open local store", err)
	}

	orders := reconcile.NewOrderReconciler(store)
	if err = orders.Load(ctx); err != nil {
		_ = store.Close()
		return nil, WrapExitError(ExitCommandError, "load tracked orders", err)
	}

	return &session{store: store, orders: orders, client: client}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}
