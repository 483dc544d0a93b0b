package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// Store persists the active set as one value under one key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Reconciler owns an active set and writes it to a Store after every change.
// Push, poll and local triggers may call it from different goroutines.
type Reconciler[T any, K comparable] struct {
	mu     sync.Mutex
	store  Store
	key    string
	policy Policy[T, K]
	active []T
}

// NewReconciler creates an empty reconciler persisting under storeKey.
// Call Load to pick up a previously saved set.
func NewReconciler[T any, K comparable](store Store, storeKey string, policy Policy[T, K]) *Reconciler[T, K] {
	return &Reconciler[T, K]{
		store:  store,
		key:    storeKey,
		policy: policy,
	}
}

// Load replaces the in-memory set with the persisted one. A missing value
// means an empty set.
func (r *Reconciler[T, K]) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return fmt.Errorf("load active set: %w", err)
	}
	if !ok {
		r.active = nil
		return nil
	}

	var set []T
	if err = json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("decode active set: %w", err)
	}
	r.active = set
	return nil
}

// Track merges an item the user just placed or asked to follow.
func (r *Reconciler[T, K]) Track(ctx context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.replace(ctx, Merge(r.active, item, r.policy))
}

// Apply merges a pushed or polled update. Updates for items that are not
// held are ignored, so a replica only follows its own orders. It reports
// whether the set changed.
func (r *Reconciler[T, K]) Apply(ctx context.Context, update T) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !Contains(r.active, r.policy.Key(update), r.policy.Key) {
		return false, nil
	}

	next := Merge(r.active, update, r.policy)
	if r.same(next) {
		return false, nil
	}
	return true, r.replace(ctx, next)
}

// Dismiss stops following the item keyed by key.
func (r *Reconciler[T, K]) Dismiss(ctx context.Context, key K) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !Contains(r.active, key, r.policy.Key) {
		return false, nil
	}
	return true, r.replace(ctx, Remove(r.active, key, r.policy.Key))
}

// Active returns a copy of the set, newest first.
func (r *Reconciler[T, K]) Active() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.active)
}

// Keys returns the keys of the set, newest first.
func (r *Reconciler[T, K]) Keys() []K {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]K, 0, len(r.active))
	for _, item := range r.active {
		keys = append(keys, r.policy.Key(item))
	}
	return keys
}

// replace persists next and only then swaps it in; mu must be held.
func (r *Reconciler[T, K]) replace(ctx context.Context, next []T) error {
	if len(next) == 0 {
		if err := r.store.Delete(ctx, r.key); err != nil {
			return fmt.Errorf("delete active set: %w", err)
		}
		r.active = nil
		return nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode active set: %w", err)
	}
	if err = r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save active set: %w", err)
	}
	r.active = next
	return nil
}

// same reports whether next holds the same entries in the same order at
// the same versions as the current set.
func (r *Reconciler[T, K]) same(next []T) bool {
	if len(next) != len(r.active) {
		return false
	}
	for i := range next {
		if r.policy.Key(next[i]) != r.policy.Key(r.active[i]) {
			return false
		}
		if r.policy.Version != nil && r.policy.Version(next[i]) != r.policy.Version(r.active[i]) {
			return false
		}
	}
	return true
}
