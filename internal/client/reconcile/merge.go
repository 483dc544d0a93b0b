// Package reconcile keeps a client's set of active orders in step with what
// the server reports, whether an update arrives pushed over the event
// channel, polled, or from a local placement.
package reconcile

import "slices"

// Policy tells Merge how to read an item.
type Policy[T any, K comparable] struct {
	// Key identifies an item across updates.
	Key func(T) K
	// Trackable reports whether an item belongs in the active set at all.
	Trackable func(T) bool
	// Version orders updates of one item. Nil disables the staleness check.
	Version func(T) int64
}

// Merge folds update into set and returns the new set; set is not modified.
//
// Rules:
//   - any held entry with the update's key is removed
//   - a trackable update is then inserted at the front, newest first
//   - an untrackable update only removes
//   - an update older than the held entry is ignored and the held entry
//     keeps its place
//
// Merging the same update twice gives the same set as merging it once.
func Merge[T any, K comparable](set []T, update T, p Policy[T, K]) []T {
	key := p.Key(update)
	held := slices.IndexFunc(set, func(item T) bool { return p.Key(item) == key })

	if held >= 0 && p.Version != nil && p.Version(update) < p.Version(set[held]) {
		return slices.Clone(set)
	}

	out := make([]T, 0, len(set)+1)
	if p.Trackable(update) {
		out = append(out, update)
	}
	for i, item := range set {
		if i == held {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Remove returns set without the entry keyed by key.
func Remove[T any, K comparable](set []T, key K, keyOf func(T) K) []T {
	return slices.DeleteFunc(slices.Clone(set), func(item T) bool { return keyOf(item) == key })
}

// Contains reports whether set holds an entry keyed by key.
func Contains[T any, K comparable](set []T, key K, keyOf func(T) K) bool {
	return slices.ContainsFunc(set, func(item T) bool { return keyOf(item) == key })
}
