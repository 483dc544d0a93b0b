// Package catalogcache keeps the current menu snapshot in memory and reloads
// it from the store once it is older than a TTL.
package catalogcache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ordering/internal/core/domain/model/menu"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/clock"
)

var ErrNoSource = errors.New("catalog cache needs a source")

// Cache implements ports.Catalog on top of a ports.CatalogSource.
//
// Thread-safety: all methods are safe for concurrent use. Concurrent callers
// that find the snapshot expired share a single load.
type Cache struct {
	source ports.CatalogSource
	clock  clock.Clock
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *menu.Catalog
	expires  time.Time

	loadMu sync.Mutex
}

// New creates an empty cache. A non-positive ttl makes every call reload.
func New(source ports.CatalogSource, clk clock.Clock, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		source: source,
		clock:  clk,
		ttl:    ttl,
		logger: logger.With("component", "catalog_cache"),
	}, nil
}

// Current returns a fresh snapshot, loading one if needed. When the reload
// fails but an older snapshot exists, the older snapshot is served and the
// failure is logged.
func (c *Cache) Current(ctx context.Context) (*menu.Catalog, error) {
	if snap, ok := c.fresh(); ok {
		return snap, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if snap, ok := c.fresh(); ok {
		return snap, nil
	}

	snap, err := c.load(ctx)
	if err == nil {
		return snap, nil
	}

	c.mu.RLock()
	stale := c.snapshot
	c.mu.RUnlock()
	if stale == nil {
		return nil, err
	}

	c.logger.WarnContext(ctx, "serving stale catalog", "error", err, "loaded_at", stale.LoadedAt())
	return stale, nil
}

// Refresh reloads the snapshot regardless of its age.
func (c *Cache) Refresh(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	_, err := c.load(ctx)
	return err
}

// Invalidate forces the next Current call to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires = time.Time{}
}

func (c *Cache) fresh() (*menu.Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || !c.clock.Now().Before(c.expires) {
		return nil, false
	}
	return c.snapshot, true
}

// load must be called with loadMu held.
func (c *Cache) load(ctx context.Context) (*menu.Catalog, error) {
	snap, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = snap
	c.expires = c.clock.Now().Add(c.ttl)
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "catalog loaded", "items", snap.Len())
	return snap, nil
}
