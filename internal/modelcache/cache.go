package modelcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/observability"
)

// DefaultTTL is how long a preferred model stays valid.
const DefaultTTL = 12 * time.Hour

// Key returns the fixed cache key of a vendor, e.g. "gemini_preferred_model".
func Key(vendor domain.VendorID) string {
	return string(vendor) + "_preferred_model"
}

// Cache implements domain.ModelCache over a Store. Entries older than the TTL
// are treated as absent and removed on read. Store failures are logged and
// reported as misses.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// New creates a model cache over store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live cached model of vendor.
func (c *Cache) Get(ctx context.Context, vendor domain.VendorID) (string, bool) {
	entry, ok := c.Entry(ctx, vendor)
	if !ok {
		return "", false
	}
	return entry.Model, true
}

// Entry returns the live cached entry of vendor.
func (c *Cache) Entry(ctx context.Context, vendor domain.VendorID) (domain.CachedModel, bool) {
	logger := observability.FromContext(ctx)
	key := Key(vendor)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn("model cache read failed", observability.String("key", key), observability.Error(err))
		return domain.CachedModel{}, false
	}
	if !ok {
		return domain.CachedModel{}, false
	}

	var entry domain.CachedModel
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Model == "" {
		logger.Warn("discarding malformed model cache entry", observability.String("key", key))
		c.delete(ctx, key)
		return domain.CachedModel{}, false
	}

	if c.now().Sub(entry.CachedAt()) > c.ttl {
		c.delete(ctx, key)
		return domain.CachedModel{}, false
	}

	return entry, true
}

// Set records model as the preferred model of vendor.
func (c *Cache) Set(ctx context.Context, vendor domain.VendorID, model string) {
	if model == "" {
		return
	}

	raw, err := json.Marshal(domain.CachedModel{
		Model:     model,
		Timestamp: c.now().UnixMilli(),
	})
	if err != nil {
		return
	}

	if err := c.store.Set(ctx, Key(vendor), raw); err != nil {
		observability.FromContext(ctx).Warn("model cache write failed",
			observability.String("key", Key(vendor)), observability.Error(err))
	}
}

// Invalidate removes the cached model of vendor.
func (c *Cache) Invalidate(ctx context.Context, vendor domain.VendorID) {
	c.delete(ctx, Key(vendor))
}

func (c *Cache) delete(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		observability.FromContext(ctx).Warn("model cache delete failed",
			observability.String("key", key), observability.Error(err))
	}
}
