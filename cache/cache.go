// Package cache provides the in-memory per-domain selector cache with
// failure-count, LRU, and TTL eviction, plus durable snapshotting hooks.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/newsgrab"
)

// Defaults for cache bounds.
const (
	DefaultMaxEntries = 1000
	DefaultTTL        = 30 * 24 * time.Hour
)

// Ensure Cache implements newsgrab.SelectorCache at compile time.
var _ newsgrab.SelectorCache = (*Cache)(nil)

// Cache is an in-memory selector cache keyed by domain. All operations
// are safe for concurrent use; mutations for the same domain are
// serialized by the cache lock, which is never held across I/O.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*newsgrab.CachedSelector

	maxEntries  int
	maxFailures int
	ttl         time.Duration
	now         func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries bounds the cache size; the least recently validated
// entry is evicted when the bound is exceeded. Defaults to DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(c *Cache) { c.maxEntries = n }
}

// WithMaxFailures sets the consecutive-failure eviction threshold.
// Defaults to newsgrab.DefaultMaxConsecutiveFailures.
func WithMaxFailures(n int) Option {
	return func(c *Cache) { c.maxFailures = n }
}

// WithTTL sets how long an unused entry survives before Purge drops it.
// Defaults to DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:     make(map[string]*newsgrab.CachedSelector),
		maxEntries:  DefaultMaxEntries,
		maxFailures: newsgrab.DefaultMaxConsecutiveFailures,
		ttl:         DefaultTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns a copy of the domain's selector, or nil if absent.
func (c *Cache) Lookup(domain string) *newsgrab.CachedSelector {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[domain]
	if !ok {
		return nil
	}
	cp := *entry
	return &cp
}

// RecordSuccess records a successful extraction using the selector,
// creating the entry on first synthesis success. Resets the consecutive
// failure count and bumps the hit counter.
func (c *Cache) RecordSuccess(domain, expression string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	entry, ok := c.entries[domain]
	if !ok || entry.Expression != expression {
		entry = &newsgrab.CachedSelector{
			Domain:     domain,
			Expression: expression,
			CreatedAt:  now,
		}
		c.entries[domain] = entry
	}
	entry.LastValidatedAt = now
	entry.HitCount++
	entry.ConsecutiveFailures = 0

	c.evictOverflow()
}

// RecordFailure records a validation failure for the domain's selector.
// The entry is evicted once consecutive failures reach the threshold.
// Failures reported against a different expression than the stored one
// are ignored; the entry was already replaced.
func (c *Cache) RecordFailure(domain, expression string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[domain]
	if !ok || entry.Expression != expression {
		return
	}
	entry.ConsecutiveFailures++
	if entry.ConsecutiveFailures >= c.maxFailures {
		delete(c.entries, domain)
	}
}

// Invalidate removes the domain's selector.
func (c *Cache) Invalidate(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain)
}

// Entries returns a copy of all live entries.
func (c *Cache) Entries() []newsgrab.CachedSelector {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]newsgrab.CachedSelector, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, *entry)
	}
	return entries
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops entries that have not been validated within the TTL and
// returns the number removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().UTC().Add(-c.ttl)
	var removed int
	for domain, entry := range c.entries {
		if entry.LastValidatedAt.Before(cutoff) {
			delete(c.entries, domain)
			removed++
		}
	}
	return removed
}

// Load replaces the cache contents with a snapshot, dropping entries that
// are past the TTL or the failure threshold.
func (c *Cache) Load(selectors []newsgrab.CachedSelector) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().UTC().Add(-c.ttl)
	c.entries = make(map[string]*newsgrab.CachedSelector, len(selectors))
	for _, sel := range selectors {
		if sel.LastValidatedAt.Before(cutoff) {
			continue
		}
		if sel.ConsecutiveFailures >= c.maxFailures {
			continue
		}
		cp := sel
		c.entries[sel.Domain] = &cp
	}
}

// evictOverflow drops least-recently-validated entries until the cache
// fits the size bound. Must be called with mu held.
func (c *Cache) evictOverflow() {
	for len(c.entries) > c.maxEntries {
		var oldest string
		var oldestAt time.Time
		first := true
		for domain, entry := range c.entries {
			if first || entry.LastValidatedAt.Before(oldestAt) {
				oldest = domain
				oldestAt = entry.LastValidatedAt
				first = false
			}
		}
		delete(c.entries, oldest)
	}
}

// Restore loads the persisted snapshot into the cache.
func Restore(ctx context.Context, c *Cache, store newsgrab.SelectorSnapshotStore) error {
	selectors, err := store.LoadSelectors(ctx)
	if err != nil {
		return err
	}
	c.Load(selectors)
	return nil
}

// Flush writes the cache contents to the persisted snapshot.
func Flush(ctx context.Context, c *Cache, store newsgrab.SelectorSnapshotStore) error {
	return store.SaveSelectors(ctx, c.Entries())
}

// StartFlusher flushes the cache to the store every interval until the
// context is canceled, then performs a final flush.
func StartFlusher(ctx context.Context, c *Cache, store newsgrab.SelectorSnapshotStore, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				_ = Flush(flushCtx, c, store)
				cancel()
				return
			case <-ticker.C:
				_ = Flush(ctx, c, store)
			}
		}
	}()
	return done
}
