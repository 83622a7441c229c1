package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/cache"
	"github.com/fwojciec/newsgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("implements newsgrab.SelectorCache interface", func(t *testing.T) {
		t.Parallel()
		var _ newsgrab.SelectorCache = cache.New()
	})

	t.Run("returns nil for unknown domain", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		assert.Nil(t, c.Lookup("example.com"))
	})

	t.Run("returns a copy, not the stored entry", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordSuccess("example.com", "article.body")

		got := c.Lookup("example.com")
		require.NotNil(t, got)
		got.Expression = "mutated"

		again := c.Lookup("example.com")
		assert.Equal(t, "article.body", again.Expression)
	})
}

func TestCache_RecordSuccess(t *testing.T) {
	t.Parallel()

	t.Run("creates entry on first success", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordSuccess("example.com", "main > article")

		got := c.Lookup("example.com")
		require.NotNil(t, got)
		assert.Equal(t, "example.com", got.Domain)
		assert.Equal(t, "main > article", got.Expression)
		assert.Equal(t, 1, got.HitCount)
		assert.Equal(t, 0, got.ConsecutiveFailures)
		assert.False(t, got.CreatedAt.IsZero())
		assert.False(t, got.LastValidatedAt.IsZero())
	})

	t.Run("resets consecutive failures", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordSuccess("example.com", "article")
		c.RecordFailure("example.com", "article")
		c.RecordFailure("example.com", "article")
		c.RecordSuccess("example.com", "article")

		got := c.Lookup("example.com")
		require.NotNil(t, got)
		assert.Equal(t, 0, got.ConsecutiveFailures)
		assert.Equal(t, 2, got.HitCount)
	})

	t.Run("new expression replaces old entry", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordSuccess("example.com", "div.old")
		c.RecordSuccess("example.com", "div.new")

		got := c.Lookup("example.com")
		require.NotNil(t, got)
		assert.Equal(t, "div.new", got.Expression)
		assert.Equal(t, 1, got.HitCount)
	})
}

func TestCache_RecordFailure(t *testing.T) {
	t.Parallel()

	t.Run("evicts after three consecutive failures", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordSuccess("example.com", "article")

		c.RecordFailure("example.com", "article")
		c.RecordFailure("example.com", "article")
		require.NotNil(t, c.Lookup("example.com"), "not yet evicted after two failures")

		c.RecordFailure("example.com", "article")
		assert.Nil(t, c.Lookup("example.com"), "evicted at threshold")
	})

	t.Run("ignores failure for a replaced expression", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordSuccess("example.com", "div.new")
		c.RecordFailure("example.com", "div.old")

		got := c.Lookup("example.com")
		require.NotNil(t, got)
		assert.Equal(t, 0, got.ConsecutiveFailures)
	})

	t.Run("ignores failure for unknown domain", func(t *testing.T) {
		t.Parallel()
		c := cache.New()
		c.RecordFailure("example.com", "article")
		assert.Nil(t, c.Lookup("example.com"))
	})

	t.Run("respects custom threshold", func(t *testing.T) {
		t.Parallel()
		c := cache.New(cache.WithMaxFailures(1))
		c.RecordSuccess("example.com", "article")
		c.RecordFailure("example.com", "article")
		assert.Nil(t, c.Lookup("example.com"))
	})
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	c := cache.New()
	c.RecordSuccess("example.com", "article")
	c.Invalidate("example.com")
	assert.Nil(t, c.Lookup("example.com"))
}

func TestCache_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("LRU eviction over max entries", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		c := cache.New(cache.WithMaxEntries(2), cache.WithClock(clock))

		c.RecordSuccess("a.com", "article")
		now = now.Add(time.Minute)
		c.RecordSuccess("b.com", "article")
		now = now.Add(time.Minute)
		c.RecordSuccess("c.com", "article")

		assert.Nil(t, c.Lookup("a.com"), "least recently validated evicted")
		assert.NotNil(t, c.Lookup("b.com"))
		assert.NotNil(t, c.Lookup("c.com"))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("purge drops entries past TTL", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		c := cache.New(cache.WithTTL(time.Hour), cache.WithClock(clock))

		c.RecordSuccess("stale.com", "article")
		now = now.Add(30 * time.Minute)
		c.RecordSuccess("fresh.com", "article")
		now = now.Add(45 * time.Minute)

		removed := c.Purge()
		assert.Equal(t, 1, removed)
		assert.Nil(t, c.Lookup("stale.com"))
		assert.NotNil(t, c.Lookup("fresh.com"))
	})
}

func TestCache_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("load drops expired and failed entries", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		c := cache.New(cache.WithTTL(time.Hour), cache.WithClock(func() time.Time { return now }))

		c.Load([]newsgrab.CachedSelector{
			{Domain: "live.com", Expression: "article", LastValidatedAt: now.Add(-time.Minute)},
			{Domain: "stale.com", Expression: "article", LastValidatedAt: now.Add(-2 * time.Hour)},
			{Domain: "failing.com", Expression: "article", LastValidatedAt: now, ConsecutiveFailures: 3},
		})

		assert.NotNil(t, c.Lookup("live.com"))
		assert.Nil(t, c.Lookup("stale.com"))
		assert.Nil(t, c.Lookup("failing.com"))
	})

	t.Run("restore and flush round-trip through a store", func(t *testing.T) {
		t.Parallel()

		var saved []newsgrab.CachedSelector
		store := &mock.SelectorSnapshotStore{
			LoadSelectorsFn: func(_ context.Context) ([]newsgrab.CachedSelector, error) {
				return []newsgrab.CachedSelector{
					{Domain: "example.com", Expression: "article", LastValidatedAt: time.Now().UTC()},
				}, nil
			},
			SaveSelectorsFn: func(_ context.Context, selectors []newsgrab.CachedSelector) error {
				saved = selectors
				return nil
			},
		}

		c := cache.New()
		require.NoError(t, cache.Restore(context.Background(), c, store))
		require.NotNil(t, c.Lookup("example.com"))

		require.NoError(t, cache.Flush(context.Background(), c, store))
		require.Len(t, saved, 1)
		assert.Equal(t, "example.com", saved[0].Domain)
	})
}

func TestCache_Concurrency(t *testing.T) {
	t.Parallel()

	c := cache.New()
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range 100 {
				c.RecordSuccess("a.com", "article")
				c.Lookup("b.com")
				if i%10 == 0 {
					c.RecordFailure("a.com", "article")
				}
			}
		}()
	}
	for range 8 {
		<-done
	}
	assert.NotPanics(t, func() { c.Entries() })
}
