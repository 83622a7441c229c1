package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSelectorStore(t *testing.T) {
	t.Parallel()

	t.Run("implements newsgrab.SelectorSnapshotStore interface", func(t *testing.T) {
		t.Parallel()
		var _ newsgrab.SelectorSnapshotStore = sqlite.NewSelectorStore(openTestDB(t))
	})

	t.Run("load from empty database returns no selectors", func(t *testing.T) {
		t.Parallel()
		store := sqlite.NewSelectorStore(openTestDB(t))

		got, err := store.LoadSelectors(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("save then load round-trips", func(t *testing.T) {
		t.Parallel()
		store := sqlite.NewSelectorStore(openTestDB(t))

		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		want := []newsgrab.CachedSelector{
			{
				Domain:              "example.com",
				Expression:          "main article .story-body",
				CreatedAt:           now.Add(-24 * time.Hour),
				LastValidatedAt:     now,
				HitCount:            42,
				ConsecutiveFailures: 1,
			},
			{
				Domain:          "other.com",
				Expression:      "div#content",
				CreatedAt:       now,
				LastValidatedAt: now,
			},
		}
		require.NoError(t, store.SaveSelectors(context.Background(), want))

		got, err := store.LoadSelectors(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "example.com", got[0].Domain)
		assert.Equal(t, "main article .story-body", got[0].Expression)
		assert.Equal(t, 42, got[0].HitCount)
		assert.Equal(t, 1, got[0].ConsecutiveFailures)
		assert.True(t, now.Equal(got[0].LastValidatedAt))
	})

	t.Run("save replaces the previous snapshot", func(t *testing.T) {
		t.Parallel()
		store := sqlite.NewSelectorStore(openTestDB(t))
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Second)

		require.NoError(t, store.SaveSelectors(ctx, []newsgrab.CachedSelector{
			{Domain: "old.com", Expression: "article", CreatedAt: now, LastValidatedAt: now},
		}))
		require.NoError(t, store.SaveSelectors(ctx, []newsgrab.CachedSelector{
			{Domain: "new.com", Expression: "article", CreatedAt: now, LastValidatedAt: now},
		}))

		got, err := store.LoadSelectors(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "new.com", got[0].Domain)
	})

	t.Run("save of empty snapshot clears the table", func(t *testing.T) {
		t.Parallel()
		store := sqlite.NewSelectorStore(openTestDB(t))
		ctx := context.Background()
		now := time.Now().UTC()

		require.NoError(t, store.SaveSelectors(ctx, []newsgrab.CachedSelector{
			{Domain: "a.com", Expression: "article", CreatedAt: now, LastValidatedAt: now},
		}))
		require.NoError(t, store.SaveSelectors(ctx, nil))

		got, err := store.LoadSelectors(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
