package cascade_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/fwojciec/newsgrab/cascade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	fastDelays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	t.Run("succeeds on first attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := cascade.FetchWithRetry(context.Background(), func(context.Context) (string, error) {
			calls++
			return "<html></html>", nil
		}, fastDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := cascade.FetchWithRetry(context.Background(), func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "503")
			}
			return "<html></html>", nil
		}, fastDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after exhausting delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := cascade.FetchWithRetry(context.Background(), func(context.Context) (string, error) {
			calls++
			return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "503")
		}, fastDelays)

		require.Error(t, err)
		assert.Equal(t, newsgrab.EUNAVAILABLE, newsgrab.ErrorCode(err))
		assert.Equal(t, 4, calls) // 1 initial + 3 retries
	})

	t.Run("does not retry non-retryable errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := cascade.FetchWithRetry(context.Background(), func(context.Context) (string, error) {
			calls++
			return "", newsgrab.Errorf(newsgrab.EFORBIDDEN, "403")
		}, fastDelays)

		require.Error(t, err)
		assert.Equal(t, newsgrab.EFORBIDDEN, newsgrab.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		_, err := cascade.FetchWithRetry(ctx, func(context.Context) (string, error) {
			calls++
			cancel()
			return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "503")
		}, []time.Duration{time.Hour})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("default is two exponential retries", func(t *testing.T) {
		t.Parallel()

		delays := cascade.DefaultRetryDelays()
		require.Len(t, delays, 2)
		assert.Equal(t, time.Second, delays[0])
		assert.Equal(t, 2*time.Second, delays[1])
	})

	t.Run("zero retries disables backoff", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := cascade.FetchWithRetry(context.Background(), func(context.Context) (string, error) {
			calls++
			return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "503")
		}, cascade.RetryDelays(0))

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
