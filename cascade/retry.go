package cascade

import (
	"context"
	"time"

	"github.com/fwojciec/newsgrab"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context) (string, error)

// RetryDelays returns n exponential backoff delays starting at one
// second: 1s, 2s, 4s, and so on.
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		delays = append(delays, time.Second<<i)
	}
	return delays
}

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return RetryDelays(2)
}

// FetchWithRetry runs fetch with exponential backoff. Only EUNAVAILABLE
// errors are retried; any other failure is returned immediately. The
// number of retries is len(delays).
func FetchWithRetry(ctx context.Context, fetch FetchFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if newsgrab.ErrorCode(err) != newsgrab.EUNAVAILABLE {
			return "", err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
