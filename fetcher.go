package newsgrab

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the page at the URL. Transient network errors carry
	// the EUNAVAILABLE code; non-retryable HTTP statuses carry EFORBIDDEN
	// or ENOTFOUND. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases client resources.
	Close() error
}

// SessionFetcher retrieves HTML using an authenticated session's
// credentials. The session is read-only to the fetcher.
type SessionFetcher interface {
	FetchWithSession(ctx context.Context, url string, session *SessionState) (html string, err error)
}

// DomainLimiter provides per-domain rate limiting for direct fetches.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
