// Package http provides HTTP-based implementations of newsgrab.Fetcher
// and the archival-mirror capability.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/newsgrab"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// defaultUserAgent is sent on every request. News sites reject obvious
// bot agents more often than browser ones.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Ensure Fetcher implements both fetch interfaces at compile time.
var (
	_ newsgrab.Fetcher        = (*Fetcher)(nil)
	_ newsgrab.SessionFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves HTML from URLs over plain HTTP. It does not execute
// JavaScript; pages that require rendering are handled by browser-based
// session harvesting upstream.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL without credentials.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.fetch(ctx, url, nil)
}

// FetchWithSession retrieves the URL with the session's cookies attached.
// The session is read-only; expired credentials are skipped.
func (f *Fetcher) FetchWithSession(ctx context.Context, url string, session *newsgrab.SessionState) (string, error) {
	return f.fetch(ctx, url, session)
}

func (f *Fetcher) fetch(ctx context.Context, url string, session *newsgrab.SessionState) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", newsgrab.Errorf(newsgrab.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	if session != nil {
		now := time.Now()
		for _, c := range session.Credentials {
			if c.Expired(now) {
				continue
			}
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path})
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newsgrab.Errorf(newsgrab.EUNAVAILABLE, "reading body of %s: %v", url, err)
	}

	return string(body), nil
}

// statusError maps an HTTP status to a cascade error code. 401/402/403
// indicate a paywall or access control and are fatal for the strategy but
// eligible for the authenticated retry; 404/410 are plain fatal; 429 and
// 5xx are transient.
func statusError(status int, url string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized,
		status == http.StatusPaymentRequired,
		status == http.StatusForbidden:
		return newsgrab.Errorf(newsgrab.EFORBIDDEN, "HTTP %d for %s", status, url)
	case status == http.StatusNotFound, status == http.StatusGone:
		return newsgrab.Errorf(newsgrab.ENOTFOUND, "HTTP %d for %s", status, url)
	case status == http.StatusTooManyRequests, status >= 500:
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "HTTP %d for %s", status, url)
	default:
		return newsgrab.Errorf(newsgrab.EFORBIDDEN, "HTTP %d for %s", status, url)
	}
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
