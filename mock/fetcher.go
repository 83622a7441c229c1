package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of newsgrab.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ newsgrab.SessionFetcher = (*SessionFetcher)(nil)

// SessionFetcher is a mock implementation of newsgrab.SessionFetcher.
type SessionFetcher struct {
	FetchWithSessionFn func(ctx context.Context, url string, session *newsgrab.SessionState) (string, error)
}

func (f *SessionFetcher) FetchWithSession(ctx context.Context, url string, session *newsgrab.SessionState) (string, error) {
	return f.FetchWithSessionFn(ctx, url, session)
}

var _ newsgrab.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of newsgrab.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
