package mock

import (
	"context"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.SelectorCache = (*SelectorCache)(nil)

// SelectorCache is a mock implementation of newsgrab.SelectorCache.
type SelectorCache struct {
	LookupFn        func(domain string) *newsgrab.CachedSelector
	RecordSuccessFn func(domain, expression string)
	RecordFailureFn func(domain, expression string)
	InvalidateFn    func(domain string)
	EntriesFn       func() []newsgrab.CachedSelector
}

func (c *SelectorCache) Lookup(domain string) *newsgrab.CachedSelector {
	return c.LookupFn(domain)
}

func (c *SelectorCache) RecordSuccess(domain, expression string) {
	c.RecordSuccessFn(domain, expression)
}

func (c *SelectorCache) RecordFailure(domain, expression string) {
	c.RecordFailureFn(domain, expression)
}

func (c *SelectorCache) Invalidate(domain string) {
	c.InvalidateFn(domain)
}

func (c *SelectorCache) Entries() []newsgrab.CachedSelector {
	return c.EntriesFn()
}

var _ newsgrab.SelectorSnapshotStore = (*SelectorSnapshotStore)(nil)

// SelectorSnapshotStore is a mock implementation of newsgrab.SelectorSnapshotStore.
type SelectorSnapshotStore struct {
	LoadSelectorsFn func(ctx context.Context) ([]newsgrab.CachedSelector, error)
	SaveSelectorsFn func(ctx context.Context, selectors []newsgrab.CachedSelector) error
}

func (s *SelectorSnapshotStore) LoadSelectors(ctx context.Context) ([]newsgrab.CachedSelector, error) {
	return s.LoadSelectorsFn(ctx)
}

func (s *SelectorSnapshotStore) SaveSelectors(ctx context.Context, selectors []newsgrab.CachedSelector) error {
	return s.SaveSelectorsFn(ctx, selectors)
}

var _ newsgrab.SelectorSynthesizer = (*SelectorSynthesizer)(nil)

// SelectorSynthesizer is a mock implementation of newsgrab.SelectorSynthesizer.
type SelectorSynthesizer struct {
	ProposeFn func(ctx context.Context, skeleton string) (string, error)
}

func (s *SelectorSynthesizer) Propose(ctx context.Context, skeleton string) (string, error) {
	return s.ProposeFn(ctx, skeleton)
}
