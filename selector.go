package newsgrab

import (
	"context"
	"time"
)

// DefaultMaxConsecutiveFailures is the failure-count eviction threshold
// for cached selectors. A selector that fails validation this many times
// in a row is dropped so the domain can be re-synthesized.
const DefaultMaxConsecutiveFailures = 3

// CachedSelector is a validated extraction selector for one domain.
// It is owned exclusively by the SelectorCache; callers receive copies.
type CachedSelector struct {
	Domain     string `json:"domain"`
	Expression string `json:"expression"`

	CreatedAt       time.Time `json:"createdAt"`
	LastValidatedAt time.Time `json:"lastValidatedAt"`

	// HitCount is incremented on every successful use.
	HitCount int `json:"hitCount"`

	// ConsecutiveFailures resets to 0 on any successful use and triggers
	// eviction at the cache's failure threshold.
	ConsecutiveFailures int `json:"consecutiveFailures"`
}

// SelectorCache is the per-domain store of validated extraction selectors.
// Lookups and mutations are safe under concurrent callers; mutations for
// the same domain are serialized. The cache performs no network or
// blocking I/O.
type SelectorCache interface {
	// Lookup returns a copy of the domain's selector, or nil if absent.
	Lookup(domain string) *CachedSelector

	// RecordSuccess records a successful extraction with the selector,
	// creating the entry if it does not exist. Resets the failure count.
	RecordSuccess(domain, expression string)

	// RecordFailure records a validation failure for the domain's selector.
	// The entry is evicted once consecutive failures reach the threshold.
	RecordFailure(domain, expression string)

	// Invalidate removes the domain's selector, e.g. after a site redesign.
	Invalidate(domain string)

	// Entries returns a copy of all live entries, for snapshotting and
	// inspection.
	Entries() []CachedSelector
}

// SelectorSnapshotStore persists selector cache contents across restarts.
// The cache loads a snapshot at startup and flushes periodically.
type SelectorSnapshotStore interface {
	// LoadSelectors returns all persisted selectors.
	LoadSelectors(ctx context.Context) ([]CachedSelector, error)

	// SaveSelectors replaces the persisted snapshot with the given entries.
	SaveSelectors(ctx context.Context, selectors []CachedSelector) error
}

// SelectorSynthesizer proposes a content selector for a page, given the
// page's structural skeleton (tags, ids, and classes, but no text).
// Implementations call a text-generation service.
type SelectorSynthesizer interface {
	// Propose returns a selector expression for the skeleton.
	// Returns EREFUSED if the service declines or produces an unusable
	// selector.
	Propose(ctx context.Context, skeleton string) (string, error)
}
