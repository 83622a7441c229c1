// Package bloom provides content deduplication using Bloom filters.
// The cascade adds each validated article's fingerprint and marks later
// results carrying an already-seen fingerprint as duplicates.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter keyed by content fingerprints. Safe for
// concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected fingerprints
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a content fingerprint.
func (f *Filter) Add(fingerprint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(fingerprint)
}

// Seen reports whether the fingerprint was added before, then records it.
// False positives are possible; false negatives are not.
func (f *Filter) Seen(fingerprint string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestOrAddString(fingerprint)
}

// Test returns true if the fingerprint might be in the filter.
func (f *Filter) Test(fingerprint string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(fingerprint)
}

// EstimatedCount returns the approximate number of fingerprints added.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
