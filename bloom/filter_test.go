package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/newsgrab/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("a1b2c3d4e5f60718"))

	f.Add("a1b2c3d4e5f60718")

	assert.True(t, f.Test("a1b2c3d4e5f60718"))
	assert.False(t, f.Test("ffffffffffffffff"))
}

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// First observation records and reports unseen.
	assert.False(t, f.Seen("a1b2c3d4e5f60718"))

	// Second observation of the same fingerprint is a duplicate.
	assert.True(t, f.Seen("a1b2c3d4e5f60718"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("fingerprint-one")
	f.Add("fingerprint-two")
	f.Add("fingerprint-three")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_ConcurrentSeen(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				f.Seen(fmt.Sprintf("fp-%d-%d", i, j))
			}
		}()
	}
	wg.Wait()

	// Every fingerprint added during the race must now test positive.
	for i := range 20 {
		for j := range 100 {
			assert.True(t, f.Test(fmt.Sprintf("fp-%d-%d", i, j)))
		}
	}
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("added-%016x", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("notadded-%016x", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
