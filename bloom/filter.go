// Package bloom provides announcement deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter over announcement info IDs. A batch run seeds
// it with the IDs already in storage so unchanged announcements can be
// skipped without a database round trip each.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds an info ID to the filter.
func (f *Filter) Add(infoID string) {
	f.f.AddString(infoID)
}

// Test returns true if the info ID might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(infoID string) bool {
	return f.f.TestString(infoID)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
