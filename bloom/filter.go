// Package bloom provides detail-page deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultCapacity covers the species count of the portrait listing with
// room to spare.
const DefaultCapacity = 2000

// DefaultFalsePositiveRate is the filter's target false positive rate.
const DefaultFalsePositiveRate = 0.001

// Filter remembers which detail paths have been scheduled for download.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected paths
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen records path and reports whether it might have been recorded before.
// A false positive skips a path that was never downloaded, so the filter is
// sized to keep that rare.
func (f *Filter) Seen(path string) bool {
	return f.f.TestOrAddString(path)
}

// EstimatedCount returns the approximate number of paths in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
