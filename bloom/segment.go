// Package bloom provides an expanding bloom filter used to skip redundant
// writes to the link store.
//
// A Filter is an ordered list of Segments, each a classic bit-array bloom
// filter with twice the capacity of the one before it. Queries are OR-ed
// across every segment; inserts only ever land in the newest one. A
// Maintainer grows the filter in the background when the newest segment's
// estimated false positive rate crosses a threshold, and the oldest segment
// is evicted once the list is full. Evicted keys are forgotten: the filter
// can then report false negatives for them. Callers treat it as a hint and
// keep the store authoritative.
package bloom

import (
	"math"
	"sync/atomic"

	"github.com/relistan/shorten"
)

// Segment is a fixed-capacity bloom filter. Its dimensions never change
// after creation; bits are only ever set.
// It is safe for concurrent use by multiple goroutines.
type Segment struct {
	words    []atomic.Uint64
	m        uint64
	k        uint32
	capacity uint64
	fpp      float64
	count    atomic.Uint64
}

// EstimateParameters returns the bit count m and probe count k for a filter
// holding n items at false positive probability p:
//
//	m = ceil(-n * ln p / (ln 2)^2)
//	k = round((m / n) * ln 2)
//
// k is clamped to at least 1.
func EstimateParameters(n uint64, p float64) (m uint64, k uint32) {
	m = uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	m = max(m, 1)
	k = uint32(math.Round(float64(m) / float64(n) * math.Ln2))
	k = max(k, 1)
	return m, k
}

// NewSegment creates a segment sized for capacity items at the target false
// positive probability fpp.
func NewSegment(capacity uint64, fpp float64) (*Segment, error) {
	if capacity == 0 {
		return nil, shorten.Errorf(shorten.EINVALID, "segment capacity must be positive")
	}
	if !(fpp > 0 && fpp < 1) {
		return nil, shorten.Errorf(shorten.EINVALID, "segment false positive probability must be in (0, 1), got %v", fpp)
	}
	return newSegment(capacity, fpp), nil
}

// newSegment allocates a segment from already validated parameters.
func newSegment(capacity uint64, fpp float64) *Segment {
	m, k := EstimateParameters(capacity, fpp)
	return &Segment{
		words:    make([]atomic.Uint64, (m+63)/64),
		m:        m,
		k:        k,
		capacity: capacity,
		fpp:      fpp,
	}
}

// Add records key in the segment.
func (s *Segment) Add(key string) {
	h1, h2 := baseHashes(key)
	for i := uint64(0); i < uint64(s.k); i++ {
		pos := (h1 + i*h2) % s.m
		s.words[pos>>6].Or(1 << (pos & 63))
	}
	s.count.Add(1)
}

// Test reports whether key might have been added. Keys that were added
// always return true.
func (s *Segment) Test(key string) bool {
	h1, h2 := baseHashes(key)
	for i := uint64(0); i < uint64(s.k); i++ {
		pos := (h1 + i*h2) % s.m
		if s.words[pos>>6].Load()&(1<<(pos&63)) == 0 {
			return false
		}
	}
	return true
}

// EstimatedFPP returns the expected false positive probability given the
// number of items added so far: (1 - e^(-k*n/m))^k.
func (s *Segment) EstimatedFPP() float64 {
	n := float64(s.count.Load())
	if n == 0 {
		return 0
	}
	k := float64(s.k)
	return math.Pow(1-math.Exp(-k*n/float64(s.m)), k)
}

// M returns the number of bits in the segment.
func (s *Segment) M() uint64 { return s.m }

// K returns the number of hash probes per key.
func (s *Segment) K() uint32 { return s.k }

// Capacity returns the number of items the segment was sized for.
func (s *Segment) Capacity() uint64 { return s.capacity }

// TargetFPP returns the false positive probability the segment was sized for.
func (s *Segment) TargetFPP() float64 { return s.fpp }

// Count returns the number of Add calls made on the segment.
func (s *Segment) Count() uint64 { return s.count.Load() }
