package bloom

import (
	"sync"
	"sync/atomic"

	"github.com/relistan/shorten"
)

// Compile-time interface verification.
var _ shorten.GrowableFilter = (*Filter)(nil)

// Filter is an expanding bloom filter made of capacity-doubling Segments.
// It is safe for concurrent use by multiple goroutines.
//
// The segment list is an immutable snapshot swapped through an atomic
// pointer. Put and MightContain never lock; only Resize serializes with
// other resizes. A Put racing a Resize may land in a segment that stops
// being the newest, or is evicted, immediately afterwards.
type Filter struct {
	cfg Config

	mu        sync.Mutex // serializes snapshot swaps
	snap      atomic.Pointer[snapshot]
	evictions atomic.Uint64
}

// snapshot is never modified after it is published.
type snapshot struct {
	segments     []*Segment // oldest first
	lastCapacity uint64
}

// NewFilter creates a Filter holding a single segment of cfg.BaseSize.
// It starts no background work; see Maintainer.
func NewFilter(cfg Config) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Filter{cfg: cfg}
	f.snap.Store(&snapshot{
		segments:     []*Segment{newSegment(cfg.BaseSize, cfg.TargetFPP)},
		lastCapacity: cfg.BaseSize,
	})
	return f, nil
}

// Config returns the configuration the filter was created with.
func (f *Filter) Config() Config {
	return f.cfg
}

// Put records key in the newest segment.
func (f *Filter) Put(key string) {
	s := f.snap.Load()
	s.segments[len(s.segments)-1].Add(key)
}

// MightContain reports whether any segment might hold key.
func (f *Filter) MightContain(key string) bool {
	for _, seg := range f.snap.Load().segments {
		if seg.Test(key) {
			return true
		}
	}
	return false
}

// Resize appends a segment with double the previous capacity. If the filter
// already holds MaxLength segments the oldest is dropped first, and every
// key only it held is forgotten. Resize reports whether that happened.
func (f *Filter) Resize() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.snap.Load()
	capacity := cur.lastCapacity * 2
	seg := newSegment(capacity, f.cfg.TargetFPP)

	evict := len(cur.segments) >= f.cfg.MaxLength
	keep := cur.segments
	if evict {
		keep = keep[len(keep)-f.cfg.MaxLength+1:]
	}

	segments := make([]*Segment, 0, len(keep)+1)
	segments = append(segments, keep...)
	segments = append(segments, seg)

	f.snap.Store(&snapshot{segments: segments, lastCapacity: capacity})
	if evict {
		f.evictions.Add(1)
	}
	return evict
}

// NeedsResize reports whether the newest segment's estimated false
// positive probability exceeds the trigger threshold.
func (f *Filter) NeedsResize() bool {
	return f.newest().EstimatedFPP() > f.cfg.TriggerFPP
}

// Len returns the number of live segments.
func (f *Filter) Len() int {
	return len(f.snap.Load().segments)
}

// Segments returns the live segments, oldest first.
// The returned slice must not be modified.
func (f *Filter) Segments() []*Segment {
	return f.snap.Load().segments
}

// Stats returns a snapshot of the filter's current shape.
func (f *Filter) Stats() shorten.FilterStats {
	s := f.snap.Load()
	var inserted uint64
	for _, seg := range s.segments {
		inserted += seg.Count()
	}
	return shorten.FilterStats{
		Segments:     len(s.segments),
		MaxSegments:  f.cfg.MaxLength,
		LastCapacity: s.lastCapacity,
		Inserted:     inserted,
		NewestFPP:    s.segments[len(s.segments)-1].EstimatedFPP(),
		Evictions:    f.evictions.Load(),
	}
}

func (f *Filter) newest() *Segment {
	s := f.snap.Load()
	return s.segments[len(s.segments)-1]
}
