package shorten

// Filter is an approximate membership set keyed by URL hash. It is a
// write-deduplication hint: false positives are possible, and keys may be
// forgotten once the segment holding them is evicted.
type Filter interface {
	// Put records key in the filter. It always succeeds.
	Put(key string)

	// MightContain reports whether key may have been recorded.
	MightContain(key string) bool
}

// GrowableFilter is a Filter that can be grown on demand and inspected.
type GrowableFilter interface {
	Filter

	// Resize appends a segment twice the capacity of the previous one.
	// It reports whether the oldest segment was evicted to make room.
	Resize() bool

	// Stats returns a snapshot of the filter's current shape.
	Stats() FilterStats
}

// FilterStats describes an expanding filter at a point in time.
type FilterStats struct {
	Segments     int     `json:"segments"`
	MaxSegments  int     `json:"maxSegments"`
	LastCapacity uint64  `json:"lastCapacity"`
	Inserted     uint64  `json:"inserted"`
	NewestFPP    float64 `json:"newestFpp"`
	Evictions    uint64  `json:"evictions"`
}
