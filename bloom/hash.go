package bloom

import (
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// baseHashes returns the two independent hash values that probe positions
// are derived from (h1 + i*h2). h2 is forced odd so it is never zero.
func baseHashes(key string) (h1, h2 uint64) {
	h1 = xxhash.Sum64String(key)
	h2 = xxh3.HashString(key) | 1
	return h1, h2
}
