package boltcache

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// prefilter wraps a bits-and-blooms filter with a mutex for writes. Reads
// are safe concurrently; Add is serialized. A negative answer is definite,
// so misses skip the disk entirely.
type prefilter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

// newPrefilter sizes a filter for capacity entries at the given
// false-positive rate.
func newPrefilter(capacity uint64, fpRate float64) *prefilter {
	m, k := size(capacity, fpRate)
	return &prefilter{bf: bitsbloom.New(uint(m), uint(k))}
}

func (f *prefilter) Add(key []byte) {
	f.mu.Lock()
	f.bf.Add(key)
	f.mu.Unlock()
}

func (f *prefilter) MightContain(key []byte) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.Test(key)
}
