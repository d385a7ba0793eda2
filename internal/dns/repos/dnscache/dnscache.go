// Package dnscache is the in-memory TTL-aware answer cache: an LRU keyed by
// question cache key, holding the record sets previous lookups returned.
package dnscache

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/rr-dig/internal/dns/common/clock"
	"github.com/haukened/rr-dig/internal/dns/domain"
	"github.com/haukened/rr-dig/internal/dns/services/lookup"
)

// ErrMultipleKeys means a Set was attempted with records that do not all
// share one cache key. Record sets are cached as a unit under a single key.
var ErrMultipleKeys = errors.New("multiple records with different keys provided")

// dnsCache stores DNS record sets in an LRU, expiring entries by the TTL
// stamped on the records at cache time.
type dnsCache struct {
	lru   *lru.Cache[string, []domain.ResourceRecord]
	clock clock.Clock
}

// New returns an answer cache holding up to size keys. A size of zero (or
// less) disables caching: the returned cache stores nothing and never hits.
// A nil clk uses the system clock.
func New(size int, clk clock.Clock) (lookup.Cache, error) {
	if size <= 0 {
		return disabledCache{}, nil
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	backing, err := lru.New[string, []domain.ResourceRecord](size)
	if err != nil {
		return nil, err
	}
	return &dnsCache{lru: backing, clock: clk}, nil
}

// Set replaces the cached records for the set's key. All records must share
// one cache key; an empty set is a no-op.
func (c *dnsCache) Set(records []domain.ResourceRecord) error {
	if len(records) == 0 {
		return nil
	}
	key := records[0].CacheKey()
	for _, record := range records[1:] {
		if record.CacheKey() != key {
			return ErrMultipleKeys
		}
	}
	c.lru.Add(key, records)
	return nil
}

// Get returns the unexpired records cached under key. Expired records are
// filtered out; when none survive the entry is removed entirely.
func (c *dnsCache) Get(key string) ([]domain.ResourceRecord, bool) {
	records, found := c.lru.Get(key)
	if !found {
		return nil, false
	}

	now := c.clock.Now()
	var valid []domain.ResourceRecord
	for _, record := range records {
		if !record.Expired(now) {
			valid = append(valid, record)
		}
	}

	if len(valid) == 0 {
		c.lru.Remove(key)
		return nil, false
	}
	if len(valid) < len(records) {
		c.lru.Add(key, valid)
	}
	return valid, true
}

// Delete removes the entry for key.
func (c *dnsCache) Delete(key string) {
	c.lru.Remove(key)
}

// Len returns the number of keys currently cached. Each key may hold
// several records.
func (c *dnsCache) Len() int {
	return c.lru.Len()
}

// Keys returns all current cache keys.
func (c *dnsCache) Keys() []string {
	return c.lru.Keys()
}

// disabledCache is the nil-object returned when caching is turned off.
type disabledCache struct{}

func (disabledCache) Set([]domain.ResourceRecord) error          { return nil }
func (disabledCache) Get(string) ([]domain.ResourceRecord, bool) { return nil, false }
func (disabledCache) Delete(string)                              {}

var _ lookup.Cache = (*dnsCache)(nil)
var _ lookup.Cache = disabledCache{}
