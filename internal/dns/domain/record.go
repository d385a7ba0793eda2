package domain

import (
	"fmt"
	"time"
)

// ResourceRecord represents a DNS resource record from any answer section.
// Data holds the wire payload exactly as received; interpreting it is the
// presentation layer's concern. Records decoded straight off the wire have
// no expiry; records placed in a cache carry one, computed from the TTL at
// the time they were stored.
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte // opaque wire payload (rdata)
	Text  string // presentation form, empty when the type is unknown

	expiresAt *time.Time // nil until the record is cached
}

// NewCachedResourceRecord constructs a ResourceRecord destined for a cache,
// stamping it with an absolute expiry of now + TTL. The caller supplies now
// so expiry stays testable.
func NewCachedResourceRecord(name string, rrtype RRType, class RRClass, ttl uint32, data []byte, text string, now time.Time) (ResourceRecord, error) {
	exp := now.Add(time.Duration(ttl) * time.Second)
	rr := ResourceRecord{
		Name:      name,
		Type:      rrtype,
		Class:     class,
		TTL:       ttl,
		Data:      data,
		Text:      text,
		expiresAt: &exp,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are usable for caching.
func (rr ResourceRecord) Validate() error {
	if rr.Name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if rr.Text == "" && len(rr.Data) == 0 {
		return fmt.Errorf("either Text or Data must be set")
	}
	return nil
}

// ExpiresAt returns the record's absolute expiry and whether it has one.
// Persistent caches store the expiry rather than re-deriving it.
func (rr ResourceRecord) ExpiresAt() (time.Time, bool) {
	if rr.expiresAt == nil {
		return time.Time{}, false
	}
	return *rr.expiresAt, true
}

// Expired reports whether the record's expiry has passed as of now.
// Records that were never cached do not expire.
func (rr ResourceRecord) Expired(now time.Time) bool {
	if rr.expiresAt == nil {
		return false
	}
	return now.After(*rr.expiresAt)
}

// TTLRemaining returns the time left until expiry as of now, clamped at
// zero. Uncached records report their full original TTL.
func (rr ResourceRecord) TTLRemaining(now time.Time) time.Duration {
	if rr.expiresAt == nil {
		return time.Duration(rr.TTL) * time.Second
	}
	rem := rr.expiresAt.Sub(now)
	if rem < 0 {
		return 0
	}
	return rem
}

// EffectiveTTL returns the TTL to present to a consumer as of now: the
// remaining whole seconds for cached records, the original TTL otherwise.
func (rr ResourceRecord) EffectiveTTL(now time.Time) uint32 {
	if rr.expiresAt == nil {
		return rr.TTL
	}
	rem := rr.expiresAt.Sub(now).Seconds()
	if rem <= 0 {
		return 0
	}
	return uint32(rem)
}

// CacheKey returns the cache key for this record's name, type, and class.
func (rr ResourceRecord) CacheKey() string {
	return cacheKey(rr.Name, rr.Type, rr.Class)
}
