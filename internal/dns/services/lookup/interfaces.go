package lookup

import (
	"context"
	"time"

	"github.com/haukened/rr-dig/internal/dns/domain"
)

// Cache is the in-memory answer cache consulted first on every lookup.
type Cache interface {
	// Set stores a record set under its shared cache key. Every record in
	// the set must produce the same key.
	Set(records []domain.ResourceRecord) error

	// Get returns the unexpired records for a cache key.
	Get(key string) ([]domain.ResourceRecord, bool)

	// Delete removes the entry for a cache key.
	Delete(key string)
}

// Store is the persistent answer cache consulted when memory misses.
// Implementations receive the clock value so expiry stays deterministic
// under test.
type Store interface {
	// Set persists a record set with expiries computed from now.
	Set(records []domain.ResourceRecord, now time.Time) error

	// Get returns the records stored for the question that are still live
	// as of now.
	Get(q domain.Question, now time.Time) ([]domain.ResourceRecord, bool)
}

// Upstream exchanges one query with recursive nameservers.
type Upstream interface {
	Exchange(ctx context.Context, q domain.Question) (domain.Message, error)
}
