// Package boltcache persists DNS answers across runs in a bbolt database,
// one bucket per apex domain, with a bloom prefilter so misses never touch
// the disk. It sits behind the in-memory cache in the lookup pipeline.
package boltcache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/rr-dig/internal/dns/common/log"
	"github.com/haukened/rr-dig/internal/dns/common/utils"
	"github.com/haukened/rr-dig/internal/dns/domain"
	"github.com/haukened/rr-dig/internal/dns/services/lookup"
)

// ErrMultipleKeys means a Set was attempted with records that do not all
// share one cache key.
var ErrMultipleKeys = errors.New("multiple records with different keys provided")

const (
	defaultCapacity = 4096
	defaultFPRate   = 0.01
)

// storedRecord is the gob form of a cached record. Expiry is absolute so
// records survive process restarts without losing their TTL budget.
type storedRecord struct {
	Name   string
	Type   uint16
	Class  uint16
	TTL    uint32
	Data   []byte
	Text   string
	Expiry time.Time
}

// Store is a persistent answer cache backed by bbolt.
type Store struct {
	db     *bbolt.DB
	filter *prefilter
	logger log.Logger
}

// Options configures a Store.
type Options struct {
	// Path locates the database file, created if absent. Required.
	Path string

	// ExpectedEntries sizes the bloom prefilter. Defaults to 4096.
	ExpectedEntries uint64

	// FalsePositiveRate is the prefilter's target FP rate. Defaults to 1%.
	FalsePositiveRate float64

	// Logger receives store traces. Nil discards them.
	Logger log.Logger
}

// Open opens (or creates) the store at opts.Path and seeds the bloom
// prefilter from the keys already on disk.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("store path is required")
	}
	if opts.ExpectedEntries == 0 {
		opts.ExpectedEntries = defaultCapacity
	}
	if opts.FalsePositiveRate == 0 {
		opts.FalsePositiveRate = defaultFPRate
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}

	db, err := bbolt.Open(opts.Path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	s := &Store{
		db:     db,
		filter: newPrefilter(opts.ExpectedEntries, opts.FalsePositiveRate),
		logger: opts.Logger,
	}
	if err := s.seedFilter(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed bloom filter: %w", err)
	}
	return s, nil
}

// seedFilter walks every bucket and registers the existing keys so the
// prefilter stays authoritative for negative answers.
func (s *Store) seedFilter() error {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(_ []byte, b *bbolt.Bucket) error {
			return b.ForEach(func(k, _ []byte) error {
				s.filter.Add(k)
				count++
				return nil
			})
		})
	})
	if err != nil {
		return err
	}
	s.logger.Debug(map[string]any{"keys": count}, "bloom prefilter seeded")
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Set persists a record set under its cache key, bucketed by the apex of
// the record name. All records must share one key; an empty set is a no-op.
func (s *Store) Set(records []domain.ResourceRecord, now time.Time) error {
	if len(records) == 0 {
		return nil
	}
	key := records[0].CacheKey()
	for _, record := range records[1:] {
		if record.CacheKey() != key {
			return ErrMultipleKeys
		}
	}

	stored := make([]storedRecord, 0, len(records))
	for _, rr := range records {
		expiry, ok := rr.ExpiresAt()
		if !ok {
			expiry = now.Add(time.Duration(rr.TTL) * time.Second)
		}
		stored = append(stored, storedRecord{
			Name:   rr.Name,
			Type:   uint16(rr.Type),
			Class:  uint16(rr.Class),
			TTL:    rr.TTL,
			Data:   rr.Data,
			Text:   rr.Text,
			Expiry: expiry,
		})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stored); err != nil {
		return fmt.Errorf("encode record set: %w", err)
	}

	apex := []byte(utils.GetApexDomain(records[0].Name))
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(apex)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("persist record set: %w", err)
	}
	s.filter.Add([]byte(key))
	return nil
}

// Get returns the records stored for the question that are still live as
// of now. A bloom miss returns immediately without touching the database;
// a fully expired entry is deleted on the way out.
func (s *Store) Get(q domain.Question, now time.Time) ([]domain.ResourceRecord, bool) {
	key := []byte(q.CacheKey())
	if !s.filter.MightContain(key) {
		return nil, false
	}

	apex := []byte(utils.GetApexDomain(q.Name))
	var stored []storedRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(apex)
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v == nil {
			return nil
		}
		return gob.NewDecoder(bytes.NewReader(v)).Decode(&stored)
	})
	if err != nil {
		s.logger.Warn(map[string]any{"key": string(key), "error": err.Error()}, "store read failed")
		return nil, false
	}
	if stored == nil {
		return nil, false
	}

	var live []domain.ResourceRecord
	for _, sr := range stored {
		if !sr.Expiry.After(now) {
			continue
		}
		// Rebuild with the original cache time so the stored absolute
		// expiry is preserved exactly.
		cachedAt := sr.Expiry.Add(-time.Duration(sr.TTL) * time.Second)
		rr, err := domain.NewCachedResourceRecord(sr.Name, domain.RRType(sr.Type), domain.RRClass(sr.Class), sr.TTL, sr.Data, sr.Text, cachedAt)
		if err != nil {
			continue
		}
		live = append(live, rr)
	}

	if len(live) == 0 {
		s.deleteKey(apex, key)
		return nil, false
	}
	return live, true
}

// PurgeApex drops every record set stored under an apex domain.
func (s *Store) PurgeApex(apex string) error {
	name := []byte(utils.GetApexDomain(apex))
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(name) == nil {
			return nil
		}
		return tx.DeleteBucket(name)
	})
}

// Len returns the number of record sets currently stored.
func (s *Store) Len() int {
	count := 0
	_ = s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(_ []byte, b *bbolt.Bucket) error {
			count += b.Stats().KeyN
			return nil
		})
	})
	return count
}

// deleteKey removes one expired entry. The bloom filter cannot forget the
// key; that is the usual bloom tradeoff and only costs a disk read later.
func (s *Store) deleteKey(apex, key []byte) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(apex)
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
	if err != nil {
		s.logger.Warn(map[string]any{"key": string(key), "error": err.Error()}, "expired entry delete failed")
	}
}

var _ lookup.Store = (*Store)(nil)
