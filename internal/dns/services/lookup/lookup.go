// Package lookup orchestrates a DNS lookup across its collaborators:
// memory cache first, persistent store second, upstream nameservers last.
// Successful network answers feed both cache layers on the way out.
package lookup

import (
	"context"
	"fmt"

	"golang.org/x/net/idna"

	"github.com/haukened/rr-dig/internal/dns/common/clock"
	"github.com/haukened/rr-dig/internal/dns/common/log"
	"github.com/haukened/rr-dig/internal/dns/common/rrdata"
	"github.com/haukened/rr-dig/internal/dns/domain"
)

// Source identifies which layer produced a lookup result.
type Source string

const (
	SourceCache    Source = "cache"
	SourceStore    Source = "store"
	SourceUpstream Source = "upstream"
)

// Result is the outcome of one successful lookup.
type Result struct {
	// Question is the question actually sent, after IDNA conversion.
	Question domain.Question

	// Answers holds the answer records, presentation text filled in.
	// Empty (with a nil error) means NODATA: the name exists but has no
	// records of the requested type.
	Answers []domain.ResourceRecord

	// Source names the layer that answered.
	Source Source
}

// Service resolves questions through cache, store, and upstream layers.
type Service struct {
	cache    Cache
	store    Store
	upstream Upstream
	clock    clock.Clock
	logger   log.Logger
}

// Options configures a lookup Service. Upstream is required; Cache and
// Store are optional layers skipped when nil.
type Options struct {
	Cache    Cache
	Store    Store
	Upstream Upstream
	Clock    clock.Clock
	Logger   log.Logger
}

// New constructs a lookup Service from opts.
func New(opts Options) (*Service, error) {
	if opts.Upstream == nil {
		return nil, ErrNoUpstream
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Service{
		cache:    opts.Cache,
		store:    opts.Store,
		upstream: opts.Upstream,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}, nil
}

// Resolve answers one question. Unicode names are converted to A-labels
// before anything touches the wire; the caller's spelling is otherwise
// preserved. NXDOMAIN maps to ErrNameNotFound, other error rcodes to
// ErrServerFailure; NODATA is a success with zero answers.
func (s *Service) Resolve(ctx context.Context, name string, qtype domain.RRType) (Result, error) {
	wireName, err := toWireName(name)
	if err != nil {
		return Result{}, fmt.Errorf("convert name %q: %w", name, err)
	}

	q, err := domain.NewQuestion(wireName, qtype, domain.RRClassIN)
	if err != nil {
		return Result{}, err
	}

	if records, ok := s.cacheGet(q); ok {
		s.logger.Debug(map[string]any{"name": q.Name, "type": q.Type.String()}, "answered from memory cache")
		return Result{Question: q, Answers: records, Source: SourceCache}, nil
	}

	if records, ok := s.storeGet(q); ok {
		s.logger.Debug(map[string]any{"name": q.Name, "type": q.Type.String()}, "answered from persistent store")
		s.cacheSet(records)
		return Result{Question: q, Answers: records, Source: SourceStore}, nil
	}

	msg, err := s.upstream.Exchange(ctx, q)
	if err != nil {
		return Result{}, err
	}
	if rcode := msg.RCode(); rcode.IsError() {
		if rcode == domain.RCodeNXDomain {
			return Result{}, fmt.Errorf("%s %s: %w", q.Name, q.Type, ErrNameNotFound)
		}
		return Result{}, fmt.Errorf("%s %s: %s: %w", q.Name, q.Type, rcode, ErrServerFailure)
	}

	answers := s.stampAnswers(msg.Answers)
	s.fillCaches(answers)

	s.logger.Debug(map[string]any{
		"name":      q.Name,
		"type":      q.Type.String(),
		"answers":   len(answers),
		"truncated": msg.Header.Truncated(),
	}, "answered from upstream")
	return Result{Question: q, Answers: answers, Source: SourceUpstream}, nil
}

// toWireName converts a lookup name to the form that goes on the wire.
// Pure-ASCII names pass through untouched so underscore labels and mixed
// case survive; anything else becomes A-labels via the IDNA lookup profile.
func toWireName(name string) (string, error) {
	ascii := true
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return name, nil
	}
	return idna.Lookup.ToASCII(name)
}

// stampAnswers fills presentation text and cache expiries on fresh
// upstream answers.
func (s *Service) stampAnswers(answers []domain.ResourceRecord) []domain.ResourceRecord {
	now := s.clock.Now()
	stamped := make([]domain.ResourceRecord, 0, len(answers))
	for _, rr := range answers {
		text := rrdata.Decode(rr.Type, rr.Data)
		cached, err := domain.NewCachedResourceRecord(rr.Name, rr.Type, rr.Class, rr.TTL, rr.Data, text, now)
		if err != nil {
			// Unusual but not fatal: keep the record, just uncacheable.
			rr.Text = text
			stamped = append(stamped, rr)
			continue
		}
		stamped = append(stamped, cached)
	}
	return stamped
}

// fillCaches feeds both cache layers, one record set per cache key.
// Answer sections may mix keys (CNAME chains), so records are grouped
// before insertion.
func (s *Service) fillCaches(answers []domain.ResourceRecord) {
	if len(answers) == 0 || (s.cache == nil && s.store == nil) {
		return
	}
	now := s.clock.Now()

	order := make([]string, 0, len(answers))
	groups := make(map[string][]domain.ResourceRecord)
	for _, rr := range answers {
		key := rr.CacheKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rr)
	}

	for _, key := range order {
		set := groups[key]
		if s.cache != nil {
			if err := s.cache.Set(set); err != nil {
				s.logger.Warn(map[string]any{"key": key, "error": err.Error()}, "memory cache fill failed")
			}
		}
		if s.store != nil {
			if err := s.store.Set(set, now); err != nil {
				s.logger.Warn(map[string]any{"key": key, "error": err.Error()}, "persistent store fill failed")
			}
		}
	}
}

func (s *Service) cacheGet(q domain.Question) ([]domain.ResourceRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(q.CacheKey())
}

func (s *Service) storeGet(q domain.Question) ([]domain.ResourceRecord, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store.Get(q, s.clock.Now())
}

func (s *Service) cacheSet(records []domain.ResourceRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(records); err != nil {
		s.logger.Warn(map[string]any{"error": err.Error()}, "memory cache refill failed")
	}
}
