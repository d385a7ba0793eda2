package domain

import "fmt"

// Question represents one entry of a DNS question section. The transaction
// ID lives on the Header, not here; a Question is pure name/type/class.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question for an outbound query and validates it.
// Decoded messages build Questions directly so unknown type and class codes
// pass through unmodified.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	q := Question{
		Name:  name,
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are usable for an outbound query.
func (q Question) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("question name must not be empty")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", q.Type)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", q.Class)
	}
	return nil
}

// CacheKey returns the cache key for this question's name, type, and class.
func (q Question) CacheKey() string {
	return cacheKey(q.Name, q.Type, q.Class)
}
