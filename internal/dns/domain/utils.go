package domain

import (
	"github.com/haukened/rr-dig/internal/dns/common/utils"
)

// cacheKey returns a consistent cache key for a DNS name, type, and class.
// Format: "name|type|class" (e.g., "www.example.com|A|IN"). The name is
// canonicalized so lookups are case-insensitive; pipe separators avoid
// conflicts with colons in IPv6 literals.
func cacheKey(name string, t RRType, c RRClass) string {
	return utils.CanonicalDNSName(name) + "|" + t.String() + "|" + c.String()
}
