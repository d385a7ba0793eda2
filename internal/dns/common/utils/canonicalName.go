package utils

import "strings"

// CanonicalDNSName normalizes a DNS name for cache keys and comparisons:
// trimmed of whitespace, lowercased, trailing dots removed. Wire encoding
// never sees canonical names; queries go out exactly as the caller spelled
// them.
func CanonicalDNSName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}
