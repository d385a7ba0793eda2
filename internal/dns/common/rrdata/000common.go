// Package rrdata converts resource record payloads between their wire form
// and presentation text. The wire codec keeps rdata opaque; this package is
// the consumer that interprets it for display and cache fixtures.
package rrdata

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// encodeDomainName encodes a domain name into wire format: length-prefixed
// labels ending in a zero byte. Used by every name-bearing record type.
func encodeDomainName(name string) ([]byte, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	var encoded []byte
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			continue
		}
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}
	encoded = append(encoded, 0)
	return encoded, nil
}

// decodeDomainName reads an uncompressed domain name from b starting at
// off and returns the name and the offset past its terminator. Compression
// pointers cannot be resolved here (the payload has been sliced out of its
// message), so a length byte with the top bits set is an error.
func decodeDomainName(b []byte, off int) (string, int, error) {
	var labels []string
	for {
		if off >= len(b) {
			return "", 0, fmt.Errorf("domain name runs past end of data")
		}
		length := int(b[off])
		off++
		if length == 0 {
			break
		}
		if length > 63 {
			return "", 0, fmt.Errorf("compressed or invalid label length %d", length)
		}
		if off+length > len(b) {
			return "", 0, fmt.Errorf("label runs past end of data")
		}
		labels = append(labels, string(b[off:off+length]))
		off += length
	}
	return strings.Join(labels, "."), off, nil
}

// unknownRData renders a payload in the RFC 3597 generic form:
// "\# <length> <hex>".
func unknownRData(data []byte) string {
	if len(data) == 0 {
		return `\# 0`
	}
	return fmt.Sprintf(`\# %d %s`, len(data), hex.EncodeToString(data))
}

// isIPv4 reports whether ip has a 4-byte form.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}

// isIPv6 reports whether ip is a real IPv6 address, not a mapped IPv4.
func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}
