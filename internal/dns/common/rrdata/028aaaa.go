package rrdata

import (
	"fmt"
	"net"
)

// encodeAAAAData converts an IPv6 string to its 16-byte payload.
func encodeAAAAData(data string) ([]byte, error) {
	ip := net.ParseIP(data)
	if !isIPv6(ip) {
		return nil, fmt.Errorf("invalid AAAA record IP: %s", data)
	}
	return ip.To16(), nil
}

// decodeAAAAData renders a 16-byte payload as an IPv6 address.
func decodeAAAAData(data []byte) (string, error) {
	if len(data) != net.IPv6len {
		return "", fmt.Errorf("AAAA record payload must be 16 bytes, got %d", len(data))
	}
	return net.IP(data).String(), nil
}
