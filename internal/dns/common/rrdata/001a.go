package rrdata

import (
	"fmt"
	"net"
)

// encodeAData converts a dotted-quad IPv4 string to its 4-byte payload.
func encodeAData(data string) ([]byte, error) {
	ip := net.ParseIP(data)
	if !isIPv4(ip) {
		return nil, fmt.Errorf("invalid A record IP: %s", data)
	}
	return ip.To4(), nil
}

// decodeAData renders a 4-byte payload as a dotted-quad IPv4 address.
func decodeAData(data []byte) (string, error) {
	if len(data) != net.IPv4len {
		return "", fmt.Errorf("A record payload must be 4 bytes, got %d", len(data))
	}
	return net.IP(data).String(), nil
}
