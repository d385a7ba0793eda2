package rrdata

import (
	"fmt"
	"strings"
)

// encodeTXTData converts text to one or more length-prefixed character
// strings. Semicolons separate segments (RFC 1035 section 3.3.14 allows
// several per record).
func encodeTXTData(data string) ([]byte, error) {
	segments := strings.Split(data, ";")
	var encoded []byte
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if len(segment) > 255 {
			return nil, fmt.Errorf("TXT segment too long: %d bytes", len(segment))
		}
		encoded = append(encoded, byte(len(segment)))
		encoded = append(encoded, []byte(segment)...)
	}
	if len(encoded) == 0 {
		return nil, fmt.Errorf("TXT record must contain at least one segment")
	}
	return encoded, nil
}

// decodeTXTData renders the character strings of a TXT payload joined
// with "; ".
func decodeTXTData(data []byte) (string, error) {
	var segments []string
	for i := 0; i < len(data); {
		length := int(data[i])
		i++
		if i+length > len(data) {
			return "", fmt.Errorf("TXT segment runs past end of data")
		}
		segments = append(segments, string(data[i:i+length]))
		i += length
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("TXT record contains no segments")
	}
	return strings.Join(segments, "; "), nil
}
