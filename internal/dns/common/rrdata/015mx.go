package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// encodeMXData converts "preference exchange" (e.g. "10 mail.example.com")
// to the 2-byte preference plus encoded exchange name.
func encodeMXData(data string) ([]byte, error) {
	fields := strings.Fields(data)
	if len(fields) != 2 {
		return nil, fmt.Errorf("MX record requires 2 fields, got %d", len(fields))
	}
	pref, err := strconv.ParseUint(fields[0], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("MX preference %q: %w", fields[0], err)
	}
	exchange, err := encodeDomainName(fields[1])
	if err != nil {
		return nil, fmt.Errorf("MX exchange: %w", err)
	}
	encoded := binary.BigEndian.AppendUint16(nil, uint16(pref))
	return append(encoded, exchange...), nil
}

// decodeMXData renders an MX payload as "preference exchange".
func decodeMXData(data []byte) (string, error) {
	if len(data) < 3 {
		return "", fmt.Errorf("MX record payload too short: %d bytes", len(data))
	}
	pref := binary.BigEndian.Uint16(data)
	exchange, _, err := decodeDomainName(data, 2)
	if err != nil {
		return "", fmt.Errorf("MX exchange: %w", err)
	}
	return fmt.Sprintf("%d %s", pref, exchange), nil
}
