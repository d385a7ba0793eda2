package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// encodeSRVData converts "priority weight port target" to wire format.
func encodeSRVData(data string) ([]byte, error) {
	fields := strings.Fields(data)
	if len(fields) != 4 {
		return nil, fmt.Errorf("SRV record requires 4 fields, got %d", len(fields))
	}
	var encoded []byte
	for _, field := range fields[:3] {
		v, err := strconv.ParseUint(field, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("SRV numeric field %q: %w", field, err)
		}
		encoded = binary.BigEndian.AppendUint16(encoded, uint16(v))
	}
	target, err := encodeDomainName(fields[3])
	if err != nil {
		return nil, fmt.Errorf("SRV target: %w", err)
	}
	return append(encoded, target...), nil
}

// decodeSRVData renders an SRV payload as "priority weight port target".
func decodeSRVData(data []byte) (string, error) {
	if len(data) < 7 {
		return "", fmt.Errorf("SRV record payload too short: %d bytes", len(data))
	}
	priority := binary.BigEndian.Uint16(data)
	weight := binary.BigEndian.Uint16(data[2:])
	port := binary.BigEndian.Uint16(data[4:])
	target, _, err := decodeDomainName(data, 6)
	if err != nil {
		return "", fmt.Errorf("SRV target: %w", err)
	}
	return fmt.Sprintf("%d %d %d %s", priority, weight, port, target), nil
}
