package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// encodeSOAData converts the seven-field SOA presentation form
// "mname rname serial refresh retry expire minimum" to wire format.
func encodeSOAData(data string) ([]byte, error) {
	fields := strings.Fields(data)
	if len(fields) != 7 {
		return nil, fmt.Errorf("SOA record requires 7 fields, got %d", len(fields))
	}
	mname, err := encodeDomainName(fields[0])
	if err != nil {
		return nil, fmt.Errorf("SOA mname: %w", err)
	}
	rname, err := encodeDomainName(fields[1])
	if err != nil {
		return nil, fmt.Errorf("SOA rname: %w", err)
	}
	encoded := append(mname, rname...)
	for _, field := range fields[2:] {
		v, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("SOA numeric field %q: %w", field, err)
		}
		encoded = binary.BigEndian.AppendUint32(encoded, uint32(v))
	}
	return encoded, nil
}

// decodeSOAData renders an SOA payload in zone-file field order.
func decodeSOAData(data []byte) (string, error) {
	mname, off, err := decodeDomainName(data, 0)
	if err != nil {
		return "", fmt.Errorf("SOA mname: %w", err)
	}
	rname, off, err := decodeDomainName(data, off)
	if err != nil {
		return "", fmt.Errorf("SOA rname: %w", err)
	}
	if len(data)-off != 20 {
		return "", fmt.Errorf("SOA record needs 20 bytes of timers, got %d", len(data)-off)
	}
	parts := []string{mname, rname}
	for i := 0; i < 5; i++ {
		v := binary.BigEndian.Uint32(data[off+i*4:])
		parts = append(parts, strconv.FormatUint(uint64(v), 10))
	}
	return strings.Join(parts, " "), nil
}
