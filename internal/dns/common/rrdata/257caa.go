package rrdata

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeCAAData converts `flags tag "value"` (e.g. `0 issue "ca.example.net"`)
// to the flags byte, length-prefixed tag, and raw value bytes.
func encodeCAAData(data string) ([]byte, error) {
	fields := strings.SplitN(strings.TrimSpace(data), " ", 3)
	if len(fields) != 3 {
		return nil, fmt.Errorf("CAA record requires 3 fields, got %d", len(fields))
	}
	flags, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("CAA flags %q: %w", fields[0], err)
	}
	tag := fields[1]
	if len(tag) == 0 || len(tag) > 255 {
		return nil, fmt.Errorf("CAA tag length %d out of range", len(tag))
	}
	value := strings.Trim(fields[2], `"`)
	encoded := []byte{byte(flags), byte(len(tag))}
	encoded = append(encoded, tag...)
	return append(encoded, value...), nil
}

// decodeCAAData renders a CAA payload as `flags tag "value"`.
func decodeCAAData(data []byte) (string, error) {
	if len(data) < 2 {
		return "", fmt.Errorf("CAA record payload too short: %d bytes", len(data))
	}
	flags := data[0]
	tagLen := int(data[1])
	if 2+tagLen > len(data) {
		return "", fmt.Errorf("CAA tag runs past end of data")
	}
	tag := string(data[2 : 2+tagLen])
	value := string(data[2+tagLen:])
	return fmt.Sprintf("%d %s %q", flags, tag, value), nil
}
