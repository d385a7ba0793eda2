package wire

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxLabelLength is the largest literal label the wire format can
	// carry; the top two bits of the length byte are reserved for
	// compression pointers.
	maxLabelLength = 63

	pointerFlag uint8 = 0xC0
)

// encodeName serializes a domain name as length-prefixed labels followed
// by a zero terminator. Compression is never produced on encode; only
// servers constructing responses emit pointers.
func encodeName(name string) ([]byte, error) {
	var buf bytes.Buffer
	name = strings.TrimSuffix(name, ".")
	if name != "" {
		for _, label := range strings.Split(name, ".") {
			if len(label) > maxLabelLength {
				return nil, fmt.Errorf("label %q is %d octets: %w", label, len(label), ErrLabelTooLong)
			}
			if label == "" {
				continue
			}
			buf.WriteByte(byte(len(label)))
			buf.WriteString(label)
		}
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

// decodeName reads one name starting at the cursor position, resolving
// compression pointers through names, the table of names already decoded
// in this message keyed by their starting offset.
//
// The resolved name is registered under its own start offset before
// returning — including when it was completed through a pointer — so later
// names in the message may point at it in turn. A pointer always ends the
// name; its 14-bit target must be the start offset of an earlier name or
// the decode fails with ErrDanglingPointer.
func decodeName(c *cursor, names map[int]string) (string, error) {
	start := c.pos()
	var labels []string
	var name string

	for {
		length, err := c.uint8()
		if err != nil {
			return "", fmt.Errorf("name length byte: %w", err)
		}

		if length&pointerFlag == pointerFlag {
			low, err := c.uint8()
			if err != nil {
				return "", fmt.Errorf("compression pointer: %w", err)
			}
			target := int(length&^pointerFlag)<<8 | int(low)
			suffix, ok := names[target]
			if !ok {
				return "", fmt.Errorf("pointer to offset %d: %w", target, ErrDanglingPointer)
			}
			if suffix != "" {
				labels = append(labels, suffix)
			}
			name = strings.Join(labels, ".")
			break
		}

		if length == 0 {
			name = strings.Join(labels, ".")
			break
		}

		raw, err := c.take(int(length))
		if err != nil {
			return "", fmt.Errorf("label of %d octets: %w", length, err)
		}
		if !validLabelText(raw) {
			return "", fmt.Errorf("label at offset %d is not text: %w", c.pos()-int(length), ErrInvalidEncoding)
		}
		labels = append(labels, string(raw))
	}

	names[start] = name
	return name, nil
}

// validLabelText reports whether label bytes can surface as a Go string:
// valid UTF-8 with no embedded NUL.
func validLabelText(b []byte) bool {
	return utf8.Valid(b) && bytes.IndexByte(b, 0) < 0
}
