package wire

import (
	"encoding/binary"
	"fmt"
)

// cursor is a read position over an immutable message buffer. Compression
// pointers reference absolute offsets, so decoding tracks a position into
// the full buffer instead of consuming it destructively.
type cursor struct {
	data []byte
	off  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// pos returns the current absolute offset within the message.
func (c *cursor) pos() int {
	return c.off
}

func (c *cursor) uint8() (byte, error) {
	if c.off+1 > len(c.data) {
		return 0, fmt.Errorf("need 1 byte at offset %d, have %d: %w", c.off, len(c.data)-c.off, ErrTruncated)
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

func (c *cursor) uint16() (uint16, error) {
	if c.off+2 > len(c.data) {
		return 0, fmt.Errorf("need 2 bytes at offset %d, have %d: %w", c.off, len(c.data)-c.off, ErrTruncated)
	}
	v := binary.BigEndian.Uint16(c.data[c.off : c.off+2])
	c.off += 2
	return v, nil
}

func (c *cursor) uint32() (uint32, error) {
	if c.off+4 > len(c.data) {
		return 0, fmt.Errorf("need 4 bytes at offset %d, have %d: %w", c.off, len(c.data)-c.off, ErrTruncated)
	}
	v := binary.BigEndian.Uint32(c.data[c.off : c.off+4])
	c.off += 4
	return v, nil
}

// take returns a view of the next n bytes. Callers that retain the bytes
// past the decode call must copy them.
func (c *cursor) take(n int) ([]byte, error) {
	if c.off+n > len(c.data) {
		return nil, fmt.Errorf("need %d bytes at offset %d, have %d: %w", n, c.off, len(c.data)-c.off, ErrTruncated)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}
