package domain

// Header represents the fixed 12-byte DNS message header (RFC 1035 §4.1.1):
// a transaction ID, a bit-packed flags word, and the four section counts.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16 // questions
	ANCount uint16 // answers
	NSCount uint16 // authority records
	ARCount uint16 // additional records
}

// HeaderSize is the wire size of a DNS header in bytes.
const HeaderSize = 12

// Flag bit positions within Header.Flags, MSB first:
//
//	|QR|   Opcode  |AA|TC|RD|RA|   Z    |   RCODE   |
const (
	FlagQR     uint16 = 0x8000 // 1 = response, 0 = query
	OpcodeMask uint16 = 0x7800 // operation type, >> 11 to extract
	FlagAA     uint16 = 0x0400 // authoritative answer
	FlagTC     uint16 = 0x0200 // message was truncated
	FlagRD     uint16 = 0x0100 // recursion desired
	FlagRA     uint16 = 0x0080 // recursion available
	ZMask      uint16 = 0x0070 // reserved, zero in queries
	RCodeMask  uint16 = 0x000F // response code
)

// IsResponse reports whether the QR bit marks this message as a response.
func (h Header) IsResponse() bool {
	return h.Flags&FlagQR != 0
}

// Opcode returns the 4-bit operation code (0 = standard query).
func (h Header) Opcode() uint8 {
	return uint8((h.Flags & OpcodeMask) >> 11)
}

// Authoritative reports whether the AA bit is set.
func (h Header) Authoritative() bool {
	return h.Flags&FlagAA != 0
}

// Truncated reports whether the TC bit is set. Truncated responses are
// surfaced to the caller as-is; this client does not retry over TCP.
func (h Header) Truncated() bool {
	return h.Flags&FlagTC != 0
}

// RecursionDesired reports whether the RD bit is set.
func (h Header) RecursionDesired() bool {
	return h.Flags&FlagRD != 0
}

// RecursionAvailable reports whether the RA bit is set.
func (h Header) RecursionAvailable() bool {
	return h.Flags&FlagRA != 0
}

// RCode returns the 4-bit response code from the flags word.
func (h Header) RCode() RCode {
	return RCode(h.Flags & RCodeMask)
}
