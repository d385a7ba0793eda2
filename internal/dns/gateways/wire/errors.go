package wire

import "errors"

// Failure modes of the codec. Decode errors wrap these sentinels with
// offset context; errors.Is against them is the stable contract.
var (
	// ErrTruncated means fewer bytes remained than the current field,
	// label, or section required.
	ErrTruncated = errors.New("truncated message")

	// ErrInvalidEncoding means label bytes were not valid text.
	ErrInvalidEncoding = errors.New("invalid name encoding")

	// ErrDanglingPointer means a compression pointer referenced an offset
	// where no name had been decoded earlier in the same message.
	ErrDanglingPointer = errors.New("dangling compression pointer")

	// ErrLabelTooLong means an encoder input label exceeded 63 octets.
	ErrLabelTooLong = errors.New("label exceeds 63 octets")
)
