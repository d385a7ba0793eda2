package wire

import (
	"github.com/haukened/rr-dig/internal/dns/domain"
)

// Codec encodes outbound DNS queries and decodes response buffers.
type Codec interface {
	// BuildQuery returns the wire bytes of a standard recursive query for
	// name with the given record type. The transaction id occupies the
	// first two bytes; transports read it from there to match responses.
	BuildQuery(name string, qtype domain.RRType) ([]byte, error)

	// DecodeMessage parses a complete DNS message. Decoding is all or
	// nothing: any malformed field aborts with an error and no partial
	// message is returned.
	DecodeMessage(data []byte) (domain.Message, error)
}
