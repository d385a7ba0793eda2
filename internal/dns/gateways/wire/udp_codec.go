// Package wire implements the DNS wire format of RFC 1035: building query
// messages and decoding arbitrary response buffers, including the §4.1.4
// name compression scheme.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/haukened/rr-dig/internal/dns/common/log"
	"github.com/haukened/rr-dig/internal/dns/domain"
)

// udpCodec implements Codec for standard DNS over UDP messages.
type udpCodec struct {
	logger log.Logger
	newID  func() uint16
}

// Options configures a codec. Zero values get working defaults.
type Options struct {
	// Logger receives debug-level decode traces. Nil discards them.
	Logger log.Logger

	// NewID supplies transaction ids for built queries. Nil uses a
	// math/rand/v2 source; tests inject a fixed function.
	NewID func() uint16
}

// New returns a Codec for building queries and decoding responses.
func New(opts Options) *udpCodec {
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if opts.NewID == nil {
		opts.NewID = func() uint16 {
			return uint16(rand.Uint32())
		}
	}
	return &udpCodec{
		logger: opts.Logger,
		newID:  opts.NewID,
	}
}

// BuildQuery serializes a single-question recursive query: a fresh
// transaction id, the RD flag, and one IN-class question for name. The
// name goes out exactly as spelled; canonicalization is a caller concern.
func (c *udpCodec) BuildQuery(name string, qtype domain.RRType) ([]byte, error) {
	qname, err := encodeName(name)
	if err != nil {
		return nil, fmt.Errorf("encode query name: %w", err)
	}

	id := c.newID()
	var buf bytes.Buffer
	writeHeader(&buf, domain.Header{
		ID:      id,
		Flags:   domain.FlagRD,
		QDCount: 1,
	})
	buf.Write(qname)
	_ = binary.Write(&buf, binary.BigEndian, uint16(qtype))
	_ = binary.Write(&buf, binary.BigEndian, uint16(domain.RRClassIN))

	c.logger.Debug(map[string]any{
		"id":   id,
		"name": name,
		"type": qtype.String(),
		"size": buf.Len(),
	}, "built query")

	return buf.Bytes(), nil
}

// DecodeMessage parses header, questions, and the three record sections in
// wire order. One cursor and one compression table span the whole message;
// any failure aborts the decode with no partial result.
func (c *udpCodec) DecodeMessage(data []byte) (domain.Message, error) {
	cur := newCursor(data)
	names := make(map[int]string)

	hdr, err := decodeHeader(cur)
	if err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{Header: hdr}
	for i := 0; i < int(hdr.QDCount); i++ {
		q, err := decodeQuestion(cur, names)
		if err != nil {
			return domain.Message{}, fmt.Errorf("question %d: %w", i, err)
		}
		msg.Questions = append(msg.Questions, q)
	}

	sections := []struct {
		count uint16
		out   *[]domain.ResourceRecord
		name  string
	}{
		{hdr.ANCount, &msg.Answers, "answer"},
		{hdr.NSCount, &msg.Authority, "authority"},
		{hdr.ARCount, &msg.Additional, "additional"},
	}
	for _, s := range sections {
		for i := 0; i < int(s.count); i++ {
			rr, err := decodeRecord(cur, names)
			if err != nil {
				return domain.Message{}, fmt.Errorf("%s record %d: %w", s.name, i, err)
			}
			*s.out = append(*s.out, rr)
		}
	}

	c.logger.Debug(map[string]any{
		"id":    hdr.ID,
		"rcode": hdr.RCode().String(),
		"qd":    hdr.QDCount,
		"an":    hdr.ANCount,
		"ns":    hdr.NSCount,
		"ar":    hdr.ARCount,
	}, "decoded message")

	return msg, nil
}

// writeHeader serializes the fixed 12-byte header, big-endian fields in
// wire order. Counts are the caller's responsibility.
func writeHeader(buf *bytes.Buffer, h domain.Header) {
	_ = binary.Write(buf, binary.BigEndian, h.ID)
	_ = binary.Write(buf, binary.BigEndian, h.Flags)
	_ = binary.Write(buf, binary.BigEndian, h.QDCount)
	_ = binary.Write(buf, binary.BigEndian, h.ANCount)
	_ = binary.Write(buf, binary.BigEndian, h.NSCount)
	_ = binary.Write(buf, binary.BigEndian, h.ARCount)
}

func decodeHeader(c *cursor) (domain.Header, error) {
	var h domain.Header
	var err error
	if h.ID, err = c.uint16(); err != nil {
		return h, fmt.Errorf("header id: %w", err)
	}
	if h.Flags, err = c.uint16(); err != nil {
		return h, fmt.Errorf("header flags: %w", err)
	}
	if h.QDCount, err = c.uint16(); err != nil {
		return h, fmt.Errorf("header qdcount: %w", err)
	}
	if h.ANCount, err = c.uint16(); err != nil {
		return h, fmt.Errorf("header ancount: %w", err)
	}
	if h.NSCount, err = c.uint16(); err != nil {
		return h, fmt.Errorf("header nscount: %w", err)
	}
	if h.ARCount, err = c.uint16(); err != nil {
		return h, fmt.Errorf("header arcount: %w", err)
	}
	return h, nil
}

func decodeQuestion(c *cursor, names map[int]string) (domain.Question, error) {
	name, err := decodeName(c, names)
	if err != nil {
		return domain.Question{}, fmt.Errorf("question name: %w", err)
	}
	qtype, err := c.uint16()
	if err != nil {
		return domain.Question{}, fmt.Errorf("question type: %w", err)
	}
	qclass, err := c.uint16()
	if err != nil {
		return domain.Question{}, fmt.Errorf("question class: %w", err)
	}
	// Built directly so unknown type and class codes pass through.
	return domain.Question{
		Name:  name,
		Type:  domain.RRType(qtype),
		Class: domain.RRClass(qclass),
	}, nil
}

func decodeRecord(c *cursor, names map[int]string) (domain.ResourceRecord, error) {
	name, err := decodeName(c, names)
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("record name: %w", err)
	}
	typ, err := c.uint16()
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("record type: %w", err)
	}
	class, err := c.uint16()
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("record class: %w", err)
	}
	ttl, err := c.uint32()
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("record ttl: %w", err)
	}
	rdLen, err := c.uint16()
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("record rdlength: %w", err)
	}
	view, err := c.take(int(rdLen))
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("record rdata of %d bytes: %w", rdLen, err)
	}

	// The message buffer may be reused by the transport; rdata gets its
	// own backing array.
	rdata := make([]byte, rdLen)
	copy(rdata, view)

	return domain.ResourceRecord{
		Name:  name,
		Type:  domain.RRType(typ),
		Class: domain.RRClass(class),
		TTL:   ttl,
		Data:  rdata,
	}, nil
}

var _ Codec = (*udpCodec)(nil)
