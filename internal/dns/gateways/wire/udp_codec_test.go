package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-dig/internal/dns/common/log"
	"github.com/haukened/rr-dig/internal/dns/domain"
)

// newTestCodec returns a codec whose transaction ids are fixed, so query
// bytes are fully deterministic.
func newTestCodec(id uint16) *udpCodec {
	return New(Options{
		Logger: log.NewNoopLogger(),
		NewID:  func() uint16 { return id },
	})
}

// buildCompressedResponse returns a response for "www.example.com" A with
// two answers whose names are pointers back to the question name at
// offset 12.
func buildCompressedResponse() []byte {
	data := make([]byte, 0, 512)

	// Header
	data = binary.BigEndian.AppendUint16(data, 0x1234) // ID
	data = binary.BigEndian.AppendUint16(data, 0x8180) // QR|RD|RA
	data = binary.BigEndian.AppendUint16(data, 1)      // QDCOUNT
	data = binary.BigEndian.AppendUint16(data, 2)      // ANCOUNT
	data = binary.BigEndian.AppendUint16(data, 0)      // NSCOUNT
	data = binary.BigEndian.AppendUint16(data, 0)      // ARCOUNT

	// Question: www.example.com A IN, name begins at offset 12
	data = append(data, 3)
	data = append(data, []byte("www")...)
	data = append(data, 7)
	data = append(data, []byte("example")...)
	data = append(data, 3)
	data = append(data, []byte("com")...)
	data = append(data, 0)
	data = binary.BigEndian.AppendUint16(data, 1) // QTYPE = A
	data = binary.BigEndian.AppendUint16(data, 1) // QCLASS = IN

	// Answer 1: pointer to offset 12, TTL 300, 93.184.216.34
	data = append(data, 0xC0, 0x0C)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint32(data, 300)
	data = binary.BigEndian.AppendUint16(data, 4)
	data = append(data, 93, 184, 216, 34)

	// Answer 2: pointer to offset 12, TTL 60, 93.184.216.35
	data = append(data, 0xC0, 0x0C)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint32(data, 60)
	data = binary.BigEndian.AppendUint16(data, 4)
	data = append(data, 93, 184, 216, 35)

	return data
}

func TestBuildQuery_WireFormat(t *testing.T) {
	codec := newTestCodec(0xABCD)

	data, err := codec.BuildQuery("www.example.com", domain.RRTypeA)
	require.NoError(t, err)
	require.Len(t, data, 12+21)

	// Header: injected id, RD only, one question.
	assert.Equal(t, uint16(0xABCD), binary.BigEndian.Uint16(data[0:2]))
	assert.Equal(t, uint16(0x0100), binary.BigEndian.Uint16(data[2:4]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(data[4:6]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(data[6:8]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(data[8:10]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(data[10:12]))

	// Question section, byte for byte.
	want := []byte{
		0x03, 0x77, 0x77, 0x77, // "www"
		0x07, 0x65, 0x78, 0x61, 0x6d, 0x70, 0x6c, 0x65, // "example"
		0x03, 0x63, 0x6f, 0x6d, // "com"
		0x00,       // terminator
		0x00, 0x01, // QTYPE = A
		0x00, 0x01, // QCLASS = IN
	}
	assert.Equal(t, want, data[12:])
}

func TestBuildQuery_TrailingDotIgnored(t *testing.T) {
	codec := newTestCodec(7)

	plain, err := codec.BuildQuery("example.com", domain.RRTypeAAAA)
	require.NoError(t, err)
	dotted, err := codec.BuildQuery("example.com.", domain.RRTypeAAAA)
	require.NoError(t, err)

	assert.Equal(t, plain, dotted)
}

func TestBuildQuery_EmptyName(t *testing.T) {
	codec := newTestCodec(7)

	data, err := codec.BuildQuery("", domain.RRTypeA)
	require.NoError(t, err)

	// Header, root terminator, QTYPE, QCLASS.
	require.Len(t, data, 12+1+2+2)
	assert.Equal(t, byte(0), data[12])
}

func TestBuildQuery_LabelLength(t *testing.T) {
	codec := newTestCodec(7)

	longest := make([]byte, 63)
	for i := range longest {
		longest[i] = 'a'
	}

	t.Run("63 octets is accepted", func(t *testing.T) {
		data, err := codec.BuildQuery(string(longest)+".com", domain.RRTypeA)
		require.NoError(t, err)
		assert.Equal(t, byte(63), data[12])
	})

	t.Run("64 octets fails", func(t *testing.T) {
		data, err := codec.BuildQuery(string(longest)+"a.com", domain.RRTypeA)
		assert.ErrorIs(t, err, ErrLabelTooLong)
		assert.Nil(t, data)
	})
}

func TestBuildQuery_UsesInjectedID(t *testing.T) {
	var calls int
	codec := New(Options{
		NewID: func() uint16 {
			calls++
			return 0x4242
		},
	})

	data, err := codec.BuildQuery("example.com", domain.RRTypeA)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint16(0x4242), binary.BigEndian.Uint16(data[0:2]))
}

func TestDecodeMessage_QueryRoundTrip(t *testing.T) {
	codec := newTestCodec(0x1001)

	tests := []struct {
		name  string
		qname string
		qtype domain.RRType
	}{
		{"simple name", "example.com", domain.RRTypeA},
		{"subdomain", "www.example.com", domain.RRTypeAAAA},
		{"case preserved", "WwW.ExAmPlE.CoM", domain.RRTypeA},
		{"single label", "localhost", domain.RRTypeA},
		{"txt query", "alpha.beta.gamma.example.org", domain.RRTypeTXT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.BuildQuery(tt.qname, tt.qtype)
			require.NoError(t, err)

			msg, err := codec.DecodeMessage(data)
			require.NoError(t, err)

			assert.Equal(t, uint16(0x1001), msg.Header.ID)
			assert.False(t, msg.IsResponse())
			assert.True(t, msg.Header.RecursionDesired())
			require.Len(t, msg.Questions, 1)
			assert.Equal(t, tt.qname, msg.Questions[0].Name)
			assert.Equal(t, tt.qtype, msg.Questions[0].Type)
			assert.Equal(t, domain.RRClassIN, msg.Questions[0].Class)
			assert.Empty(t, msg.Answers)
			assert.Empty(t, msg.Authority)
			assert.Empty(t, msg.Additional)
		})
	}
}

func TestHeader_EncodeDecodeRoundTrip(t *testing.T) {
	in := domain.Header{
		ID:      0xBEEF,
		Flags:   0x0100,
		QDCount: 1,
	}

	var buf = make([]byte, 0, domain.HeaderSize)
	buf = binary.BigEndian.AppendUint16(buf, in.ID)
	buf = binary.BigEndian.AppendUint16(buf, in.Flags)
	buf = binary.BigEndian.AppendUint16(buf, in.QDCount)
	buf = binary.BigEndian.AppendUint16(buf, in.ANCount)
	buf = binary.BigEndian.AppendUint16(buf, in.NSCount)
	buf = binary.BigEndian.AppendUint16(buf, in.ARCount)

	out, err := decodeHeader(newCursor(buf))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeMessage_CompressedResponse(t *testing.T) {
	codec := newTestCodec(0)
	data := buildCompressedResponse()

	msg, err := codec.DecodeMessage(data)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), msg.Header.ID)
	assert.True(t, msg.IsResponse())
	assert.Equal(t, domain.RCodeNoError, msg.RCode())

	require.Len(t, msg.Questions, 1)
	assert.Equal(t, "www.example.com", msg.Questions[0].Name)

	require.Len(t, msg.Answers, 2)
	for _, rr := range msg.Answers {
		assert.Equal(t, "www.example.com", rr.Name)
		assert.Equal(t, domain.RRTypeA, rr.Type)
		assert.Equal(t, domain.RRClassIN, rr.Class)
	}
	assert.Equal(t, uint32(300), msg.Answers[0].TTL)
	assert.Equal(t, []byte{93, 184, 216, 34}, msg.Answers[0].Data)
	assert.Equal(t, uint32(60), msg.Answers[1].TTL)
	assert.Equal(t, []byte{93, 184, 216, 35}, msg.Answers[1].Data)
}

func TestDecodeMessage_PointerChain(t *testing.T) {
	// Answer 1's name is "www" + pointer to the question name; answer 2
	// points at answer 1's name, which must have been registered under its
	// own start offset even though it ended in a pointer.
	data := make([]byte, 0, 512)
	data = binary.BigEndian.AppendUint16(data, 0xBEEF)
	data = binary.BigEndian.AppendUint16(data, 0x8180)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 2)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)

	// Question at offset 12: example.com A IN
	data = append(data, 7)
	data = append(data, []byte("example")...)
	data = append(data, 3)
	data = append(data, []byte("com")...)
	data = append(data, 0)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 1)

	// Answer 1 at offset 29: name "www" + pointer to 12
	data = append(data, 3)
	data = append(data, []byte("www")...)
	data = append(data, 0xC0, 0x0C)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint32(data, 300)
	data = binary.BigEndian.AppendUint16(data, 4)
	data = append(data, 1, 2, 3, 4)

	// Answer 2: pointer to offset 29 (answer 1's name start)
	data = append(data, 0xC0, 0x1D)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint32(data, 300)
	data = binary.BigEndian.AppendUint16(data, 4)
	data = append(data, 5, 6, 7, 8)

	codec := newTestCodec(0)
	msg, err := codec.DecodeMessage(data)
	require.NoError(t, err)

	require.Len(t, msg.Answers, 2)
	assert.Equal(t, "example.com", msg.Questions[0].Name)
	assert.Equal(t, "www.example.com", msg.Answers[0].Name)
	assert.Equal(t, "www.example.com", msg.Answers[1].Name)
}

func TestDecodeMessage_DanglingPointer(t *testing.T) {
	codec := newTestCodec(0)

	header := func(qd, an uint16) []byte {
		data := make([]byte, 0, 64)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 0x8180)
		data = binary.BigEndian.AppendUint16(data, qd)
		data = binary.BigEndian.AppendUint16(data, an)
		data = binary.BigEndian.AppendUint16(data, 0)
		data = binary.BigEndian.AppendUint16(data, 0)
		return data
	}

	t.Run("pointer with no prior name", func(t *testing.T) {
		// The only name in the message is a pointer.
		data := header(1, 0)
		data = append(data, 0xC0, 0x0C)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 1)

		_, err := codec.DecodeMessage(data)
		assert.ErrorIs(t, err, ErrDanglingPointer)
	})

	t.Run("self pointer", func(t *testing.T) {
		// A name pointing at its own start offset: registration happens
		// after resolution, so the table cannot contain it yet.
		data := header(1, 0)
		data = append(data, 0xC0, 0x0C)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 1)

		_, err := codec.DecodeMessage(data)
		assert.ErrorIs(t, err, ErrDanglingPointer)
	})

	t.Run("pointer into the middle of a name", func(t *testing.T) {
		// Offset 16 is the "example" label inside the question name; only
		// whole-name start offsets are registered.
		data := header(1, 1)
		data = append(data, 3)
		data = append(data, []byte("www")...)
		data = append(data, 7)
		data = append(data, []byte("example")...)
		data = append(data, 3)
		data = append(data, []byte("com")...)
		data = append(data, 0)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 1)

		data = append(data, 0xC0, 0x10) // answer name: pointer to offset 16
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint32(data, 60)
		data = binary.BigEndian.AppendUint16(data, 4)
		data = append(data, 1, 2, 3, 4)

		_, err := codec.DecodeMessage(data)
		assert.ErrorIs(t, err, ErrDanglingPointer)
	})

	t.Run("forward pointer", func(t *testing.T) {
		// Pointer to an offset past the current position: nothing can be
		// registered there yet.
		data := header(1, 0)
		data = append(data, 0xC0, 0x30)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = append(data, make([]byte, 48)...)

		_, err := codec.DecodeMessage(data)
		assert.ErrorIs(t, err, ErrDanglingPointer)
	})
}

func TestDecodeMessage_TruncationAtEveryBoundary(t *testing.T) {
	codec := newTestCodec(0)
	data := buildCompressedResponse()

	// Sanity: the full buffer decodes.
	_, err := codec.DecodeMessage(data)
	require.NoError(t, err)

	for i := 0; i < len(data); i++ {
		_, err := codec.DecodeMessage(data[:i])
		assert.ErrorIs(t, err, ErrTruncated, "prefix of %d bytes", i)
	}
}

func TestDecodeMessage_InvalidLabelText(t *testing.T) {
	codec := newTestCodec(0)

	buildWithLabel := func(label []byte) []byte {
		data := make([]byte, 0, 64)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 0x8180)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 0)
		data = binary.BigEndian.AppendUint16(data, 0)
		data = binary.BigEndian.AppendUint16(data, 0)
		data = append(data, byte(len(label)))
		data = append(data, label...)
		data = append(data, 0)
		data = binary.BigEndian.AppendUint16(data, 1)
		data = binary.BigEndian.AppendUint16(data, 1)
		return data
	}

	t.Run("not utf8", func(t *testing.T) {
		_, err := codec.DecodeMessage(buildWithLabel([]byte{0xFF, 0xFE}))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("embedded NUL", func(t *testing.T) {
		_, err := codec.DecodeMessage(buildWithLabel([]byte{'a', 0x00, 'b'}))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("high-bit utf8 passes", func(t *testing.T) {
		msg, err := codec.DecodeMessage(buildWithLabel([]byte("bücher")))
		require.NoError(t, err)
		assert.Equal(t, "bücher", msg.Questions[0].Name)
	})
}

func TestDecodeMessage_UnknownCodesPassThrough(t *testing.T) {
	data := make([]byte, 0, 64)
	data = binary.BigEndian.AppendUint16(data, 9)
	data = binary.BigEndian.AppendUint16(data, 0x8180)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)

	data = append(data, 2)
	data = append(data, []byte("xx")...)
	data = append(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0x0999) // unassigned type
	data = binary.BigEndian.AppendUint16(data, 0x0777) // unassigned class
	data = binary.BigEndian.AppendUint32(data, 1)
	data = binary.BigEndian.AppendUint16(data, 2)
	data = append(data, 0xAB, 0xCD)

	codec := newTestCodec(0)
	msg, err := codec.DecodeMessage(data)
	require.NoError(t, err)

	require.Len(t, msg.Answers, 1)
	assert.Equal(t, domain.RRType(0x0999), msg.Answers[0].Type)
	assert.Equal(t, domain.RRClass(0x0777), msg.Answers[0].Class)
	assert.Equal(t, []byte{0xAB, 0xCD}, msg.Answers[0].Data)
}

func TestDecodeMessage_RdataStaysOpaque(t *testing.T) {
	// Rdata that happens to contain pointer-looking bytes must come back
	// untouched; the codec never interprets payloads.
	data := make([]byte, 0, 64)
	data = binary.BigEndian.AppendUint16(data, 9)
	data = binary.BigEndian.AppendUint16(data, 0x8180)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)

	data = append(data, 1, 'a', 0)
	data = binary.BigEndian.AppendUint16(data, 5) // CNAME
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint32(data, 30)
	data = binary.BigEndian.AppendUint16(data, 2)
	data = append(data, 0xC0, 0x0C)

	codec := newTestCodec(0)
	msg, err := codec.DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0x0C}, msg.Answers[0].Data)
}

func TestDecodeMessage_RootName(t *testing.T) {
	data := make([]byte, 0, 32)
	data = binary.BigEndian.AppendUint16(data, 2)
	data = binary.BigEndian.AppendUint16(data, 0x0100)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = append(data, 0) // root
	data = binary.BigEndian.AppendUint16(data, 2)
	data = binary.BigEndian.AppendUint16(data, 1)

	codec := newTestCodec(0)
	msg, err := codec.DecodeMessage(data)
	require.NoError(t, err)
	require.Len(t, msg.Questions, 1)
	assert.Equal(t, "", msg.Questions[0].Name)
	assert.Equal(t, domain.RRTypeNS, msg.Questions[0].Type)
}

func TestDecodeMessage_LiteralLengthAbove63(t *testing.T) {
	// Length bytes 0x40..0xBF are not pointers; the decoder reads them as
	// literal label lengths even though an encoder could never emit them.
	label := make([]byte, 0x41)
	for i := range label {
		label[i] = 'z'
	}

	data := make([]byte, 0, 128)
	data = binary.BigEndian.AppendUint16(data, 3)
	data = binary.BigEndian.AppendUint16(data, 0x8180)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = append(data, 0x41)
	data = append(data, label...)
	data = append(data, 0)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 1)

	codec := newTestCodec(0)
	msg, err := codec.DecodeMessage(data)
	require.NoError(t, err)
	assert.Equal(t, string(label), msg.Questions[0].Name)
}

func TestDecodeMessage_MissingPromisedRecords(t *testing.T) {
	// Header promises one answer but the buffer ends after the header.
	data := make([]byte, 0, 16)
	data = binary.BigEndian.AppendUint16(data, 4)
	data = binary.BigEndian.AppendUint16(data, 0x8180)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 1)
	data = binary.BigEndian.AppendUint16(data, 0)
	data = binary.BigEndian.AppendUint16(data, 0)

	codec := newTestCodec(0)
	_, err := codec.DecodeMessage(data)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeMessage_EmptyAndNilBuffers(t *testing.T) {
	codec := newTestCodec(0)

	_, err := codec.DecodeMessage([]byte{})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = codec.DecodeMessage(nil)
	assert.ErrorIs(t, err, ErrTruncated)
}
