package wire

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-dig/internal/dns/domain"
)

// These tests check the codec against miekg/dns, an independent
// implementation of the wire format.

func TestDecodeMessage_MiekgCompressedResponse(t *testing.T) {
	req := new(dns.Msg)
	req.SetQuestion("www.example.com.", dns.TypeA)
	req.Id = 0x4242

	resp := new(dns.Msg)
	resp.SetReply(req)
	resp.Compress = true
	a1, err := dns.NewRR("www.example.com. 300 IN A 192.0.2.1")
	require.NoError(t, err)
	a2, err := dns.NewRR("www.example.com. 300 IN A 192.0.2.2")
	require.NoError(t, err)
	txt, err := dns.NewRR(`www.example.com. 60 IN TXT "v=spf1 -all"`)
	require.NoError(t, err)
	resp.Answer = []dns.RR{a1, a2, txt}

	packed, err := resp.Pack()
	require.NoError(t, err)

	codec := newTestCodec(1)
	msg, err := codec.DecodeMessage(packed)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x4242), msg.Header.ID)
	assert.True(t, msg.IsResponse())
	require.Len(t, msg.Questions, 1)
	assert.Equal(t, "www.example.com", msg.Questions[0].Name)
	assert.Equal(t, domain.RRTypeA, msg.Questions[0].Type)

	require.Len(t, msg.Answers, 3)
	// Answer names were compression pointers back at the question.
	assert.Equal(t, "www.example.com", msg.Answers[0].Name)
	assert.Equal(t, "www.example.com", msg.Answers[1].Name)
	assert.Equal(t, "www.example.com", msg.Answers[2].Name)
	assert.Equal(t, []byte{192, 0, 2, 1}, msg.Answers[0].Data)
	assert.Equal(t, []byte{192, 0, 2, 2}, msg.Answers[1].Data)
	assert.Equal(t, uint32(300), msg.Answers[0].TTL)
	assert.Equal(t, domain.RRTypeTXT, msg.Answers[2].Type)
	assert.Equal(t, append([]byte{11}, []byte("v=spf1 -all")...), msg.Answers[2].Data)
}

func TestBuildQuery_MiekgCanParseIt(t *testing.T) {
	codec := newTestCodec(0x7777)

	query, err := codec.BuildQuery("www.example.com", domain.RRTypeAAAA)
	require.NoError(t, err)

	var parsed dns.Msg
	require.NoError(t, parsed.Unpack(query))

	assert.Equal(t, uint16(0x7777), parsed.Id)
	assert.False(t, parsed.Response)
	assert.True(t, parsed.RecursionDesired)
	require.Len(t, parsed.Question, 1)
	assert.Equal(t, "www.example.com.", parsed.Question[0].Name)
	assert.Equal(t, dns.TypeAAAA, parsed.Question[0].Qtype)
	assert.Equal(t, uint16(dns.ClassINET), parsed.Question[0].Qclass)
}

func TestDecodeMessage_MiekgAuthorityAndAdditional(t *testing.T) {
	req := new(dns.Msg)
	req.SetQuestion("example.com.", dns.TypeNS)
	req.Id = 9

	resp := new(dns.Msg)
	resp.SetReply(req)
	resp.Compress = true
	ns, err := dns.NewRR("example.com. 3600 IN NS ns1.example.com.")
	require.NoError(t, err)
	soa, err := dns.NewRR("example.com. 3600 IN SOA ns1.example.com. admin.example.com. 1 7200 600 86400 300")
	require.NoError(t, err)
	// Extra owner reuses the question name: pointer targets stay at
	// whole-name offsets, the only targets a backward-walking decoder has
	// registered. Names that first appear inside rdata are opaque here.
	extra, err := dns.NewRR("example.com. 3600 IN TXT \"gen=1\"")
	require.NoError(t, err)
	resp.Answer = []dns.RR{ns}
	resp.Ns = []dns.RR{soa}
	resp.Extra = []dns.RR{extra}

	packed, err := resp.Pack()
	require.NoError(t, err)

	codec := newTestCodec(1)
	msg, err := codec.DecodeMessage(packed)
	require.NoError(t, err)

	require.Len(t, msg.Answers, 1)
	require.Len(t, msg.Authority, 1)
	require.Len(t, msg.Additional, 1)
	assert.Equal(t, "example.com", msg.Authority[0].Name)
	assert.Equal(t, domain.RRTypeSOA, msg.Authority[0].Type)
	assert.Equal(t, "example.com", msg.Additional[0].Name)
	assert.Equal(t, domain.RRTypeTXT, msg.Additional[0].Type)
}
