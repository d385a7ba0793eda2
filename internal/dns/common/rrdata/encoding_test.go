package rrdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-dig/internal/dns/domain"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		rrType  domain.RRType
		data    string
		want    []byte
		wantErr string
	}{
		{
			name:   "A record",
			rrType: domain.RRTypeA,
			data:   "93.184.216.34",
			want:   []byte{93, 184, 216, 34},
		},
		{
			name:    "A record rejects IPv6",
			rrType:  domain.RRTypeA,
			data:    "2001:db8::1",
			wantErr: "invalid A record IP",
		},
		{
			name:   "AAAA record",
			rrType: domain.RRTypeAAAA,
			data:   "2001:db8::1",
			want:   []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		},
		{
			name:    "AAAA record rejects IPv4",
			rrType:  domain.RRTypeAAAA,
			data:    "192.168.0.1",
			wantErr: "invalid AAAA record IP",
		},
		{
			name:   "CNAME record",
			rrType: domain.RRTypeCNAME,
			data:   "www.example.com",
			want:   []byte{3, 'w', 'w', 'w', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0},
		},
		{
			name:   "MX record",
			rrType: domain.RRTypeMX,
			data:   "10 mail.com",
			want:   []byte{0, 10, 4, 'm', 'a', 'i', 'l', 3, 'c', 'o', 'm', 0},
		},
		{
			name:    "MX record missing exchange",
			rrType:  domain.RRTypeMX,
			data:    "10",
			wantErr: "requires 2 fields",
		},
		{
			name:   "TXT record",
			rrType: domain.RRTypeTXT,
			data:   "hello; world",
			want:   []byte{5, 'h', 'e', 'l', 'l', 'o', 5, 'w', 'o', 'r', 'l', 'd'},
		},
		{
			name:   "SRV record",
			rrType: domain.RRTypeSRV,
			data:   "10 5 8080 host.net",
			want:   []byte{0, 10, 0, 5, 0x1F, 0x90, 4, 'h', 'o', 's', 't', 3, 'n', 'e', 't', 0},
		},
		{
			name:   "CAA record",
			rrType: domain.RRTypeCAA,
			data:   `0 issue "ca.example.net"`,
			want:   append([]byte{0, 5}, []byte("issueca.example.net")...),
		},
		{
			name:    "unsupported type",
			rrType:  domain.RRTypeOPT,
			data:    "anything",
			wantErr: "not implemented",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.rrType, tt.data)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		rrType domain.RRType
		text   string
	}{
		{domain.RRTypeA, "192.168.0.1"},
		{domain.RRTypeAAAA, "2001:db8::1"},
		{domain.RRTypeNS, "ns1.example.com"},
		{domain.RRTypeCNAME, "alias.example.com"},
		{domain.RRTypePTR, "host.example.com"},
		{domain.RRTypeMX, "10 mail.example.com"},
		{domain.RRTypeSRV, "10 5 8080 sip.example.com"},
		{domain.RRTypeSOA, "ns1.example.com admin.example.com 1 3600 600 604800 300"},
	}
	for _, tc := range cases {
		t.Run(tc.rrType.String(), func(t *testing.T) {
			wireForm, err := Encode(tc.rrType, tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.text, Decode(tc.rrType, wireForm))
		})
	}
}
