package domain

import (
	"testing"
)

func TestHeader_FlagAccessors(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
		check func(h Header) bool
	}{
		{"QR set means response", 0x8000, func(h Header) bool { return h.IsResponse() }},
		{"QR clear means query", 0x0000, func(h Header) bool { return !h.IsResponse() }},
		{"AA bit", 0x0400, func(h Header) bool { return h.Authoritative() }},
		{"TC bit", 0x0200, func(h Header) bool { return h.Truncated() }},
		{"RD bit", 0x0100, func(h Header) bool { return h.RecursionDesired() }},
		{"RA bit", 0x0080, func(h Header) bool { return h.RecursionAvailable() }},
		{"no stray bits read as flags", 0x0000, func(h Header) bool {
			return !h.Authoritative() && !h.Truncated() && !h.RecursionDesired() && !h.RecursionAvailable()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Header{Flags: tt.flags}
			if !tt.check(h) {
				t.Errorf("flags %#04x: accessor check failed", tt.flags)
			}
		})
	}
}

func TestHeader_Opcode(t *testing.T) {
	tests := []struct {
		name   string
		flags  uint16
		opcode uint8
	}{
		{"standard query", 0x0100, 0},
		{"inverse query", 0x0800, 1},
		{"status", 0x1000, 2},
		{"opcode isolated from neighbors", 0x8000 | 0x2800 | 0x0001, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Header{Flags: tt.flags}
			if got := h.Opcode(); got != tt.opcode {
				t.Errorf("Opcode() = %d, want %d", got, tt.opcode)
			}
		})
	}
}

func TestHeader_RCode(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
		rcode RCode
	}{
		{"NOERROR", 0x8180, RCodeNoError},
		{"NXDOMAIN", 0x8183, RCodeNXDomain},
		{"SERVFAIL", 0x8182, RCodeServFail},
		{"REFUSED", 0x8185, RCodeRefused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Header{Flags: tt.flags}
			if got := h.RCode(); got != tt.rcode {
				t.Errorf("RCode() = %v, want %v", got, tt.rcode)
			}
		})
	}
}

func TestHeader_QueryFlagsAreJustRD(t *testing.T) {
	h := Header{Flags: FlagRD}
	if h.IsResponse() {
		t.Error("query header must not carry QR")
	}
	if !h.RecursionDesired() {
		t.Error("query header must carry RD")
	}
	if h.Opcode() != 0 {
		t.Errorf("query opcode = %d, want 0", h.Opcode())
	}
	if h.RCode() != RCodeNoError {
		t.Errorf("query rcode = %v, want NOERROR", h.RCode())
	}
}
