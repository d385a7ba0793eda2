package boltcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name  string
		n     uint64
		p     float64
		wantM uint64
		wantK uint8
	}{
		{name: "10k at 1%", n: 10000, p: 0.01, wantM: 95851, wantK: 7},
		{name: "1k at 0.1%", n: 1000, p: 0.001, wantM: 14378, wantK: 10},
		{name: "zero n clamps to one", n: 0, p: 0.01, wantM: 10, wantK: 7},
		{name: "invalid p falls back to 1%", n: 1000, p: 1.5, wantM: 9586, wantK: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, k := size(tt.n, tt.p)
			assert.Equal(t, tt.wantM, m)
			assert.Equal(t, tt.wantK, k)
		})
	}
}
