package whiteboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateColor(t *testing.T) {
	tests := []struct {
		name      string
		occupancy int
		want      string
	}{
		{"first member", 0, "#e6194b"},
		{"second member", 1, "#3cb44b"},
		{"last palette entry", 7, "#9a6324"},
		{"wraps around", 8, "#e6194b"},
		{"wraps twice", 17, "#3cb44b"},
		{"negative treated as empty", -3, "#e6194b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllocateColor("board", tt.occupancy))
		})
	}
}

func TestAllocateColorIgnoresSessionID(t *testing.T) {
	for n := 0; n < 16; n++ {
		assert.Equal(t, AllocateColor("a", n), AllocateColor("b", n))
	}
}
