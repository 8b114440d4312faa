package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cafe A", "cafe-a"},
		{"  La  Piazza!! ", "la-piazza"},
		{"Burger#1", "burger-1"},
		{"---", ""},
		{"already-valid", "already-valid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Make(tt.in), "Make(%q)", tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("cafe-a"))
	assert.False(t, Valid("Cafe A"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("-cafe"))
}
