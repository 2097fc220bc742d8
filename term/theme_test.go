package term

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"termcast/asciicast"
)

func TestResolveTheme(t *testing.T) {
	header := &asciicast.Theme{Foreground: "#111111"}
	caller := &asciicast.Theme{Foreground: "#222222"}
	fallback := &asciicast.Theme{Foreground: "#333333"}

	tests := []struct {
		name                     string
		header, caller, fallback *asciicast.Theme
		want                     *asciicast.Theme
	}{
		{"header wins over both", header, caller, fallback, header},
		{"header wins over fallback", header, nil, fallback, header},
		{"caller wins over fallback", nil, caller, fallback, caller},
		{"fallback when alone", nil, nil, fallback, fallback},
		{"nil when nothing resolvable", nil, nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTheme(tt.header, tt.caller, tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}
