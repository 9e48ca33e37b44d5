package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatusPattern(t *testing.T) {
	valid := []string{"default", "200", "404", "100", "599", "2XX", "5XX", "2xx"}
	for _, p := range valid {
		assert.True(t, ValidStatusPattern(p), "pattern %q should be valid", p)
	}

	invalid := []string{"", "20", "2000", "6XX", "0XX", "X2X", "abc", "-20"}
	for _, p := range invalid {
		assert.False(t, ValidStatusPattern(p), "pattern %q should be invalid", p)
	}
}

func TestMatchStatusPattern(t *testing.T) {
	tests := []struct {
		pattern string
		code    int
		want    bool
	}{
		{"default", 503, true},
		{"200", 200, true},
		{"200", 201, false},
		{"2XX", 204, true},
		{"2xx", 299, true},
		{"2XX", 301, false},
		{"4XX", 404, true},
		{"5XX", 404, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchStatusPattern(tt.pattern, tt.code),
			"pattern %q against %d", tt.pattern, tt.code)
	}
}

func TestMatchMediaType(t *testing.T) {
	tests := []struct {
		pattern   string
		mediaType string
		want      bool
	}{
		{"*/*", "application/json", true},
		{"application/*", "application/json", true},
		{"application/*", "text/plain", false},
		{"application/json", "application/json", true},
		{"application/json", "application/xml", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchMediaType(tt.pattern, tt.mediaType),
			"pattern %q against %q", tt.pattern, tt.mediaType)
	}
}

func TestIsJSONMediaType(t *testing.T) {
	assert.True(t, IsJSONMediaType("application/json"))
	assert.True(t, IsJSONMediaType("application/problem+json"))
	assert.False(t, IsJSONMediaType("text/plain"))
	assert.False(t, IsJSONMediaType("application/xml"))
}
