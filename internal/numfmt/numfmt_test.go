package numfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1234.5, "1.234,5"},
		{1234567.89, "1.234.567,89"},
		{50, "50"},
		{0.25, "0,25"},
		{-12345.75, "-12.345,75"},
		{100, "100"},
		{1000, "1.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.234,56", 1234.56, true},
		{"1.234.567,89", 1234567.89, true},
		{"250", 250, true},
		{"0,5", 0.5, true},
		{"-1", -1, true},
		{"  1.000 ", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, "Parse(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 1234.5, 1234567.89, -1, 0.1, 999999.99, -0.05} {
		got, ok := Parse(Format(v))
		require.True(t, ok, "round trip of %v", v)
		assert.Equal(t, v, got, "round trip of %v", v)
	}
}

func TestParseOrZero(t *testing.T) {
	assert.Equal(t, 0.0, ParseOrZero("not a number"))
	assert.Equal(t, 12.5, ParseOrZero("12,5"))
}
