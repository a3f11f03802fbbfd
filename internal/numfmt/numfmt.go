// Package numfmt converts between numeric values and their Turkish
// display form ("." thousands separator, "," decimal separator).
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Format renders v with "." as thousands separator and "," as decimal
// separator. The shortest decimal representation is used; callers that
// need fixed precision round before formatting.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// Parse is the inverse of Format. The boolean reports whether s held a
// parseable number; unparseable input is not an error, callers treat it
// as "empty".
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseOrZero parses s, resolving unparseable input to 0. This is the
// behavior the calculators expect for free-form quantity and price fields.
func ParseOrZero(s string) float64 {
	v, ok := Parse(s)
	if !ok {
		return 0
	}
	return v
}
