// Package fx provides the exchange-rate table used to express foreign
// currency amounts in TRY.
package fx

import (
	"strings"

	"golang.org/x/text/currency"
)

// Table resolves a TRY conversion rate for a currency code.
type Table interface {
	Rate(code string) float64
}

// StaticTable is a fixed in-memory rate table keyed by ISO currency code.
// A currency missing from the table converts at 1.0. Rates are a
// deployment-time approximation, not a live quote.
type StaticTable map[string]float64

// Rate returns the TRY rate for code, defaulting to 1.0 for unknown codes.
func (t StaticTable) Rate(code string) float64 {
	if r, ok := t[strings.ToUpper(code)]; ok {
		return r
	}
	return 1.0
}

// DefaultTable returns the seed rates used when no override is configured.
func DefaultTable() StaticTable {
	return StaticTable{
		"TRY": 1.0,
		"USD": 34.50,
		"EUR": 36.20,
		"GBP": 43.10,
	}
}

// ValidCode reports whether code is a well-formed ISO 4217 currency code.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}
