package purchasing

import (
	"math"

	"github.com/fuarpro/fuarpro/internal/fx"
)

// Calculator derives purchase line amounts using an injected rate table.
type Calculator struct {
	rates fx.Table
}

// NewCalculator builds a Calculator around a rate table.
func NewCalculator(rates fx.Table) *Calculator {
	return &Calculator{rates: rates}
}

// ComputeLine fills the derived amount fields of a purchase line.
// Negative or non-finite quantity and price resolve to 0; a currency
// missing from the rate table converts at 1.0.
func (c *Calculator) ComputeLine(line PurchaseLine) PurchaseLine {
	line.Quantity = sanitize(line.Quantity)
	line.UnitPrice = sanitize(line.UnitPrice)

	line.NetAmount = line.Quantity * line.UnitPrice
	line.VATAmount = line.NetAmount * line.VATRate / 100
	line.GrossAmount = line.NetAmount + line.VATAmount
	line.AmountTRY = line.GrossAmount * c.rates.Rate(line.Currency)
	return line
}

// ComputeAll recomputes every line of an invoice.
func (c *Calculator) ComputeAll(lines []PurchaseLine) []PurchaseLine {
	out := make([]PurchaseLine, len(lines))
	for i, line := range lines {
		out[i] = c.ComputeLine(line)
	}
	return out
}

// Totals sums the derived amounts across lines.
func Totals(lines []PurchaseLine) (net, vat, gross, try float64) {
	for _, line := range lines {
		net += line.NetAmount
		vat += line.VATAmount
		gross += line.GrossAmount
		try += line.AmountTRY
	}
	return net, vat, gross, try
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
