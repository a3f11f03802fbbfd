package purchasing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuarpro/fuarpro/internal/fx"
)

func testTable() fx.StaticTable {
	return fx.StaticTable{"TRY": 1.0, "USD": 34.50, "EUR": 36.20}
}

func TestComputeLine(t *testing.T) {
	calc := NewCalculator(testTable())

	line := calc.ComputeLine(PurchaseLine{Quantity: 10, UnitPrice: 5, Currency: "USD", VATRate: 20})
	assert.InDelta(t, 50, line.NetAmount, 1e-9)
	assert.InDelta(t, 10, line.VATAmount, 1e-9)
	assert.InDelta(t, 60, line.GrossAmount, 1e-9)
	assert.InDelta(t, 2070, line.AmountTRY, 1e-9)
}

func TestComputeLineUnknownCurrencyRateOne(t *testing.T) {
	calc := NewCalculator(testTable())

	line := calc.ComputeLine(PurchaseLine{Quantity: 2, UnitPrice: 100, Currency: "CHF", VATRate: 18})
	assert.InDelta(t, 236, line.GrossAmount, 1e-9)
	assert.InDelta(t, 236, line.AmountTRY, 1e-9, "unknown currency converts at 1.0")
}

func TestComputeLineSanitizesInputs(t *testing.T) {
	calc := NewCalculator(testTable())

	line := calc.ComputeLine(PurchaseLine{Quantity: -3, UnitPrice: 50, Currency: "TRY", VATRate: 20})
	assert.Equal(t, 0.0, line.NetAmount)
	assert.Equal(t, 0.0, line.AmountTRY)
}

func TestComputeAllAndTotals(t *testing.T) {
	calc := NewCalculator(testTable())

	lines := calc.ComputeAll([]PurchaseLine{
		{Quantity: 1, UnitPrice: 100, Currency: "TRY", VATRate: 20},
		{Quantity: 10, UnitPrice: 5, Currency: "USD", VATRate: 20},
	})
	net, vat, gross, try := Totals(lines)
	assert.InDelta(t, 150, net, 1e-9)
	assert.InDelta(t, 30, vat, 1e-9)
	assert.InDelta(t, 180, gross, 1e-9)
	assert.InDelta(t, 120+2070, try, 1e-9)
}

func TestValidVATRate(t *testing.T) {
	for _, r := range []float64{0, 1, 8, 10, 18, 20} {
		assert.True(t, ValidVATRate(r), "rate %v", r)
	}
	assert.False(t, ValidVATRate(15))
	assert.False(t, ValidVATRate(-1))
}
