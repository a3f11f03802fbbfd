package invoicing

import "math"

// LineTotal computes a row total. Negative or non-finite inputs resolve
// to 0, mirroring how unparseable form fields are treated upstream.
func LineTotal(quantity, unitPrice float64) float64 {
	return sanitize(quantity) * sanitize(unitPrice)
}

// NormalizeItems returns items with every derived Total recomputed.
func NormalizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.Quantity = sanitize(item.Quantity)
		item.UnitPrice = sanitize(item.UnitPrice)
		item.Total = LineTotal(item.Quantity, item.UnitPrice)
		out[i] = item
	}
	return out
}

// ComputeTotals derives the totals aggregate from line items, a discount
// and a VAT rate. It is a total function: every input produces a result.
//
// The discount is applied literally, never capped. A fixed discount
// above the subtotal (or a percentage above 100) yields a negative
// discounted subtotal and a correspondingly reduced total; the
// DiscountExceeds flag carries the warning, the arithmetic stands.
func ComputeTotals(items []LineItem, discount float64, discountType DiscountType, vatRate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += LineTotal(item.Quantity, item.UnitPrice)
	}

	discount = sanitize(discount)
	vatRate = sanitize(vatRate)

	var discountAmount float64
	var exceeds bool
	switch discountType {
	case DiscountPercentage:
		discountAmount = subtotal * discount / 100
		exceeds = discount > 100
	case DiscountFixed:
		discountAmount = discount
		exceeds = discount > subtotal
	}

	discounted := subtotal - discountAmount
	vatAmount := discounted * vatRate / 100

	return Totals{
		Subtotal:           subtotal,
		DiscountAmount:     discountAmount,
		DiscountedSubtotal: discounted,
		VATAmount:          vatAmount,
		Total:              discounted + vatAmount,
		DiscountExceeds:    exceeds,
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
