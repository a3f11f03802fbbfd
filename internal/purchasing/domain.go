// Package purchasing manages supplier purchase invoices and their
// per-line net/VAT/gross/TRY amounts.
package purchasing

import (
	"errors"
	"time"
)

// VATRates are the selectable Turkish VAT percentages.
var VATRates = []float64{0, 1, 8, 10, 18, 20}

// ValidVATRate reports whether rate is one of the selectable values.
func ValidVATRate(rate float64) bool {
	for _, r := range VATRates {
		if r == rate {
			return true
		}
	}
	return false
}

// PurchaseLine is one row of a purchase invoice. The amount fields are
// derived and recomputed whenever quantity, price, rate or currency change.
type PurchaseLine struct {
	ID          int64   `json:"id" db:"id"`
	Description string  `json:"description" db:"description"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Currency    string  `json:"currency" db:"currency"`
	VATRate     float64 `json:"vat_rate" db:"vat_rate"`
	NetAmount   float64 `json:"net_amount" db:"net_amount"`
	VATAmount   float64 `json:"vat_amount" db:"vat_amount"`
	GrossAmount float64 `json:"gross_amount" db:"gross_amount"`
	AmountTRY   float64 `json:"amount_try" db:"amount_try"`
}

// PurchaseInvoice model.
type PurchaseInvoice struct {
	ID         int64          `json:"id" db:"id"`
	Number     string         `json:"number" db:"number"`
	SupplierID int64          `json:"supplier_id" db:"supplier_id"`
	IssueDate  time.Time      `json:"issue_date" db:"issue_date"`
	Notes      *string        `json:"notes,omitempty" db:"notes"`
	Lines      []PurchaseLine `json:"lines"`
	TotalNet   float64        `json:"total_net"`
	TotalVAT   float64        `json:"total_vat"`
	TotalGross float64        `json:"total_gross"`
	TotalTRY   float64        `json:"total_try"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// PurchaseLineInput is a submitted purchase row.
type PurchaseLineInput struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	VATRate     float64 `json:"vat_rate"`
}

// CreatePurchaseInvoiceRequest is the payload for recording a purchase invoice.
type CreatePurchaseInvoiceRequest struct {
	SupplierID int64               `json:"supplier_id" validate:"required,gt=0"`
	Number     string              `json:"number" validate:"required,max=50"`
	IssueDate  time.Time           `json:"issue_date" validate:"required"`
	Notes      *string             `json:"notes,omitempty"`
	Lines      []PurchaseLineInput `json:"lines" validate:"required,min=1,dive"`
}

// UpdatePurchaseInvoiceRequest replaces an existing purchase invoice.
type UpdatePurchaseInvoiceRequest = CreatePurchaseInvoiceRequest

// ListPurchaseInvoicesRequest filters purchase invoice listings.
type ListPurchaseInvoicesRequest struct {
	SupplierID int64
	Limit      int
	Offset     int
}

var (
	// ErrNotFound indicates the purchase invoice does not exist.
	ErrNotFound = errors.New("purchasing: not found")
	// ErrInvalidVATRate indicates a rate outside the selectable set.
	ErrInvalidVATRate = errors.New("purchasing: invalid vat rate")
	// ErrInvalidCurrency indicates an unknown currency code.
	ErrInvalidCurrency = errors.New("purchasing: invalid currency code")
)
