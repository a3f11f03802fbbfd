// Package invoicing manages sales invoices: line items, discount and
// VAT totals, and persistence.
package invoicing

import (
	"errors"
	"time"
)

// InvoiceStatus enumerates invoice statuses.
type InvoiceStatus string

const (
	StatusDraft  InvoiceStatus = "DRAFT"
	StatusIssued InvoiceStatus = "ISSUED"
	StatusPaid   InvoiceStatus = "PAID"
	StatusVoid   InvoiceStatus = "VOID"
)

// DiscountType selects how the discount figure is interpreted.
type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// LineItem is one invoice row. Total is derived from quantity and unit
// price and is recomputed server side on every write.
type LineItem struct {
	ID          int64   `json:"id" db:"id"`
	Description string  `json:"description" db:"description"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	Unit        string  `json:"unit" db:"unit"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Total       float64 `json:"total" db:"total"`
	ProductID   *int64  `json:"product_id,omitempty" db:"product_id"`
}

// Totals is the derived aggregate over an invoice's items. It has no
// independent lifecycle; it is recomputed from its inputs on any change.
type Totals struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	VATAmount          float64 `json:"vat_amount"`
	Total              float64 `json:"total"`
	// DiscountExceeds warns that the discount is beyond its natural
	// bound (over 100% or above the subtotal). Totals still reflect the
	// raw value; submission is never blocked on this.
	DiscountExceeds bool `json:"discount_exceeds,omitempty"`
}

// Invoice model.
type Invoice struct {
	ID           int64         `json:"id" db:"id"`
	Number       string        `json:"number" db:"number"`
	CustomerID   int64         `json:"customer_id" db:"customer_id"`
	ProjectID    *int64        `json:"project_id,omitempty" db:"project_id"`
	Currency     string        `json:"currency" db:"currency"`
	IssueDate    time.Time     `json:"issue_date" db:"issue_date"`
	Discount     float64       `json:"discount" db:"discount"`
	DiscountType DiscountType  `json:"discount_type" db:"discount_type"`
	VATRate      float64       `json:"vat_rate" db:"vat_rate"`
	Status       InvoiceStatus `json:"status" db:"status"`
	Notes        *string       `json:"notes,omitempty" db:"notes"`
	Items        []LineItem    `json:"items"`
	Totals       Totals        `json:"totals"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// LineItemInput is a submitted invoice row.
type LineItemInput struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit" validate:"omitempty,max=20"`
	UnitPrice   float64 `json:"unit_price"`
	ProductID   *int64  `json:"product_id,omitempty"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	CustomerID   int64           `json:"customer_id" validate:"required,gt=0"`
	ProjectID    *int64          `json:"project_id,omitempty" validate:"omitempty,gt=0"`
	Currency     string          `json:"currency" validate:"required,len=3"`
	IssueDate    time.Time       `json:"issue_date" validate:"required"`
	Discount     float64         `json:"discount"`
	DiscountType DiscountType    `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	VATRate      float64         `json:"vat_rate" validate:"gte=0"`
	Notes        *string         `json:"notes,omitempty"`
	Items        []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest is the payload for replacing a draft invoice.
type UpdateInvoiceRequest struct {
	CustomerID   int64           `json:"customer_id" validate:"required,gt=0"`
	ProjectID    *int64          `json:"project_id,omitempty" validate:"omitempty,gt=0"`
	Currency     string          `json:"currency" validate:"required,len=3"`
	IssueDate    time.Time       `json:"issue_date" validate:"required"`
	Discount     float64         `json:"discount"`
	DiscountType DiscountType    `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	VATRate      float64         `json:"vat_rate" validate:"gte=0"`
	Notes        *string         `json:"notes,omitempty"`
	Items        []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

// ListInvoicesRequest filters invoice listings.
type ListInvoicesRequest struct {
	CustomerID int64
	ProjectID  int64
	Status     InvoiceStatus
	Limit      int
	Offset     int
}

var (
	// ErrNotFound indicates the invoice does not exist.
	ErrNotFound = errors.New("invoicing: not found")
	// ErrNotEditable indicates the invoice left the draft state.
	ErrNotEditable = errors.New("invoicing: only draft invoices can be edited")
	// ErrInvalidStatus indicates a disallowed status transition.
	ErrInvalidStatus = errors.New("invoicing: invalid status transition")
	// ErrInvalidCurrency indicates an unknown currency code.
	ErrInvalidCurrency = errors.New("invoicing: invalid currency code")
)
