// Package collections records customer payments against issued
// invoices and reports outstanding receivables by age.
package collections

import (
	"errors"
	"time"
)

// Method enumerates how a payment was collected.
type Method string

const (
	MethodHavale     Method = "havale"
	MethodKrediKarti Method = "kredi_karti"
	MethodCek        Method = "cek"
	MethodNakit      Method = "nakit"
)

// ValidMethod reports whether m is a known collection method.
func ValidMethod(m Method) bool {
	switch m {
	case MethodHavale, MethodKrediKarti, MethodCek, MethodNakit:
		return true
	}
	return false
}

// Collection is one received payment. Bank transfers and cheques carry
// the receiving bank account; card payments carry the terminal card.
type Collection struct {
	ID           int64     `json:"id" db:"id"`
	ReceiptNo    string    `json:"receipt_no" db:"receipt_no"`
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	InvoiceID    *int64    `json:"invoice_id,omitempty" db:"invoice_id"`
	Method       Method    `json:"method" db:"method"`
	BankID       *int64    `json:"bank_id,omitempty" db:"bank_id"`
	CreditCardID *int64    `json:"credit_card_id,omitempty" db:"credit_card_id"`
	Amount       float64   `json:"amount" db:"amount"`
	CollectedAt  time.Time `json:"collected_at" db:"collected_at"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateCollectionRequest is the payload for recording a payment.
type CreateCollectionRequest struct {
	CustomerID   int64     `json:"customer_id" validate:"required,gt=0"`
	InvoiceID    *int64    `json:"invoice_id,omitempty" validate:"omitempty,gt=0"`
	Method       Method    `json:"method" validate:"required"`
	BankID       *int64    `json:"bank_id,omitempty" validate:"omitempty,gt=0"`
	CreditCardID *int64    `json:"credit_card_id,omitempty" validate:"omitempty,gt=0"`
	Amount       float64   `json:"amount" validate:"required,gt=0"`
	CollectedAt  time.Time `json:"collected_at" validate:"required"`
	Notes        *string   `json:"notes,omitempty"`
}

// ListCollectionsRequest filters collection listings.
type ListCollectionsRequest struct {
	CustomerID int64
	InvoiceID  int64
	Limit      int
	Offset     int
}

// OutstandingInvoice is an issued invoice with its uncollected
// remainder, used to build the aging report.
type OutstandingInvoice struct {
	InvoiceID  int64
	CustomerID int64
	Remaining  float64
	DueAt      time.Time
}

// AgingBucket summarises outstanding receivables by days overdue.
type AgingBucket struct {
	Current   float64 `json:"current"`
	Bucket30  float64 `json:"bucket_30"`
	Bucket60  float64 `json:"bucket_60"`
	Bucket90  float64 `json:"bucket_90"`
	Bucket120 float64 `json:"bucket_120"`
}

// Total sums every bucket.
func (b AgingBucket) Total() float64 {
	return b.Current + b.Bucket30 + b.Bucket60 + b.Bucket90 + b.Bucket120
}

var (
	// ErrNotFound indicates the collection does not exist.
	ErrNotFound = errors.New("collections: not found")
	// ErrInvalidMethod indicates an unknown collection method.
	ErrInvalidMethod = errors.New("collections: invalid method")
	// ErrBankRequired indicates a transfer or cheque without a bank.
	ErrBankRequired = errors.New("collections: bank required for this method")
	// ErrCardRequired indicates a card payment without a card.
	ErrCardRequired = errors.New("collections: credit card required for this method")
	// ErrOverpayment indicates the amount exceeds the invoice remainder.
	ErrOverpayment = errors.New("collections: amount exceeds invoice remainder")
)
