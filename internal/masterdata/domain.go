// Package masterdata manages the reference records the rest of the
// system points at: customers, suppliers, products, bank accounts and
// company credit cards.
package masterdata

import (
	"errors"
	"time"
)

// Customer is an invoiced party.
type Customer struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	TaxNumber     *string   `json:"tax_number,omitempty" db:"tax_number"`
	TaxOffice     *string   `json:"tax_office,omitempty" db:"tax_office"`
	ContactPerson *string   `json:"contact_person,omitempty" db:"contact_person"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Address       *string   `json:"address,omitempty" db:"address"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier is a purchased-from party.
type Supplier struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TaxNumber *string   `json:"tax_number,omitempty" db:"tax_number"`
	TaxOffice *string   `json:"tax_office,omitempty" db:"tax_office"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a sellable line item template with a default price.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Unit      string    `json:"unit" db:"unit"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	VATRate   float64   `json:"vat_rate" db:"vat_rate"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Bank is a company bank account collections land on.
type Bank struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	AccountName string    `json:"account_name" db:"account_name"`
	IBAN        string    `json:"iban" db:"iban"`
	Currency    string    `json:"currency" db:"currency"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreditCard is a company card used on POS terminals.
type CreditCard struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	BankName  *string   `json:"bank_name,omitempty" db:"bank_name"`
	LastFour  *string   `json:"last_four,omitempty" db:"last_four"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerInput is the create/update payload for customers.
type CustomerInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	TaxNumber     *string `json:"tax_number,omitempty" validate:"omitempty,max=20"`
	TaxOffice     *string `json:"tax_office,omitempty" validate:"omitempty,max=100"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=100"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty"`
	Active        *bool   `json:"active,omitempty"`
}

// SupplierInput is the create/update payload for suppliers.
type SupplierInput struct {
	Name      string  `json:"name" validate:"required,max=200"`
	TaxNumber *string `json:"tax_number,omitempty" validate:"omitempty,max=20"`
	TaxOffice *string `json:"tax_office,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Address   *string `json:"address,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// ProductInput is the create/update payload for products.
type ProductInput struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Unit      string  `json:"unit" validate:"required,max=20"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	VATRate   float64 `json:"vat_rate" validate:"gte=0,lte=100"`
	Active    *bool   `json:"active,omitempty"`
}

// BankInput is the create/update payload for bank accounts.
type BankInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	AccountName string `json:"account_name" validate:"required,max=200"`
	IBAN        string `json:"iban" validate:"required,max=34"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Active      *bool  `json:"active,omitempty"`
}

// CreditCardInput is the create/update payload for credit cards.
type CreditCardInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	BankName *string `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	LastFour *string `json:"last_four,omitempty" validate:"omitempty,len=4,numeric"`
	Active   *bool   `json:"active,omitempty"`
}

// ListFilters narrows listings by name search and active flag.
type ListFilters struct {
	Search     string
	OnlyActive bool
	Limit      int
	Offset     int
}

// FormInit bundles the reference lists an entry form needs in one
// round trip.
type FormInit struct {
	Customers   []Customer   `json:"customers"`
	Suppliers   []Supplier   `json:"suppliers"`
	Products    []Product    `json:"products"`
	Banks       []Bank       `json:"banks"`
	CreditCards []CreditCard `json:"credit_cards"`
}

var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("masterdata: not found")
	// ErrDuplicate indicates a unique constraint conflict.
	ErrDuplicate = errors.New("masterdata: duplicate record")
)
