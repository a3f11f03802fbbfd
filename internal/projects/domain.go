// Package projects manages fair projects: the contracted work items,
// the key dates, and the installment plan that collects the contract
// amount.
package projects

import (
	"errors"
	"time"

	"github.com/fuarpro/fuarpro/internal/invoicing"
	"github.com/fuarpro/fuarpro/internal/paymentterms"
)

// ProjectStatus enumerates project statuses.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "ACTIVE"
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusCancelled ProjectStatus = "CANCELLED"
)

// Project model. ContractAmount is either entered manually or derived
// as the sum of item totals; ManualAmount records which one applies.
type Project struct {
	ID                int64                 `json:"id" db:"id"`
	Code              string                `json:"code" db:"code"`
	Name              string                `json:"name" db:"name"`
	CustomerID        int64                 `json:"customer_id" db:"customer_id"`
	FairName          *string               `json:"fair_name,omitempty" db:"fair_name"`
	ContractDate      *time.Time            `json:"contract_date,omitempty" db:"contract_date"`
	InstallationStart *time.Time            `json:"installation_start,omitempty" db:"installation_start"`
	FairStart         *time.Time            `json:"fair_start,omitempty" db:"fair_start"`
	ContractAmount    float64               `json:"contract_amount" db:"contract_amount"`
	ManualAmount      bool                  `json:"manual_amount" db:"manual_amount"`
	Currency          string                `json:"currency" db:"currency"`
	Status            ProjectStatus         `json:"status" db:"status"`
	Notes             *string               `json:"notes,omitempty" db:"notes"`
	Items             []invoicing.LineItem  `json:"items"`
	Terms             []paymentterms.Term   `json:"payment_terms"`
	// DueDates mirrors Terms positionally with each term's resolved
	// due date or missing-input message.
	DueDates  []paymentterms.Resolution `json:"due_dates,omitempty"`
	CreatedAt time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at" db:"updated_at"`
}

// TermInput is a submitted installment row.
type TermInput struct {
	Percentage float64             `json:"percentage" validate:"gte=0,lte=100"`
	DueType    paymentterms.DueType `json:"due_type" validate:"required"`
	DueDays    *int                `json:"due_days,omitempty" validate:"omitempty,gte=0"`
	Notes      *string             `json:"notes,omitempty"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name              string                    `json:"name" validate:"required,max=200"`
	CustomerID        int64                     `json:"customer_id" validate:"required,gt=0"`
	FairName          *string                   `json:"fair_name,omitempty" validate:"omitempty,max=200"`
	ContractDate      *time.Time                `json:"contract_date,omitempty"`
	InstallationStart *time.Time                `json:"installation_start,omitempty"`
	FairStart         *time.Time                `json:"fair_start,omitempty"`
	ContractAmount    *float64                  `json:"contract_amount,omitempty" validate:"omitempty,gte=0"`
	Currency          string                    `json:"currency" validate:"required,len=3"`
	Notes             *string                   `json:"notes,omitempty"`
	Items             []invoicing.LineItemInput `json:"items" validate:"dive"`
	Terms             []TermInput               `json:"payment_terms" validate:"required,min=1,dive"`
}

// UpdateProjectRequest replaces a project's content.
type UpdateProjectRequest = CreateProjectRequest

// ListProjectsRequest filters project listings.
type ListProjectsRequest struct {
	CustomerID int64
	Status     ProjectStatus
	Limit      int
	Offset     int
}

var (
	// ErrNotFound indicates the project does not exist.
	ErrNotFound = errors.New("projects: not found")
	// ErrInvalidCurrency indicates an unknown currency code.
	ErrInvalidCurrency = errors.New("projects: invalid currency code")
	// ErrNoContractAmount indicates neither a manual amount nor items.
	ErrNoContractAmount = errors.New("projects: contract amount or items required")
)
