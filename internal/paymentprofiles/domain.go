// Package paymentprofiles manages reusable installment templates. A
// profile captures a percentage split plus due rules; applying it to a
// contract total materializes concrete payment terms.
package paymentprofiles

import (
	"errors"
	"time"

	"github.com/fuarpro/fuarpro/internal/paymentterms"
)

// ProfileTerm is one row of a profile template.
type ProfileTerm struct {
	ID         int64                `json:"id" db:"id"`
	Percentage float64              `json:"percentage" db:"percentage"`
	DueType    paymentterms.DueType `json:"due_type" db:"due_type"`
	DueDays    *int                 `json:"due_days,omitempty" db:"due_days"`
	Notes      *string              `json:"notes,omitempty" db:"notes"`
}

// Profile is a named installment template.
type Profile struct {
	ID        int64         `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Active    bool          `json:"active" db:"active"`
	Terms     []ProfileTerm `json:"terms"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// ProfileTermInput is a submitted template row.
type ProfileTermInput struct {
	Percentage float64              `json:"percentage" validate:"gte=0,lte=100"`
	DueType    paymentterms.DueType `json:"due_type" validate:"required"`
	DueDays    *int                 `json:"due_days,omitempty" validate:"omitempty,gte=0"`
	Notes      *string              `json:"notes,omitempty"`
}

// CreateProfileRequest is the payload for creating a profile.
type CreateProfileRequest struct {
	Name   string             `json:"name" validate:"required,max=100"`
	Active *bool              `json:"active,omitempty"`
	Terms  []ProfileTermInput `json:"terms" validate:"required,min=1,dive"`
}

// UpdateProfileRequest replaces a profile's content.
type UpdateProfileRequest = CreateProfileRequest

// ApplyProfileRequest materializes a profile against a total.
type ApplyProfileRequest struct {
	Total float64 `json:"total" validate:"gte=0"`
}

var (
	// ErrNotFound indicates the profile does not exist.
	ErrNotFound = errors.New("paymentprofiles: not found")
	// ErrDuplicateName indicates a profile with the same name exists.
	ErrDuplicateName = errors.New("paymentprofiles: name already in use")
	// ErrInactive indicates the profile cannot be applied.
	ErrInactive = errors.New("paymentprofiles: profile is inactive")
)
