// Package paymentterms maintains installment plans: percentage shares of
// a contract amount and the rules that turn a due-type tag into a
// concrete calendar date.
package paymentterms

import (
	"errors"
	"math"
	"time"
)

// DueType tags how a term's due date is derived. The values are the wire
// values the frontend submits.
type DueType string

const (
	// DuePesin is payable on the contract date.
	DuePesin DueType = "pesin"
	// DueKurulum is payable when installation starts.
	DueKurulum DueType = "kurulum"
	// DueTeslim is payable on the fair start date.
	DueTeslim DueType = "teslim"
	// DueTakip is payable a number of days after the fair start date.
	DueTakip DueType = "takip"
	// DueOzel is payable a number of days after the contract date.
	DueOzel DueType = "ozel"
)

// Valid reports whether d is a known due type.
func (d DueType) Valid() bool {
	switch d {
	case DuePesin, DueKurulum, DueTeslim, DueTakip, DueOzel:
		return true
	}
	return false
}

// RequiresDueDays reports whether the due type needs an offset in days.
func (d DueType) RequiresDueDays() bool {
	return d == DueTakip || d == DueOzel
}

// Term is one installment of a payment plan. Percentage and Amount are
// kept in sync through the allocator operations, with the contract
// amount as the conversion factor.
type Term struct {
	ID         int64   `json:"id" db:"id"`
	Percentage float64 `json:"percentage" db:"percentage"`
	Amount     float64 `json:"amount" db:"amount"`
	DueType    DueType `json:"due_type" db:"due_type"`
	DueDays    *int    `json:"due_days,omitempty" db:"due_days"`
	Notes      *string `json:"notes,omitempty" db:"notes"`
}

// Anchors carries the dates a due type may resolve against. Nil means
// the date has not been entered yet.
type Anchors struct {
	ContractDate      *time.Time
	InstallationStart *time.Time
	FairStart         *time.Time
}

// epsilon absorbs float drift when comparing percentage sums.
const epsilon = 1e-9

var (
	// ErrSumNot100 signals a plan whose shares do not add up to 100%.
	ErrSumNot100 = errors.New("paymentterms: percentages must sum to 100")
	// ErrDueDaysRequired signals a takip/ozel term without an offset.
	ErrDueDaysRequired = errors.New("paymentterms: due days required")
	// ErrDueTypeInvalid signals an unknown due type tag.
	ErrDueTypeInvalid = errors.New("paymentterms: invalid due type")
)

// Sum returns the total allocated percentage across terms.
func Sum(terms []Term) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.Percentage
	}
	return sum
}

// Remaining returns the percentage still available for allocation.
func Remaining(terms []Term) float64 {
	return 100 - Sum(terms)
}

// ValidateForSubmit enforces the submission-time rules: shares sum to
// exactly 100% and every takip/ozel term carries its day offset. During
// editing only the sum<=100 invariant holds; this is the final gate.
func ValidateForSubmit(terms []Term) error {
	for _, t := range terms {
		if !t.DueType.Valid() {
			return ErrDueTypeInvalid
		}
		if t.DueType.RequiresDueDays() && (t.DueDays == nil || *t.DueDays < 0) {
			return ErrDueDaysRequired
		}
	}
	if math.Abs(Sum(terms)-100) > epsilon {
		return ErrSumNot100
	}
	return nil
}
