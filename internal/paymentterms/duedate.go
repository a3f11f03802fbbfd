package paymentterms

import "time"

// dateLayout is the wire format for resolved due dates.
const dateLayout = "2006-01-02"

// Resolution is the outcome of resolving a term's due date. When Valid
// is false, Message names the missing prerequisite instead of a date.
type Resolution struct {
	Date    time.Time `json:"-"`
	Valid   bool      `json:"valid"`
	Display string    `json:"display"`
	Message string    `json:"message,omitempty"`
}

// Missing-input messages per due type prerequisite.
const (
	msgContractDate      = "contract date not set"
	msgInstallationStart = "installation start date not set"
	msgFairStart         = "fair start date not set"
	msgDueDays           = "due days not set"
	msgDueType           = "unknown due type"
)

// Resolve derives a term's concrete due date from the anchor dates.
// Day offsets are plain calendar-day addition; there is no business-day
// or timezone handling. Missing inputs produce a message, never an error.
func Resolve(term Term, anchors Anchors) Resolution {
	switch term.DueType {
	case DuePesin:
		return fromAnchor(anchors.ContractDate, msgContractDate, 0)
	case DueKurulum:
		return fromAnchor(anchors.InstallationStart, msgInstallationStart, 0)
	case DueTeslim:
		return fromAnchor(anchors.FairStart, msgFairStart, 0)
	case DueTakip:
		if term.DueDays == nil {
			return missing(msgDueDays)
		}
		return fromAnchor(anchors.FairStart, msgFairStart, *term.DueDays)
	case DueOzel:
		if term.DueDays == nil {
			return missing(msgDueDays)
		}
		return fromAnchor(anchors.ContractDate, msgContractDate, *term.DueDays)
	default:
		return missing(msgDueType)
	}
}

// ResolveAll resolves every term in a plan against the same anchors.
func ResolveAll(terms []Term, anchors Anchors) []Resolution {
	out := make([]Resolution, len(terms))
	for i, t := range terms {
		out[i] = Resolve(t, anchors)
	}
	return out
}

func fromAnchor(anchor *time.Time, missingMsg string, offsetDays int) Resolution {
	if anchor == nil {
		return missing(missingMsg)
	}
	due := anchor.AddDate(0, 0, offsetDays)
	return Resolution{Date: due, Valid: true, Display: due.Format(dateLayout)}
}

func missing(msg string) Resolution {
	return Resolution{Valid: false, Message: msg}
}
