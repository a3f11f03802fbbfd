package paymentterms

import (
	"math"
	"sort"
)

// The allocator operations are pure: each returns a fresh slice and a
// flag reporting whether the operation applied. Invalid requests are
// clamped or refused, never errors, matching interactive form editing.

// Add appends a new term taking the entire unallocated remainder of the
// plan against total. It refuses (ok=false) when nothing remains.
func Add(terms []Term, total float64) ([]Term, bool) {
	remaining := Remaining(terms)
	if remaining <= epsilon {
		return terms, false
	}
	next := cloneTerms(terms)
	next = append(next, Term{
		ID:         nextID(terms),
		Percentage: remaining,
		Amount:     total * remaining / 100,
		DueType:    DuePesin,
	})
	return next, true
}

// Remove deletes the term with the given id. The last remaining term
// cannot be removed; a plan once started always keeps at least one row.
func Remove(terms []Term, id int64) ([]Term, bool) {
	if len(terms) <= 1 {
		return terms, false
	}
	next := make([]Term, 0, len(terms)-1)
	found := false
	for _, t := range terms {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return terms, false
	}
	return next, true
}

// SetPercentage updates a term's share, clamping the request so the plan
// never exceeds 100%, and recomputes the amount from total.
func SetPercentage(terms []Term, id int64, value, total float64) []Term {
	next := cloneTerms(terms)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		v := clamp(value, maxAllowed(next, id))
		next[i].Percentage = v
		next[i].Amount = total * v / 100
		break
	}
	return next
}

// SetAmount updates a term's amount and derives the percentage from
// total. A zero total yields a zero percentage. The derived percentage
// is clamped the same way SetPercentage clamps direct edits.
func SetAmount(terms []Term, id int64, value, total float64) []Term {
	next := cloneTerms(terms)
	for i := range next {
		if next[i].ID != id {
			continue
		}
		var pct float64
		if total > 0 {
			pct = value / total * 100
		}
		pct = clamp(pct, maxAllowed(next, id))
		next[i].Percentage = pct
		next[i].Amount = total * pct / 100
		break
	}
	return next
}

// Rebase recomputes every amount after the contract total changes,
// keeping the percentage shares fixed.
func Rebase(terms []Term, total float64) []Term {
	next := cloneTerms(terms)
	for i := range next {
		next[i].Amount = total * next[i].Percentage / 100
	}
	return next
}

// PercentageOptions lists the selectable shares for a term: multiples of
// 5 up to its allowance, the allowance itself when off-grid, and the
// term's current value so the present selection is never dropped.
func PercentageOptions(terms []Term, id int64) []float64 {
	limit := maxAllowed(terms, id)
	seen := make(map[float64]bool)
	var opts []float64
	add := func(v float64) {
		if v <= 0 || v > limit+epsilon || seen[v] {
			return
		}
		seen[v] = true
		opts = append(opts, v)
	}
	for v := 5.0; v <= limit+epsilon; v += 5 {
		add(v)
	}
	add(limit)
	for _, t := range terms {
		if t.ID == id {
			add(t.Percentage)
		}
	}
	sort.Float64s(opts)
	return opts
}

// maxAllowed is the share a term may take: 100 minus everyone else's.
func maxAllowed(terms []Term, id int64) float64 {
	var others float64
	for _, t := range terms {
		if t.ID != id {
			others += t.Percentage
		}
	}
	limit := 100 - others
	if limit < 0 {
		return 0
	}
	return limit
}

func clamp(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

func nextID(terms []Term) int64 {
	var max int64
	for _, t := range terms {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func cloneTerms(terms []Term) []Term {
	next := make([]Term, len(terms))
	copy(next, terms)
	return next
}
