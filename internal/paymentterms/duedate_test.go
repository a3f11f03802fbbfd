package paymentterms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) *time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestResolve(t *testing.T) {
	days30 := 30
	days10 := 10
	anchors := Anchors{
		ContractDate:      date("2025-03-15"),
		InstallationStart: date("2025-05-28"),
		FairStart:         date("2025-06-01"),
	}

	tests := []struct {
		name    string
		term    Term
		anchors Anchors
		want    string
		missing string
	}{
		{name: "pesin on contract date", term: Term{DueType: DuePesin}, anchors: anchors, want: "2025-03-15"},
		{name: "kurulum on installation start", term: Term{DueType: DueKurulum}, anchors: anchors, want: "2025-05-28"},
		{name: "teslim on fair start", term: Term{DueType: DueTeslim}, anchors: anchors, want: "2025-06-01"},
		{name: "takip offsets fair start", term: Term{DueType: DueTakip, DueDays: &days30}, anchors: anchors, want: "2025-07-01"},
		{name: "ozel offsets contract date", term: Term{DueType: DueOzel, DueDays: &days10}, anchors: anchors, want: "2025-03-25"},

		{name: "pesin missing contract date", term: Term{DueType: DuePesin}, missing: msgContractDate},
		{name: "kurulum missing installation start", term: Term{DueType: DueKurulum}, missing: msgInstallationStart},
		{name: "teslim missing fair start", term: Term{DueType: DueTeslim}, missing: msgFairStart},
		{name: "takip missing fair start", term: Term{DueType: DueTakip, DueDays: &days30}, missing: msgFairStart},
		{name: "takip missing due days", term: Term{DueType: DueTakip}, anchors: anchors, missing: msgDueDays},
		{name: "ozel missing due days", term: Term{DueType: DueOzel}, anchors: anchors, missing: msgDueDays},
		{name: "unknown due type", term: Term{DueType: DueType("yarin")}, anchors: anchors, missing: msgDueType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.term, tt.anchors)
			if tt.missing != "" {
				assert.False(t, res.Valid)
				assert.Equal(t, tt.missing, res.Message)
				assert.Empty(t, res.Display)
				return
			}
			assert.True(t, res.Valid)
			assert.Equal(t, tt.want, res.Display)
		})
	}
}

func TestResolveCrossesMonthEnd(t *testing.T) {
	days := 45
	res := Resolve(Term{DueType: DueOzel, DueDays: &days}, Anchors{ContractDate: date("2025-12-20")})
	assert.True(t, res.Valid)
	assert.Equal(t, "2026-02-03", res.Display)
}

func TestResolveAll(t *testing.T) {
	days := 30
	terms := []Term{
		{ID: 1, DueType: DuePesin},
		{ID: 2, DueType: DueTakip, DueDays: &days},
	}
	out := ResolveAll(terms, Anchors{ContractDate: date("2025-01-10")})
	assert.Len(t, out, 2)
	assert.True(t, out[0].Valid)
	assert.Equal(t, "2025-01-10", out[0].Display)
	assert.False(t, out[1].Valid)
	assert.Equal(t, msgFairStart, out[1].Message)
}
