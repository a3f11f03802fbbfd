package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuarpro/fuarpro/internal/paymentterms"
	"github.com/fuarpro/fuarpro/internal/projects"
)

type stubSource struct {
	projects []projects.Project
	err      error
}

func (s *stubSource) ActiveProjects(ctx context.Context) ([]projects.Project, error) {
	return s.projects, s.err
}

type stubNotifier struct {
	sent []SendEmailPayload
}

func (n *stubNotifier) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	n.sent = append(n.sent, payload)
	return &asynq.TaskInfo{}, nil
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testProject() projects.Project {
	contract := day("2025-06-01")
	fair := day("2025-06-20")
	return projects.Project{
		ID:           1,
		Code:         "PRJ-2025-0001",
		Name:         "İzmir Gıda Fuarı standı",
		Currency:     "TRY",
		ContractDate: &contract,
		FairStart:    &fair,
		Terms: []paymentterms.Term{
			{ID: 1, Percentage: 50, Amount: 50000, DueType: paymentterms.DuePesin},
			{ID: 2, Percentage: 50, Amount: 50000, DueType: paymentterms.DueTakip, DueDays: ptr(30)},
		},
	}
}

func TestScanFindsTermsInsideWindow(t *testing.T) {
	job := NewTermsDueScanJob(&stubSource{projects: []projects.Project{testProject()}}, nil, "", slog.Default(), 7)

	// pesin term resolves to 2025-06-01, takip to 2025-07-20.
	due, err := job.Scan(context.Background(), day("2025-07-15"), 7)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "PRJ-2025-0001", due[0].ProjectCode)
	assert.InDelta(t, 50000, due[0].Amount, 1e-9)
	assert.Equal(t, day("2025-07-20"), due[0].DueAt)
}

func TestScanSkipsPastAndUnresolvableTerms(t *testing.T) {
	p := testProject()
	p.FairStart = nil // takip term loses its anchor
	job := NewTermsDueScanJob(&stubSource{projects: []projects.Project{p}}, nil, "", slog.Default(), 7)

	due, err := job.Scan(context.Background(), day("2025-07-15"), 30)
	require.NoError(t, err)
	assert.Empty(t, due, "past pesin and anchorless takip both drop out")
}

func TestHandleEnqueuesReminders(t *testing.T) {
	notifier := &stubNotifier{}
	job := NewTermsDueScanJob(&stubSource{projects: []projects.Project{testProject()}}, notifier, "muhasebe@fuarpro.com", slog.Default(), 7)
	job.clock = func() time.Time { return day("2025-07-15") }

	task, err := NewTermsDueScanTask(TermsDueScanPayload{Days: 7})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "muhasebe@fuarpro.com", notifier.sent[0].To)
	assert.Contains(t, notifier.sent[0].Subject, "PRJ-2025-0001")
	assert.Contains(t, notifier.sent[0].Body, "50.000")
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	job := NewTermsDueScanJob(&stubSource{}, nil, "", slog.Default(), 7)
	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeTermsDueScan, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
