package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fuarpro/fuarpro/internal/numfmt"
	"github.com/fuarpro/fuarpro/internal/paymentterms"
	"github.com/fuarpro/fuarpro/internal/projects"
)

// ProjectSource supplies the active projects whose terms get scanned.
type ProjectSource interface {
	ActiveProjects(ctx context.Context) ([]projects.Project, error)
}

// Notifier receives one reminder per term coming due.
type Notifier interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// DueTerm is one installment inside the scan window.
type DueTerm struct {
	ProjectID   int64
	ProjectCode string
	ProjectName string
	Amount      float64
	Currency    string
	DueAt       time.Time
}

// TermsDueScanJob walks active projects, resolves each installment's
// due date and reports the ones falling inside the look-ahead window.
type TermsDueScanJob struct {
	source   ProjectSource
	notifier Notifier
	notifyTo string
	logger   *slog.Logger
	days     int
	clock    func() time.Time
}

// NewTermsDueScanJob initialises the due-scan handler. notifyTo may be
// empty, in which case reminders are logged only.
func NewTermsDueScanJob(source ProjectSource, notifier Notifier, notifyTo string, logger *slog.Logger, days int) *TermsDueScanJob {
	if days <= 0 {
		days = 7
	}
	return &TermsDueScanJob{
		source:   source,
		notifier: notifier,
		notifyTo: notifyTo,
		logger:   logger,
		days:     days,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the due scan.
func (j *TermsDueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.source == nil {
		return errors.New("due scan: handler not configured")
	}
	var payload TermsDueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	days := payload.Days
	if days <= 0 {
		days = j.days
	}

	now := j.clock()
	due, err := j.Scan(ctx, now, days)
	if err != nil {
		j.logger.Error("due scan failed", slog.Any("error", err))
		return err
	}

	for _, d := range due {
		j.logger.Warn("payment term coming due",
			slog.Int64("project_id", d.ProjectID),
			slog.String("project_code", d.ProjectCode),
			slog.String("amount", numfmt.Format(d.Amount)),
			slog.String("currency", d.Currency),
			slog.Time("due_at", d.DueAt),
		)
		if j.notifier != nil && j.notifyTo != "" {
			_, err := j.notifier.EnqueueSendEmail(ctx, SendEmailPayload{
				To:      j.notifyTo,
				Subject: fmt.Sprintf("Vade hatırlatması: %s", d.ProjectCode),
				Body: fmt.Sprintf("%s projesinde %s %s tutarlı taksit %s tarihinde vadesi doluyor.",
					d.ProjectName, numfmt.Format(d.Amount), d.Currency, d.DueAt.Format("2006-01-02")),
			})
			if err != nil {
				j.logger.Error("enqueue reminder", slog.Any("error", err))
			}
		}
	}

	j.logger.Info("completed due scan",
		slog.Int("days", days),
		slog.Int("due_terms", len(due)),
	)
	return nil
}

// Scan returns the installments due between now and now+days.
func (j *TermsDueScanJob) Scan(ctx context.Context, now time.Time, days int) ([]DueTerm, error) {
	active, err := j.source.ActiveProjects(ctx)
	if err != nil {
		return nil, err
	}
	horizon := now.AddDate(0, 0, days)

	var due []DueTerm
	for _, p := range active {
		anchors := paymentterms.Anchors{
			ContractDate:      p.ContractDate,
			InstallationStart: p.InstallationStart,
			FairStart:         p.FairStart,
		}
		for i, res := range paymentterms.ResolveAll(p.Terms, anchors) {
			if !res.Valid {
				continue
			}
			if res.Date.Before(now) || res.Date.After(horizon) {
				continue
			}
			due = append(due, DueTerm{
				ProjectID:   p.ID,
				ProjectCode: p.Code,
				ProjectName: p.Name,
				Amount:      p.Terms[i].Amount,
				Currency:    p.Currency,
				DueAt:       res.Date,
			})
		}
	}
	return due, nil
}
