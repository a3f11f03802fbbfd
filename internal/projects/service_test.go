package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuarpro/fuarpro/internal/invoicing"
	"github.com/fuarpro/fuarpro/internal/paymentterms"
)

type memoryRepo struct {
	projects map[int64]*Project
	items    map[int64][]invoicing.LineItem
	terms    map[int64][]paymentterms.Term
	nextID   int64
	nextSeq  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		projects: make(map[int64]*Project),
		items:    make(map[int64][]invoicing.LineItem),
		terms:    make(map[int64][]paymentterms.Term),
		nextID:   1,
		nextSeq:  1,
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: m})
}

func (m *memoryRepo) GetProject(ctx context.Context, id int64) (*Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	clone.Items = append([]invoicing.LineItem(nil), m.items[id]...)
	clone.Terms = append([]paymentterms.Term(nil), m.terms[id]...)
	return &clone, nil
}

func (m *memoryRepo) ListProjects(ctx context.Context, req ListProjectsRequest) ([]Project, int, error) {
	var out []Project
	for _, p := range m.projects {
		if req.CustomerID != 0 && p.CustomerID != req.CustomerID {
			continue
		}
		if req.Status != "" && p.Status != req.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) NextProjectCode(ctx context.Context, year int) (string, error) {
	seq := t.repo.nextSeq
	t.repo.nextSeq++
	return "PRJ-2025-000" + string(rune('0'+seq)), nil
}

func (t *memoryTx) InsertProject(ctx context.Context, p *Project) (int64, error) {
	id := t.repo.nextID
	t.repo.nextID++
	clone := *p
	clone.ID = id
	t.repo.projects[id] = &clone
	return id, nil
}

func (t *memoryTx) UpdateProject(ctx context.Context, p *Project) error {
	if _, ok := t.repo.projects[p.ID]; !ok {
		return ErrNotFound
	}
	clone := *p
	t.repo.projects[p.ID] = &clone
	return nil
}

func (t *memoryTx) ReplaceItems(ctx context.Context, projectID int64, items []invoicing.LineItem) error {
	t.repo.items[projectID] = append([]invoicing.LineItem(nil), items...)
	return nil
}

func (t *memoryTx) ReplaceTerms(ctx context.Context, projectID int64, terms []paymentterms.Term) error {
	t.repo.terms[projectID] = append([]paymentterms.Term(nil), terms...)
	return nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo), repo
}

func ptr[T any](v T) *T { return &v }

func validRequest() CreateProjectRequest {
	contract := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return CreateProjectRequest{
		Name:         "Ankara Mobilya Fuarı standı",
		CustomerID:   7,
		ContractDate: &contract,
		Currency:     "TRY",
		Items: []invoicing.LineItemInput{
			{Description: "Stand kurulumu", Quantity: 1, UnitPrice: 60000},
			{Description: "Grafik baskı", Quantity: 4, UnitPrice: 10000},
		},
		Terms: []TermInput{
			{Percentage: 40, DueType: paymentterms.DuePesin},
			{Percentage: 60, DueType: paymentterms.DueTakip, DueDays: ptr(30)},
		},
	}
}

func TestCreateProjectDerivesContractAmountFromItems(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.CreateProject(context.Background(), validRequest())
	require.NoError(t, err)

	assert.InDelta(t, 100000, p.ContractAmount, 1e-9)
	assert.False(t, p.ManualAmount)
	require.Len(t, p.Terms, 2)
	assert.InDelta(t, 40000, p.Terms[0].Amount, 1e-9)
	assert.InDelta(t, 60000, p.Terms[1].Amount, 1e-9)
	assert.Equal(t, StatusActive, p.Status)
	assert.Len(t, repo.terms[p.ID], 2)
}

func TestCreateProjectManualAmountOverridesItems(t *testing.T) {
	svc, _ := newTestService()

	req := validRequest()
	req.ContractAmount = ptr(120000.0)
	p, err := svc.CreateProject(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 120000, p.ContractAmount, 1e-9)
	assert.True(t, p.ManualAmount)
	assert.InDelta(t, 48000, p.Terms[0].Amount, 1e-9)
	assert.InDelta(t, 72000, p.Terms[1].Amount, 1e-9)
}

func TestCreateProjectRejectsTermsBelowHundred(t *testing.T) {
	svc, _ := newTestService()

	req := validRequest()
	req.Terms = []TermInput{{Percentage: 70, DueType: paymentterms.DuePesin}}
	_, err := svc.CreateProject(context.Background(), req)
	assert.ErrorIs(t, err, paymentterms.ErrSumNot100)
}

func TestCreateProjectRequiresDueDaysForTakip(t *testing.T) {
	svc, _ := newTestService()

	req := validRequest()
	req.Terms = []TermInput{{Percentage: 100, DueType: paymentterms.DueTakip}}
	_, err := svc.CreateProject(context.Background(), req)
	assert.ErrorIs(t, err, paymentterms.ErrDueDaysRequired)
}

func TestCreateProjectRejectsBadCurrency(t *testing.T) {
	svc, _ := newTestService()

	req := validRequest()
	req.Currency = "LIR"
	_, err := svc.CreateProject(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestCreateProjectResolvesDueDates(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreateProject(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, p.DueDates, 2)

	assert.True(t, p.DueDates[0].Valid)
	assert.Equal(t, "2025-04-01", p.DueDates[0].Display)
	assert.False(t, p.DueDates[1].Valid, "fair start not set, takip term cannot resolve")
}

func TestUpdateProjectRebasesOnNewAmount(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.CreateProject(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.ContractAmount = ptr(200000.0)
	updated, err := svc.UpdateProject(context.Background(), p.ID, req)
	require.NoError(t, err)

	assert.Equal(t, p.Code, updated.Code, "code never changes on update")
	assert.InDelta(t, 80000, updated.Terms[0].Amount, 1e-9)
	assert.InDelta(t, 120000, updated.Terms[1].Amount, 1e-9)
}

func TestUpdateProjectNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateProject(context.Background(), 99, validRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProjectResolvesDueDatesFromStorage(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateProject(context.Background(), validRequest())
	require.NoError(t, err)

	p, err := svc.GetProject(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, p.DueDates, 2)
	assert.Equal(t, "2025-04-01", p.DueDates[0].Display)
}

func TestListProjectsFiltersByCustomer(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProject(context.Background(), validRequest())
	require.NoError(t, err)
	other := validRequest()
	other.CustomerID = 12
	_, err = svc.CreateProject(context.Background(), other)
	require.NoError(t, err)

	projects, total, err := svc.ListProjects(context.Background(), ListProjectsRequest{CustomerID: 12})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, projects, 1)
	assert.EqualValues(t, 12, projects[0].CustomerID)
}
