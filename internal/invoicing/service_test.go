package invoicing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	invoices map[int64]*Invoice
	items    map[int64][]LineItem
	nextID   int64
	seq      map[int]int64

	txError error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices: make(map[int64]*Invoice),
		items:    make(map[int64][]LineItem),
		seq:      make(map[int]int64),
		nextID:   1,
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, &memoryTx{repo: m})
}

func (m *memoryRepo) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *inv
	clone.Items = append([]LineItem(nil), m.items[id]...)
	return &clone, nil
}

func (m *memoryRepo) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		if req.CustomerID != 0 && inv.CustomerID != req.CustomerID {
			continue
		}
		if req.Status != "" && inv.Status != req.Status {
			continue
		}
		out = append(out, *inv)
	}
	return out, len(out), nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	t.repo.seq[year]++
	return fmt.Sprintf("FTR-%d-%05d", year, t.repo.seq[year]), nil
}

func (t *memoryTx) InsertInvoice(ctx context.Context, inv *Invoice) (int64, error) {
	id := t.repo.nextID
	t.repo.nextID++
	clone := *inv
	clone.ID = id
	t.repo.invoices[id] = &clone
	return id, nil
}

func (t *memoryTx) UpdateInvoice(ctx context.Context, inv *Invoice) error {
	if _, ok := t.repo.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	clone := *inv
	t.repo.invoices[inv.ID] = &clone
	return nil
}

func (t *memoryTx) UpdateInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) error {
	inv, ok := t.repo.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.Status = status
	return nil
}

func (t *memoryTx) ReplaceItems(ctx context.Context, invoiceID int64, items []LineItem) error {
	t.repo.items[invoiceID] = append([]LineItem(nil), items...)
	return nil
}

func validCreateRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		CustomerID: 7,
		Currency:   "TRY",
		IssueDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Discount:   10,
		DiscountType: DiscountPercentage,
		VATRate:    20,
		Items: []LineItemInput{
			{Description: "Stand kurulumu", Quantity: 2, Unit: "adet", UnitPrice: 100},
			{Description: "Halı", Quantity: 1, Unit: "m2", UnitPrice: 50},
		},
	}
}

func TestCreateInvoiceComputesDerivedFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "FTR-2025-00001", inv.Number)
	assert.Equal(t, StatusDraft, inv.Status)
	assert.Equal(t, 250.0, inv.Totals.Subtotal)
	assert.Equal(t, 25.0, inv.Totals.DiscountAmount)
	assert.Equal(t, 45.0, inv.Totals.VATAmount)
	assert.Equal(t, 270.0, inv.Totals.Total)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 200.0, inv.Items[0].Total)

	// Numbers stay sequential within the year.
	second, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "FTR-2025-00002", second.Number)
}

func TestCreateInvoiceIgnoresClientDerivedTotals(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	req := validCreateRequest()
	// Quantity edits always win over whatever total the form displayed.
	req.Items[0].Quantity = 5
	inv, err := svc.CreateInvoice(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 500.0, inv.Items[0].Total)
	assert.Equal(t, 550.0, inv.Totals.Subtotal)
}

func TestCreateInvoiceRejectsBadCurrency(t *testing.T) {
	svc := NewService(newMemoryRepo())
	req := validCreateRequest()
	req.Currency = "TL1"
	_, err := svc.CreateInvoice(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestCreateInvoicePropagatesTxError(t *testing.T) {
	repo := newMemoryRepo()
	repo.txError = errors.New("boom")
	svc := NewService(repo)
	_, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	assert.EqualError(t, err, "boom")
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)

	update := UpdateInvoiceRequest{
		CustomerID:   inv.CustomerID,
		Currency:     "TRY",
		IssueDate:    inv.IssueDate,
		Discount:     300,
		DiscountType: DiscountFixed,
		VATRate:      20,
		Items: []LineItemInput{
			{Description: "Stand kurulumu", Quantity: 1, UnitPrice: 100},
		},
	}
	updated, err := svc.UpdateInvoice(context.Background(), inv.ID, update)
	require.NoError(t, err)

	// Over-subtotal fixed discount warns but still computes literally.
	assert.True(t, updated.Totals.DiscountExceeds)
	assert.Equal(t, -200.0, updated.Totals.DiscountedSubtotal)
	assert.Equal(t, -240.0, updated.Totals.Total)
}

func TestUpdateInvoiceOnlyDrafts(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)
	repo.invoices[inv.ID].Status = StatusIssued

	_, err = svc.UpdateInvoice(context.Background(), inv.ID, UpdateInvoiceRequest{
		CustomerID: 7, Currency: "TRY", IssueDate: inv.IssueDate,
		Items: []LineItemInput{{Description: "x", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestIssueInvoiceLifecycle(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, inv.Status)

	issued, err := svc.IssueInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, issued.Status)

	_, err = svc.IssueInvoice(context.Background(), inv.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus, "issuing twice is refused")

	paid, err := svc.MarkInvoicePaid(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
}

func TestMarkInvoicePaidRequiresIssued(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.MarkInvoicePaid(context.Background(), inv.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestVoidInvoice(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)

	voided, err := svc.VoidInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusVoid, voided.Status)

	// Paid invoices stay on the books.
	second, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)
	_, err = svc.IssueInvoice(context.Background(), second.ID)
	require.NoError(t, err)
	_, err = svc.MarkInvoicePaid(context.Background(), second.ID)
	require.NoError(t, err)
	_, err = svc.VoidInvoice(context.Background(), second.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.GetInvoice(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreviewDoesNotPersist(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	items, totals := svc.Preview([]LineItemInput{
		{Description: "x", Quantity: 2, UnitPrice: 100},
		{Description: "y", Quantity: 1, UnitPrice: 50},
	}, 10, DiscountPercentage, 20)

	assert.Len(t, items, 2)
	assert.Equal(t, 270.0, totals.Total)
	assert.Empty(t, repo.invoices)
}
