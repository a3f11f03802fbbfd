package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuarpro/fuarpro/internal/fx"
)

type memoryRepo struct {
	invoices map[int64]*PurchaseInvoice
	lines    map[int64][]PurchaseLine
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices: make(map[int64]*PurchaseInvoice),
		lines:    make(map[int64][]PurchaseLine),
		nextID:   1,
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: m})
}

func (m *memoryRepo) GetPurchaseInvoice(ctx context.Context, id int64) (*PurchaseInvoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *inv
	clone.Lines = append([]PurchaseLine(nil), m.lines[id]...)
	return &clone, nil
}

func (m *memoryRepo) ListPurchaseInvoices(ctx context.Context, req ListPurchaseInvoicesRequest) ([]PurchaseInvoice, int, error) {
	var out []PurchaseInvoice
	for _, inv := range m.invoices {
		if req.SupplierID != 0 && inv.SupplierID != req.SupplierID {
			continue
		}
		out = append(out, *inv)
	}
	return out, len(out), nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) InsertPurchaseInvoice(ctx context.Context, inv *PurchaseInvoice) (int64, error) {
	id := t.repo.nextID
	t.repo.nextID++
	clone := *inv
	clone.ID = id
	t.repo.invoices[id] = &clone
	return id, nil
}

func (t *memoryTx) UpdatePurchaseInvoice(ctx context.Context, inv *PurchaseInvoice) error {
	if _, ok := t.repo.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	clone := *inv
	t.repo.invoices[inv.ID] = &clone
	return nil
}

func (t *memoryTx) ReplaceLines(ctx context.Context, invoiceID int64, lines []PurchaseLine) error {
	t.repo.lines[invoiceID] = append([]PurchaseLine(nil), lines...)
	return nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, fx.StaticTable{"TRY": 1.0, "USD": 34.50}), repo
}

func validRequest() CreatePurchaseInvoiceRequest {
	return CreatePurchaseInvoiceRequest{
		SupplierID: 3,
		Number:     "ALF-2025-17",
		IssueDate:  time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Lines: []PurchaseLineInput{
			{Description: "Ahşap panel", Quantity: 10, UnitPrice: 5, Currency: "USD", VATRate: 20},
		},
	}
}

func TestCreatePurchaseInvoiceDerivesAmounts(t *testing.T) {
	svc, repo := newTestService()

	inv, err := svc.CreatePurchaseInvoice(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)

	assert.InDelta(t, 50, inv.Lines[0].NetAmount, 1e-9)
	assert.InDelta(t, 10, inv.Lines[0].VATAmount, 1e-9)
	assert.InDelta(t, 60, inv.Lines[0].GrossAmount, 1e-9)
	assert.InDelta(t, 2070, inv.Lines[0].AmountTRY, 1e-9)
	assert.InDelta(t, 2070, inv.TotalTRY, 1e-9)
	assert.Len(t, repo.lines[inv.ID], 1)
}

func TestCreatePurchaseInvoiceRejectsBadRate(t *testing.T) {
	svc, _ := newTestService()
	req := validRequest()
	req.Lines[0].VATRate = 15
	_, err := svc.CreatePurchaseInvoice(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidVATRate)
}

func TestCreatePurchaseInvoiceRejectsBadCurrency(t *testing.T) {
	svc, _ := newTestService()
	req := validRequest()
	req.Lines[0].Currency = "DOL"
	_, err := svc.CreatePurchaseInvoice(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestUpdatePurchaseInvoiceRecomputesLines(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.CreatePurchaseInvoice(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Lines[0].Quantity = 20
	req.Lines[0].Currency = "TRY"
	updated, err := svc.UpdatePurchaseInvoice(context.Background(), inv.ID, req)
	require.NoError(t, err)

	assert.InDelta(t, 100, updated.Lines[0].NetAmount, 1e-9)
	assert.InDelta(t, 120, updated.Lines[0].AmountTRY, 1e-9)
}

func TestGetPurchaseInvoiceNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetPurchaseInvoice(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
