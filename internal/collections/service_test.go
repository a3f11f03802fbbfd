package collections

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	collections map[int64]*Collection
	outstanding []OutstandingInvoice
	nextID      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		collections: make(map[int64]*Collection),
		nextID:      1,
	}
}

func (m *memoryRepo) InsertCollection(ctx context.Context, c *Collection) (int64, error) {
	id := m.nextID
	m.nextID++
	clone := *c
	clone.ID = id
	m.collections[id] = &clone
	if c.InvoiceID != nil {
		for i := range m.outstanding {
			if m.outstanding[i].InvoiceID == *c.InvoiceID {
				m.outstanding[i].Remaining -= c.Amount
			}
		}
	}
	return id, nil
}

func (m *memoryRepo) GetCollection(ctx context.Context, id int64) (*Collection, error) {
	c, ok := m.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *memoryRepo) ListCollections(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error) {
	var out []Collection
	for _, c := range m.collections {
		if req.CustomerID != 0 && c.CustomerID != req.CustomerID {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memoryRepo) InvoiceRemaining(ctx context.Context, invoiceID int64) (float64, error) {
	for _, inv := range m.outstanding {
		if inv.InvoiceID == invoiceID {
			return inv.Remaining, nil
		}
	}
	return 0, nil
}

func (m *memoryRepo) ListOutstanding(ctx context.Context) ([]OutstandingInvoice, error) {
	return append([]OutstandingInvoice(nil), m.outstanding...), nil
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func validRequest() CreateCollectionRequest {
	return CreateCollectionRequest{
		CustomerID:  7,
		Method:      MethodHavale,
		BankID:      ptr(int64(2)),
		Amount:      5000,
		CollectedAt: day("2025-06-10"),
	}
}

func TestCreateCollection(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	c, err := svc.CreateCollection(context.Background(), validRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.ID)
	assert.NotEmpty(t, c.ReceiptNo)
	assert.Equal(t, MethodHavale, c.Method)
}

func TestCreateCollectionMethodReferences(t *testing.T) {
	svc := NewService(newMemoryRepo())

	req := validRequest()
	req.BankID = nil
	_, err := svc.CreateCollection(context.Background(), req)
	assert.ErrorIs(t, err, ErrBankRequired, "havale needs a bank")

	req = validRequest()
	req.Method = MethodCek
	req.BankID = nil
	_, err = svc.CreateCollection(context.Background(), req)
	assert.ErrorIs(t, err, ErrBankRequired, "cek needs a bank")

	req = validRequest()
	req.Method = MethodKrediKarti
	req.BankID = nil
	_, err = svc.CreateCollection(context.Background(), req)
	assert.ErrorIs(t, err, ErrCardRequired)

	req = validRequest()
	req.Method = MethodNakit
	req.BankID = nil
	_, err = svc.CreateCollection(context.Background(), req)
	assert.NoError(t, err, "nakit needs no reference")
}

func TestCreateCollectionRejectsUnknownMethod(t *testing.T) {
	svc := NewService(newMemoryRepo())
	req := validRequest()
	req.Method = "senet"
	_, err := svc.CreateCollection(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestCreateCollectionRejectsOverpayment(t *testing.T) {
	repo := newMemoryRepo()
	repo.outstanding = []OutstandingInvoice{
		{InvoiceID: 11, CustomerID: 7, Remaining: 3000, DueAt: day("2025-05-01")},
	}
	svc := NewService(repo)

	req := validRequest()
	req.InvoiceID = ptr(int64(11))
	req.Amount = 3500
	_, err := svc.CreateCollection(context.Background(), req)
	assert.ErrorIs(t, err, ErrOverpayment)

	req.Amount = 3000
	_, err = svc.CreateCollection(context.Background(), req)
	assert.NoError(t, err, "paying the exact remainder is fine")
}

func TestCollectionBecomesPayableOnceInvoiceIssued(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	// A draft invoice is not outstanding, so it owes nothing and any
	// payment against it reads as an overpayment.
	req := validRequest()
	req.InvoiceID = ptr(int64(42))
	req.Amount = 100
	_, err := svc.CreateCollection(context.Background(), req)
	assert.ErrorIs(t, err, ErrOverpayment)

	bucket, err := svc.Aging(context.Background(), day("2025-06-10"))
	require.NoError(t, err)
	assert.Zero(t, bucket.Total())

	// Issuing the invoice puts it on the outstanding ledger.
	repo.outstanding = []OutstandingInvoice{
		{InvoiceID: 42, CustomerID: 7, Remaining: 250, DueAt: day("2025-05-01")},
	}
	c, err := svc.CreateCollection(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 100, c.Amount, 1e-9)

	bucket, err = svc.Aging(context.Background(), day("2025-06-10"))
	require.NoError(t, err)
	assert.InDelta(t, 150, bucket.Total(), 1e-9)
}

func TestAgingBuckets(t *testing.T) {
	repo := newMemoryRepo()
	repo.outstanding = []OutstandingInvoice{
		{InvoiceID: 1, Remaining: 100, DueAt: day("2025-06-15")}, // not yet due
		{InvoiceID: 2, Remaining: 200, DueAt: day("2025-05-20")}, // 21 days
		{InvoiceID: 3, Remaining: 300, DueAt: day("2025-04-20")}, // 51 days
		{InvoiceID: 4, Remaining: 400, DueAt: day("2025-03-20")}, // 82 days
		{InvoiceID: 5, Remaining: 500, DueAt: day("2025-01-01")}, // 161 days
		{InvoiceID: 6, Remaining: 0, DueAt: day("2025-01-01")},   // fully collected
	}
	svc := NewService(repo)

	bucket, err := svc.Aging(context.Background(), day("2025-06-10"))
	require.NoError(t, err)
	assert.InDelta(t, 100, bucket.Current, 1e-9)
	assert.InDelta(t, 200, bucket.Bucket30, 1e-9)
	assert.InDelta(t, 300, bucket.Bucket60, 1e-9)
	assert.InDelta(t, 400, bucket.Bucket90, 1e-9)
	assert.InDelta(t, 500, bucket.Bucket120, 1e-9)
	assert.InDelta(t, 1500, bucket.Total(), 1e-9)
}

func TestListCollectionsFiltersByCustomer(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.CreateCollection(context.Background(), validRequest())
	require.NoError(t, err)
	other := validRequest()
	other.CustomerID = 9
	_, err = svc.CreateCollection(context.Background(), other)
	require.NoError(t, err)

	out, total, err := svc.ListCollections(context.Background(), ListCollectionsRequest{CustomerID: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.EqualValues(t, 9, out[0].CustomerID)
}
