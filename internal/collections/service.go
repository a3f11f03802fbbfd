package collections

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for collections.
type RepositoryPort interface {
	InsertCollection(ctx context.Context, c *Collection) (int64, error)
	GetCollection(ctx context.Context, id int64) (*Collection, error)
	ListCollections(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error)
	InvoiceRemaining(ctx context.Context, invoiceID int64) (float64, error)
	ListOutstanding(ctx context.Context) ([]OutstandingInvoice, error)
}

// Service handles collection business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateCollection validates and records a payment. Method-specific
// references are enforced here: havale and cek need a bank account,
// kredi_karti needs a card. A payment tied to an invoice may not
// exceed what is still owed on it.
func (s *Service) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*Collection, error) {
	if !ValidMethod(req.Method) {
		return nil, ErrInvalidMethod
	}
	switch req.Method {
	case MethodHavale, MethodCek:
		if req.BankID == nil {
			return nil, ErrBankRequired
		}
	case MethodKrediKarti:
		if req.CreditCardID == nil {
			return nil, ErrCardRequired
		}
	}

	if req.InvoiceID != nil {
		remaining, err := s.repo.InvoiceRemaining(ctx, *req.InvoiceID)
		if err != nil {
			return nil, err
		}
		if req.Amount > remaining+1e-9 {
			return nil, ErrOverpayment
		}
	}

	c := &Collection{
		ReceiptNo:    uuid.NewString(),
		CustomerID:   req.CustomerID,
		InvoiceID:    req.InvoiceID,
		Method:       req.Method,
		BankID:       req.BankID,
		CreditCardID: req.CreditCardID,
		Amount:       req.Amount,
		CollectedAt:  req.CollectedAt,
		Notes:        req.Notes,
		CreatedAt:    time.Now(),
	}
	id, err := s.repo.InsertCollection(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// GetCollection returns one payment.
func (s *Service) GetCollection(ctx context.Context, id int64) (*Collection, error) {
	return s.repo.GetCollection(ctx, id)
}

// ListCollections returns payments matching the filter.
func (s *Service) ListCollections(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error) {
	return s.repo.ListCollections(ctx, req)
}

// Aging groups outstanding invoice remainders by days overdue at asOf.
func (s *Service) Aging(ctx context.Context, asOf time.Time) (AgingBucket, error) {
	outstanding, err := s.repo.ListOutstanding(ctx)
	if err != nil {
		return AgingBucket{}, err
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	var bucket AgingBucket
	for _, inv := range outstanding {
		if inv.Remaining <= 0 {
			continue
		}
		days := int(asOf.Sub(inv.DueAt).Hours() / 24)
		switch {
		case days <= 0:
			bucket.Current += inv.Remaining
		case days <= 30:
			bucket.Bucket30 += inv.Remaining
		case days <= 60:
			bucket.Bucket60 += inv.Remaining
		case days <= 90:
			bucket.Bucket90 += inv.Remaining
		default:
			bucket.Bucket120 += inv.Remaining
		}
	}
	return bucket, nil
}
