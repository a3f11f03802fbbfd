package purchasing

import (
	"context"
	"time"

	"github.com/fuarpro/fuarpro/internal/fx"
)

// RepositoryPort defines data access methods for purchasing.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetPurchaseInvoice(ctx context.Context, id int64) (*PurchaseInvoice, error)
	ListPurchaseInvoices(ctx context.Context, req ListPurchaseInvoicesRequest) ([]PurchaseInvoice, int, error)
}

// TxRepository exposes the transactional write operations.
type TxRepository interface {
	InsertPurchaseInvoice(ctx context.Context, inv *PurchaseInvoice) (int64, error)
	UpdatePurchaseInvoice(ctx context.Context, inv *PurchaseInvoice) error
	ReplaceLines(ctx context.Context, invoiceID int64, lines []PurchaseLine) error
}

// Service handles purchase invoice business logic.
type Service struct {
	repo RepositoryPort
	calc *Calculator
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, rates fx.Table) *Service {
	return &Service{repo: repo, calc: NewCalculator(rates)}
}

// CreatePurchaseInvoice validates and persists a purchase invoice with
// all line amounts derived server side.
func (s *Service) CreatePurchaseInvoice(ctx context.Context, req CreatePurchaseInvoiceRequest) (*PurchaseInvoice, error) {
	lines, err := s.materializeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &PurchaseInvoice{
		Number:     req.Number,
		SupplierID: req.SupplierID,
		IssueDate:  req.IssueDate,
		Notes:      req.Notes,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	inv.TotalNet, inv.TotalVAT, inv.TotalGross, inv.TotalTRY = Totals(lines)

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertPurchaseInvoice(ctx, inv)
		if err != nil {
			return err
		}
		inv.ID = id
		return tx.ReplaceLines(ctx, id, inv.Lines)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdatePurchaseInvoice replaces an invoice's content and recomputes lines.
func (s *Service) UpdatePurchaseInvoice(ctx context.Context, id int64, req UpdatePurchaseInvoiceRequest) (*PurchaseInvoice, error) {
	current, err := s.repo.GetPurchaseInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := s.materializeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	current.Number = req.Number
	current.SupplierID = req.SupplierID
	current.IssueDate = req.IssueDate
	current.Notes = req.Notes
	current.Lines = lines
	current.TotalNet, current.TotalVAT, current.TotalGross, current.TotalTRY = Totals(lines)
	current.UpdatedAt = time.Now()

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdatePurchaseInvoice(ctx, current); err != nil {
			return err
		}
		return tx.ReplaceLines(ctx, id, current.Lines)
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// GetPurchaseInvoice returns one purchase invoice with recomputed sums.
func (s *Service) GetPurchaseInvoice(ctx context.Context, id int64) (*PurchaseInvoice, error) {
	inv, err := s.repo.GetPurchaseInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Lines = s.calc.ComputeAll(inv.Lines)
	inv.TotalNet, inv.TotalVAT, inv.TotalGross, inv.TotalTRY = Totals(inv.Lines)
	return inv, nil
}

// ListPurchaseInvoices returns purchase invoices matching the filter.
func (s *Service) ListPurchaseInvoices(ctx context.Context, req ListPurchaseInvoicesRequest) ([]PurchaseInvoice, int, error) {
	return s.repo.ListPurchaseInvoices(ctx, req)
}

func (s *Service) materializeLines(inputs []PurchaseLineInput) ([]PurchaseLine, error) {
	lines := make([]PurchaseLine, len(inputs))
	for i, in := range inputs {
		if !ValidVATRate(in.VATRate) {
			return nil, ErrInvalidVATRate
		}
		if !fx.ValidCode(in.Currency) {
			return nil, ErrInvalidCurrency
		}
		lines[i] = s.calc.ComputeLine(PurchaseLine{
			ID:          int64(i + 1),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Currency:    in.Currency,
			VATRate:     in.VATRate,
		})
	}
	return lines, nil
}
