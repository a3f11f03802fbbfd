package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/fuarpro/fuarpro/internal/fx"
)

// RepositoryPort defines data access methods for invoicing.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
}

// TxRepository exposes the transactional write operations.
type TxRepository interface {
	NextInvoiceNumber(ctx context.Context, year int) (string, error)
	InsertInvoice(ctx context.Context, inv *Invoice) (int64, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	UpdateInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) error
	ReplaceItems(ctx context.Context, invoiceID int64, items []LineItem) error
}

// Service handles invoicing business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Preview computes the totals aggregate for unsaved form state. Derived
// fields submitted by the client are ignored and recomputed here.
func (s *Service) Preview(items []LineItemInput, discount float64, discountType DiscountType, vatRate float64) ([]LineItem, Totals) {
	lines := materializeItems(items)
	return lines, ComputeTotals(lines, discount, discountType, vatRate)
}

// CreateInvoice validates and persists a new draft invoice, recomputing
// every derived field from the raw inputs.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if !fx.ValidCode(req.Currency) {
		return nil, ErrInvalidCurrency
	}

	items := materializeItems(req.Items)
	now := time.Now()
	inv := &Invoice{
		CustomerID:   req.CustomerID,
		ProjectID:    req.ProjectID,
		Currency:     req.Currency,
		IssueDate:    req.IssueDate,
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		VATRate:      req.VATRate,
		Status:       StatusDraft,
		Notes:        req.Notes,
		Items:        items,
		Totals:       ComputeTotals(items, req.Discount, req.DiscountType, req.VATRate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextInvoiceNumber(ctx, inv.IssueDate.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		id, err := tx.InsertInvoice(ctx, inv)
		if err != nil {
			return err
		}
		inv.ID = id
		return tx.ReplaceItems(ctx, id, inv.Items)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInvoice replaces a draft invoice's content and recomputes totals.
func (s *Service) UpdateInvoice(ctx context.Context, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	if !fx.ValidCode(req.Currency) {
		return nil, ErrInvalidCurrency
	}

	current, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusDraft {
		return nil, ErrNotEditable
	}

	items := materializeItems(req.Items)
	current.CustomerID = req.CustomerID
	current.ProjectID = req.ProjectID
	current.Currency = req.Currency
	current.IssueDate = req.IssueDate
	current.Discount = req.Discount
	current.DiscountType = req.DiscountType
	current.VATRate = req.VATRate
	current.Notes = req.Notes
	current.Items = items
	current.Totals = ComputeTotals(items, req.Discount, req.DiscountType, req.VATRate)
	current.UpdatedAt = time.Now()

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateInvoice(ctx, current); err != nil {
			return err
		}
		return tx.ReplaceItems(ctx, id, current.Items)
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// IssueInvoice puts a draft invoice into circulation (DRAFT → ISSUED).
// Issued invoices can no longer be edited and become collectible.
func (s *Service) IssueInvoice(ctx context.Context, id int64) (*Invoice, error) {
	return s.transition(ctx, id, StatusIssued, "issue", StatusDraft)
}

// MarkInvoicePaid closes a fully collected invoice (ISSUED → PAID).
func (s *Service) MarkInvoicePaid(ctx context.Context, id int64) (*Invoice, error) {
	return s.transition(ctx, id, StatusPaid, "pay", StatusIssued)
}

// VoidInvoice cancels an invoice (DRAFT or ISSUED → VOID). Paid
// invoices stay on the books and cannot be voided.
func (s *Service) VoidInvoice(ctx context.Context, id int64) (*Invoice, error) {
	return s.transition(ctx, id, StatusVoid, "void", StatusDraft, StatusIssued)
}

func (s *Service) transition(ctx context.Context, id int64, to InvoiceStatus, verb string, from ...InvoiceStatus) (*Invoice, error) {
	current, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, st := range from {
		if current.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot %s a %s invoice", ErrInvalidStatus, verb, current.Status)
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateInvoiceStatus(ctx, id, to)
	})
	if err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, id)
}

// GetInvoice returns one invoice with items and recomputed totals.
func (s *Service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Totals = ComputeTotals(inv.Items, inv.Discount, inv.DiscountType, inv.VATRate)
	return inv, nil
}

// ListInvoices returns invoices matching the filter.
func (s *Service) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.ListInvoices(ctx, req)
}

func materializeItems(inputs []LineItemInput) []LineItem {
	items := make([]LineItem, len(inputs))
	for i, in := range inputs {
		items[i] = LineItem{
			ID:          int64(i + 1),
			Description: in.Description,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			ProductID:   in.ProductID,
		}
	}
	return NormalizeItems(items)
}
