package collections

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuarpro/fuarpro/internal/invoicing"
)

// Repository provides PostgreSQL backed persistence for collections.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const collectionColumns = `id, receipt_no, customer_id, invoice_id, method, bank_id, credit_card_id, amount, collected_at, notes, created_at`

// InsertCollection stores one payment.
func (r *Repository) InsertCollection(ctx context.Context, c *Collection) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO collections (receipt_no, customer_id, invoice_id, method, bank_id, credit_card_id, amount, collected_at, notes, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		c.ReceiptNo, c.CustomerID, c.InvoiceID, c.Method, c.BankID, c.CreditCardID, c.Amount, c.CollectedAt, c.Notes, c.CreatedAt,
	).Scan(&id)
	return id, err
}

// GetCollection loads one payment.
func (r *Repository) GetCollection(ctx context.Context, id int64) (*Collection, error) {
	var c Collection
	err := r.pool.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id).Scan(
		&c.ID, &c.ReceiptNo, &c.CustomerID, &c.InvoiceID, &c.Method, &c.BankID, &c.CreditCardID,
		&c.Amount, &c.CollectedAt, &c.Notes, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCollections returns payments matching the filter plus the count.
func (r *Repository) ListCollections(ctx context.Context, req ListCollectionsRequest) ([]Collection, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if req.CustomerID != 0 {
		where += fmt.Sprintf(" AND customer_id = $%d", idx)
		args = append(args, req.CustomerID)
		idx++
	}
	if req.InvoiceID != 0 {
		where += fmt.Sprintf(" AND invoice_id = $%d", idx)
		args = append(args, req.InvoiceID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM collections`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + collectionColumns + ` FROM collections` + where +
		fmt.Sprintf(` ORDER BY collected_at DESC, id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(
			&c.ID, &c.ReceiptNo, &c.CustomerID, &c.InvoiceID, &c.Method, &c.BankID, &c.CreditCardID,
			&c.Amount, &c.CollectedAt, &c.Notes, &c.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// outstandingQuery aggregates issued invoices with their item subtotal
// and the sum already collected. The discount and VAT arithmetic lives
// in Go, shared with the invoice totals path.
const outstandingQuery = `
SELECT i.id, i.customer_id, i.issue_date, i.discount, i.discount_type, i.vat_rate,
       COALESCE((SELECT SUM(it.quantity * it.unit_price) FROM invoice_items it WHERE it.invoice_id = i.id), 0) AS subtotal,
       COALESCE((SELECT SUM(c.amount) FROM collections c WHERE c.invoice_id = i.id), 0) AS collected
FROM invoices i
WHERE i.status = 'ISSUED'`

// ListOutstanding returns every issued invoice with its uncollected
// remainder. Receivables age from the issue date.
func (r *Repository) ListOutstanding(ctx context.Context) ([]OutstandingInvoice, error) {
	rows, err := r.pool.Query(ctx, outstandingQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutstandingInvoice
	for rows.Next() {
		inv, err := scanOutstanding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// InvoiceRemaining returns what is still owed on one issued invoice.
// Unknown or non-issued invoices owe nothing.
func (r *Repository) InvoiceRemaining(ctx context.Context, invoiceID int64) (float64, error) {
	row := r.pool.QueryRow(ctx, outstandingQuery+` AND i.id = $1`, invoiceID)
	inv, err := scanOutstanding(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return inv.Remaining, nil
}

func scanOutstanding(row pgx.Row) (OutstandingInvoice, error) {
	var inv OutstandingInvoice
	var discount, vatRate, subtotal, collected float64
	var discountType invoicing.DiscountType
	err := row.Scan(&inv.InvoiceID, &inv.CustomerID, &inv.DueAt, &discount, &discountType, &vatRate, &subtotal, &collected)
	if err != nil {
		return OutstandingInvoice{}, err
	}
	totals := invoicing.ComputeTotals(
		[]invoicing.LineItem{{Quantity: 1, UnitPrice: subtotal}},
		discount, discountType, vatRate,
	)
	inv.Remaining = totals.Total - collected
	return inv, nil
}
