package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuarpro/fuarpro/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const invoiceColumns = `id, number, customer_id, project_id, currency, issue_date, discount, discount_type, vat_rate, status, notes, created_at, updated_at`

// GetInvoice loads one invoice with its items.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	err := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id).Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.ProjectID, &inv.Currency, &inv.IssueDate,
		&inv.Discount, &inv.DiscountType, &inv.VATRate, &inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// ListInvoices returns invoices matching the filter plus the total count.
func (r *Repository) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if req.CustomerID != 0 {
		where += fmt.Sprintf(" AND customer_id = $%d", idx)
		args = append(args, req.CustomerID)
		idx++
	}
	if req.ProjectID != 0 {
		where += fmt.Sprintf(" AND project_id = $%d", idx)
		args = append(args, req.ProjectID)
		idx++
	}
	if req.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, req.Status)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		fmt.Sprintf(` ORDER BY issue_date DESC, id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.CustomerID, &inv.ProjectID, &inv.Currency, &inv.IssueDate,
			&inv.Discount, &inv.DiscountType, &inv.VATRate, &inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *Repository) listItems(ctx context.Context, invoiceID int64) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, description, quantity, unit, unit_price, total, product_id FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &item.Unit, &item.UnitPrice, &item.Total, &item.ProductID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type txRepo struct {
	tx pgx.Tx
}

// NextInvoiceNumber allocates the next sequential document number for a year.
func (t *txRepo) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	var seq int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO document_sequences (doc_type, year, value) VALUES ('invoice', $1, 1)
		 ON CONFLICT (doc_type, year) DO UPDATE SET value = document_sequences.value + 1
		 RETURNING value`, year).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FTR-%d-%05d", year, seq), nil
}

func (t *txRepo) InsertInvoice(ctx context.Context, inv *Invoice) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO invoices (number, customer_id, project_id, currency, issue_date, discount, discount_type, vat_rate, status, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
		inv.Number, inv.CustomerID, inv.ProjectID, inv.Currency, inv.IssueDate, inv.Discount,
		inv.DiscountType, inv.VATRate, inv.Status, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateInvoice(ctx context.Context, inv *Invoice) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE invoices SET customer_id=$2, project_id=$3, currency=$4, issue_date=$5, discount=$6, discount_type=$7, vat_rate=$8, notes=$9, updated_at=$10 WHERE id=$1`,
		inv.ID, inv.CustomerID, inv.ProjectID, inv.Currency, inv.IssueDate, inv.Discount, inv.DiscountType, inv.VATRate, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) UpdateInvoiceStatus(ctx context.Context, id int64, status InvoiceStatus) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE invoices SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) ReplaceItems(ctx context.Context, invoiceID int64, items []LineItem) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return err
	}
	for _, item := range items {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO invoice_items (invoice_id, description, quantity, unit, unit_price, total, product_id)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			invoiceID, item.Description, item.Quantity, item.Unit, item.UnitPrice, item.Total, item.ProductID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
