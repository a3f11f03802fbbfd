package purchasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuarpro/fuarpro/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for purchase invoices.
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

// GetPurchaseInvoice loads one purchase invoice with its lines.
func (r *Repository) GetPurchaseInvoice(ctx context.Context, id int64) (*PurchaseInvoice, error) {
	var inv PurchaseInvoice
	err := r.pool.QueryRow(ctx,
		`SELECT id, number, supplier_id, issue_date, notes, created_at, updated_at FROM purchase_invoices WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.Number, &inv.SupplierID, &inv.IssueDate, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, description, quantity, unit_price, currency, vat_rate, net_amount, vat_amount, gross_amount, amount_try
		 FROM purchase_invoice_lines WHERE purchase_invoice_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line PurchaseLine
		if err := rows.Scan(&line.ID, &line.Description, &line.Quantity, &line.UnitPrice, &line.Currency,
			&line.VATRate, &line.NetAmount, &line.VATAmount, &line.GrossAmount, &line.AmountTRY); err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPurchaseInvoices returns purchase invoices matching the filter plus the total count.
func (r *Repository) ListPurchaseInvoices(ctx context.Context, req ListPurchaseInvoicesRequest) ([]PurchaseInvoice, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if req.SupplierID != 0 {
		where += fmt.Sprintf(" AND supplier_id = $%d", idx)
		args = append(args, req.SupplierID)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, number, supplier_id, issue_date, notes, created_at, updated_at FROM purchase_invoices` + where +
		fmt.Sprintf(` ORDER BY issue_date DESC, id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []PurchaseInvoice
	for rows.Next() {
		var inv PurchaseInvoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.SupplierID, &inv.IssueDate, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

type txRepo struct {
	tx pgx.Tx
}

func (t *txRepo) InsertPurchaseInvoice(ctx context.Context, inv *PurchaseInvoice) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO purchase_invoices (number, supplier_id, issue_date, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		inv.Number, inv.SupplierID, inv.IssueDate, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdatePurchaseInvoice(ctx context.Context, inv *PurchaseInvoice) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE purchase_invoices SET number=$2, supplier_id=$3, issue_date=$4, notes=$5, updated_at=$6 WHERE id=$1`,
		inv.ID, inv.Number, inv.SupplierID, inv.IssueDate, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) ReplaceLines(ctx context.Context, invoiceID int64, lines []PurchaseLine) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM purchase_invoice_lines WHERE purchase_invoice_id = $1`, invoiceID); err != nil {
		return err
	}
	for _, line := range lines {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO purchase_invoice_lines (purchase_invoice_id, description, quantity, unit_price, currency, vat_rate, net_amount, vat_amount, gross_amount, amount_try)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			invoiceID, line.Description, line.Quantity, line.UnitPrice, line.Currency, line.VATRate,
			line.NetAmount, line.VATAmount, line.GrossAmount, line.AmountTRY,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
