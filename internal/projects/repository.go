package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuarpro/fuarpro/internal/invoicing"
	"github.com/fuarpro/fuarpro/internal/paymentterms"
	"github.com/fuarpro/fuarpro/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for projects.
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

const projectColumns = `id, code, name, customer_id, fair_name, contract_date, installation_start, fair_start, contract_amount, manual_amount, currency, status, notes, created_at, updated_at`

// GetProject loads one project with its items and payment terms.
func (r *Repository) GetProject(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.CustomerID, &p.FairName, &p.ContractDate, &p.InstallationStart,
		&p.FairStart, &p.ContractAmount, &p.ManualAmount, &p.Currency, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	itemRows, err := r.pool.Query(ctx,
		`SELECT id, description, quantity, unit, unit_price, total, product_id FROM project_items WHERE project_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var item invoicing.LineItem
		if err := itemRows.Scan(&item.ID, &item.Description, &item.Quantity, &item.Unit, &item.UnitPrice, &item.Total, &item.ProductID); err != nil {
			return nil, err
		}
		p.Items = append(p.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	termRows, err := r.pool.Query(ctx,
		`SELECT id, percentage, amount, due_type, due_days, notes FROM project_payment_terms WHERE project_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer termRows.Close()
	for termRows.Next() {
		var term paymentterms.Term
		if err := termRows.Scan(&term.ID, &term.Percentage, &term.Amount, &term.DueType, &term.DueDays, &term.Notes); err != nil {
			return nil, err
		}
		p.Terms = append(p.Terms, term)
	}
	if err := termRows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns projects matching the filter plus the total count.
func (r *Repository) ListProjects(ctx context.Context, req ListProjectsRequest) ([]Project, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if req.CustomerID != 0 {
		where += fmt.Sprintf(" AND customer_id = $%d", idx)
		args = append(args, req.CustomerID)
		idx++
	}
	if req.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, req.Status)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.CustomerID, &p.FairName, &p.ContractDate, &p.InstallationStart,
			&p.FairStart, &p.ContractAmount, &p.ManualAmount, &p.Currency, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// ActiveProjects loads every active project with its payment terms.
// The background due scan resolves the dates itself.
func (r *Repository) ActiveProjects(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE status = 'ACTIVE' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	index := map[int64]int{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.CustomerID, &p.FairName, &p.ContractDate, &p.InstallationStart,
			&p.FairStart, &p.ContractAmount, &p.ManualAmount, &p.Currency, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	termRows, err := r.pool.Query(ctx,
		`SELECT t.project_id, t.id, t.percentage, t.amount, t.due_type, t.due_days, t.notes
		 FROM project_payment_terms t
		 JOIN projects p ON p.id = t.project_id
		 WHERE p.status = 'ACTIVE'
		 ORDER BY t.project_id, t.id`)
	if err != nil {
		return nil, err
	}
	defer termRows.Close()
	for termRows.Next() {
		var projectID int64
		var term paymentterms.Term
		if err := termRows.Scan(&projectID, &term.ID, &term.Percentage, &term.Amount, &term.DueType, &term.DueDays, &term.Notes); err != nil {
			return nil, err
		}
		if i, ok := index[projectID]; ok {
			out[i].Terms = append(out[i].Terms, term)
		}
	}
	return out, termRows.Err()
}

type txRepo struct {
	tx pgx.Tx
}

// NextProjectCode allocates the next sequential project code for a year.
func (t *txRepo) NextProjectCode(ctx context.Context, year int) (string, error) {
	var seq int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO document_sequences (doc_type, year, value) VALUES ('project', $1, 1)
		 ON CONFLICT (doc_type, year) DO UPDATE SET value = document_sequences.value + 1
		 RETURNING value`, year).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PRJ-%d-%04d", year, seq), nil
}

func (t *txRepo) InsertProject(ctx context.Context, p *Project) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO projects (code, name, customer_id, fair_name, contract_date, installation_start, fair_start, contract_amount, manual_amount, currency, status, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING id`,
		p.Code, p.Name, p.CustomerID, p.FairName, p.ContractDate, p.InstallationStart, p.FairStart,
		p.ContractAmount, p.ManualAmount, p.Currency, p.Status, p.Notes, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdateProject(ctx context.Context, p *Project) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE projects SET name=$2, customer_id=$3, fair_name=$4, contract_date=$5, installation_start=$6, fair_start=$7, contract_amount=$8, manual_amount=$9, currency=$10, notes=$11, updated_at=$12 WHERE id=$1`,
		p.ID, p.Name, p.CustomerID, p.FairName, p.ContractDate, p.InstallationStart, p.FairStart,
		p.ContractAmount, p.ManualAmount, p.Currency, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) ReplaceItems(ctx context.Context, projectID int64, items []invoicing.LineItem) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM project_items WHERE project_id = $1`, projectID); err != nil {
		return err
	}
	for _, item := range items {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO project_items (project_id, description, quantity, unit, unit_price, total, product_id)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			projectID, item.Description, item.Quantity, item.Unit, item.UnitPrice, item.Total, item.ProductID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *txRepo) ReplaceTerms(ctx context.Context, projectID int64, terms []paymentterms.Term) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM project_payment_terms WHERE project_id = $1`, projectID); err != nil {
		return err
	}
	for _, term := range terms {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO project_payment_terms (project_id, percentage, amount, due_type, due_days, notes)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			projectID, term.Percentage, term.Amount, term.DueType, term.DueDays, term.Notes,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
