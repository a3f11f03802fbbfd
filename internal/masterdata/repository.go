package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for master data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// listQuery builds the shared WHERE/ORDER/LIMIT tail for list queries.
// Every master data table has name, active, created_at.
func listQuery(table, columns string, f ListFilters) (countSQL, rowsSQL string, args []any) {
	where := ` WHERE 1=1`
	idx := 1
	if f.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	if f.OnlyActive {
		where += " AND active"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	countSQL = `SELECT COUNT(*) FROM ` + table + where
	rowsSQL = `SELECT ` + columns + ` FROM ` + table + where +
		fmt.Sprintf(` ORDER BY name, id LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, f.Offset)
	return countSQL, rowsSQL, args
}

// --- Customers ---

const customerColumns = `id, name, tax_number, tax_office, contact_person, phone, email, address, active, created_at, updated_at`

func (r *Repository) ListCustomers(ctx context.Context, f ListFilters) ([]Customer, int, error) {
	countSQL, rowsSQL, args := listQuery("customers", customerColumns, f)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, rowsSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxNumber, &c.TaxOffice, &c.ContactPerson,
			&c.Phone, &c.Email, &c.Address, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.TaxNumber, &c.TaxOffice, &c.ContactPerson,
			&c.Phone, &c.Email, &c.Address, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &c, nil
}

func (r *Repository) InsertCustomer(ctx context.Context, c *Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (name, tax_number, tax_office, contact_person, phone, email, address, active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		c.Name, c.TaxNumber, c.TaxOffice, c.ContactPerson, c.Phone, c.Email, c.Address, c.Active, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	return id, mapWriteErr(err)
}

func (r *Repository) UpdateCustomer(ctx context.Context, c *Customer) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET name=$2, tax_number=$3, tax_office=$4, contact_person=$5, phone=$6, email=$7, address=$8, active=$9, updated_at=$10 WHERE id=$1`,
		c.ID, c.Name, c.TaxNumber, c.TaxOffice, c.ContactPerson, c.Phone, c.Email, c.Address, c.Active, c.UpdatedAt,
	)
	return mapExecErr(tag, err)
}

// --- Suppliers ---

const supplierColumns = `id, name, tax_number, tax_office, phone, email, address, active, created_at, updated_at`

func (r *Repository) ListSuppliers(ctx context.Context, f ListFilters) ([]Supplier, int, error) {
	countSQL, rowsSQL, args := listQuery("suppliers", supplierColumns, f)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, rowsSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.TaxNumber, &s.TaxOffice,
			&s.Phone, &s.Email, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.TaxNumber, &s.TaxOffice,
			&s.Phone, &s.Email, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &s, nil
}

func (r *Repository) InsertSupplier(ctx context.Context, s *Supplier) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO suppliers (name, tax_number, tax_office, phone, email, address, active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		s.Name, s.TaxNumber, s.TaxOffice, s.Phone, s.Email, s.Address, s.Active, s.CreatedAt, s.UpdatedAt,
	).Scan(&id)
	return id, mapWriteErr(err)
}

func (r *Repository) UpdateSupplier(ctx context.Context, s *Supplier) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE suppliers SET name=$2, tax_number=$3, tax_office=$4, phone=$5, email=$6, address=$7, active=$8, updated_at=$9 WHERE id=$1`,
		s.ID, s.Name, s.TaxNumber, s.TaxOffice, s.Phone, s.Email, s.Address, s.Active, s.UpdatedAt,
	)
	return mapExecErr(tag, err)
}

// --- Products ---

const productColumns = `id, name, unit, unit_price, vat_rate, active, created_at, updated_at`

func (r *Repository) ListProducts(ctx context.Context, f ListFilters) ([]Product, int, error) {
	countSQL, rowsSQL, args := listQuery("products", productColumns, f)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, rowsSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.UnitPrice, &p.VATRate,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Unit, &p.UnitPrice, &p.VATRate, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &p, nil
}

func (r *Repository) InsertProduct(ctx context.Context, p *Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, unit, unit_price, vat_rate, active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		p.Name, p.Unit, p.UnitPrice, p.VATRate, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	return id, mapWriteErr(err)
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name=$2, unit=$3, unit_price=$4, vat_rate=$5, active=$6, updated_at=$7 WHERE id=$1`,
		p.ID, p.Name, p.Unit, p.UnitPrice, p.VATRate, p.Active, p.UpdatedAt,
	)
	return mapExecErr(tag, err)
}

// --- Banks ---

const bankColumns = `id, name, account_name, iban, currency, active, created_at, updated_at`

func (r *Repository) ListBanks(ctx context.Context, f ListFilters) ([]Bank, int, error) {
	countSQL, rowsSQL, args := listQuery("banks", bankColumns, f)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, rowsSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Bank
	for rows.Next() {
		var b Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.AccountName, &b.IBAN, &b.Currency,
			&b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetBank(ctx context.Context, id int64) (*Bank, error) {
	var b Bank
	err := r.pool.QueryRow(ctx, `SELECT `+bankColumns+` FROM banks WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.AccountName, &b.IBAN, &b.Currency, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &b, nil
}

func (r *Repository) InsertBank(ctx context.Context, b *Bank) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO banks (name, account_name, iban, currency, active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		b.Name, b.AccountName, b.IBAN, b.Currency, b.Active, b.CreatedAt, b.UpdatedAt,
	).Scan(&id)
	return id, mapWriteErr(err)
}

func (r *Repository) UpdateBank(ctx context.Context, b *Bank) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE banks SET name=$2, account_name=$3, iban=$4, currency=$5, active=$6, updated_at=$7 WHERE id=$1`,
		b.ID, b.Name, b.AccountName, b.IBAN, b.Currency, b.Active, b.UpdatedAt,
	)
	return mapExecErr(tag, err)
}

// --- Credit cards ---

const creditCardColumns = `id, name, bank_name, last_four, active, created_at, updated_at`

func (r *Repository) ListCreditCards(ctx context.Context, f ListFilters) ([]CreditCard, int, error) {
	countSQL, rowsSQL, args := listQuery("credit_cards", creditCardColumns, f)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, rowsSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []CreditCard
	for rows.Next() {
		var c CreditCard
		if err := rows.Scan(&c.ID, &c.Name, &c.BankName, &c.LastFour,
			&c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetCreditCard(ctx context.Context, id int64) (*CreditCard, error) {
	var c CreditCard
	err := r.pool.QueryRow(ctx, `SELECT `+creditCardColumns+` FROM credit_cards WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.BankName, &c.LastFour, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapRowErr(err)
	}
	return &c, nil
}

func (r *Repository) InsertCreditCard(ctx context.Context, c *CreditCard) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO credit_cards (name, bank_name, last_four, active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		c.Name, c.BankName, c.LastFour, c.Active, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	return id, mapWriteErr(err)
}

func (r *Repository) UpdateCreditCard(ctx context.Context, c *CreditCard) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE credit_cards SET name=$2, bank_name=$3, last_four=$4, active=$5, updated_at=$6 WHERE id=$1`,
		c.ID, c.Name, c.BankName, c.LastFour, c.Active, c.UpdatedAt,
	)
	return mapExecErr(tag, err)
}

func mapRowErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func mapExecErr(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
