package paymentprofiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fuarpro/fuarpro/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for payment profiles.
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

// GetProfile loads one profile with its template rows.
func (r *Repository) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, active, created_at, updated_at FROM payment_profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, percentage, due_type, due_days, notes FROM payment_profile_terms WHERE profile_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var term ProfileTerm
		if err := rows.Scan(&term.ID, &term.Percentage, &term.DueType, &term.DueDays, &term.Notes); err != nil {
			return nil, err
		}
		p.Terms = append(p.Terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every profile with its rows, active first.
func (r *Repository) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, active, created_at, updated_at FROM payment_profiles ORDER BY active DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	index := map[int64]int{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		index[p.ID] = len(profiles)
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	termRows, err := r.pool.Query(ctx,
		`SELECT profile_id, id, percentage, due_type, due_days, notes FROM payment_profile_terms ORDER BY profile_id, id`)
	if err != nil {
		return nil, err
	}
	defer termRows.Close()
	for termRows.Next() {
		var profileID int64
		var term ProfileTerm
		if err := termRows.Scan(&profileID, &term.ID, &term.Percentage, &term.DueType, &term.DueDays, &term.Notes); err != nil {
			return nil, err
		}
		if i, ok := index[profileID]; ok {
			profiles[i].Terms = append(profiles[i].Terms, term)
		}
	}
	return profiles, termRows.Err()
}

type txRepo struct {
	tx pgx.Tx
}

func (t *txRepo) InsertProfile(ctx context.Context, p *Profile) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO payment_profiles (name, active, created_at, updated_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		p.Name, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicateName
	}
	return id, err
}

func (t *txRepo) UpdateProfile(ctx context.Context, p *Profile) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE payment_profiles SET name=$2, active=$3, updated_at=$4 WHERE id=$1`,
		p.ID, p.Name, p.Active, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) ReplaceTerms(ctx context.Context, profileID int64, terms []ProfileTerm) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM payment_profile_terms WHERE profile_id = $1`, profileID); err != nil {
		return err
	}
	for _, term := range terms {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO payment_profile_terms (profile_id, percentage, due_type, due_days, notes)
			 VALUES ($1,$2,$3,$4,$5)`,
			profileID, term.Percentage, term.DueType, term.DueDays, term.Notes,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
