package paymentprofiles

import (
	"context"
	"time"

	"github.com/fuarpro/fuarpro/internal/paymentterms"
)

// RepositoryPort defines data access methods for payment profiles.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
}

// TxRepository exposes the transactional write operations.
type TxRepository interface {
	InsertProfile(ctx context.Context, p *Profile) (int64, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	ReplaceTerms(ctx context.Context, profileID int64, terms []ProfileTerm) error
}

// Service handles payment profile business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateProfile validates and persists a profile template.
func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*Profile, error) {
	p, err := buildProfile(req)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertProfile(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		return tx.ReplaceTerms(ctx, id, p.Terms)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile replaces a profile's content.
func (s *Service) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*Profile, error) {
	current, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := buildProfile(req)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now()

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateProfile(ctx, p); err != nil {
			return err
		}
		return tx.ReplaceTerms(ctx, id, p.Terms)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfile returns one profile.
func (s *Service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

// ListProfiles returns all profiles, active first.
func (s *Service) ListProfiles(ctx context.Context) ([]Profile, error) {
	return s.repo.ListProfiles(ctx)
}

// Apply materializes an active profile against a total: each template
// row becomes a concrete term with its amount share of the total.
func (s *Service) Apply(ctx context.Context, id int64, total float64) ([]paymentterms.Term, error) {
	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrInactive
	}

	terms := make([]paymentterms.Term, len(p.Terms))
	for i, row := range p.Terms {
		terms[i] = paymentterms.Term{
			ID:         int64(i + 1),
			Percentage: row.Percentage,
			DueType:    row.DueType,
			DueDays:    row.DueDays,
			Notes:      row.Notes,
		}
	}
	return paymentterms.Rebase(terms, total), nil
}

func buildProfile(req CreateProfileRequest) (*Profile, error) {
	probe := make([]paymentterms.Term, len(req.Terms))
	terms := make([]ProfileTerm, len(req.Terms))
	for i, in := range req.Terms {
		probe[i] = paymentterms.Term{
			ID:         int64(i + 1),
			Percentage: in.Percentage,
			DueType:    in.DueType,
			DueDays:    in.DueDays,
		}
		terms[i] = ProfileTerm{
			ID:         int64(i + 1),
			Percentage: in.Percentage,
			DueType:    in.DueType,
			DueDays:    in.DueDays,
			Notes:      in.Notes,
		}
	}
	if err := paymentterms.ValidateForSubmit(probe); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &Profile{
		Name:   req.Name,
		Active: active,
		Terms:  terms,
	}, nil
}
