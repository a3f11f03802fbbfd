package projects

import (
	"context"
	"time"

	"github.com/fuarpro/fuarpro/internal/fx"
	"github.com/fuarpro/fuarpro/internal/invoicing"
	"github.com/fuarpro/fuarpro/internal/paymentterms"
)

// RepositoryPort defines data access methods for projects.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context, req ListProjectsRequest) ([]Project, int, error)
}

// TxRepository exposes the transactional write operations.
type TxRepository interface {
	NextProjectCode(ctx context.Context, year int) (string, error)
	InsertProject(ctx context.Context, p *Project) (int64, error)
	UpdateProject(ctx context.Context, p *Project) error
	ReplaceItems(ctx context.Context, projectID int64, items []invoicing.LineItem) error
	ReplaceTerms(ctx context.Context, projectID int64, terms []paymentterms.Term) error
}

// Service handles project business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateProject validates and persists a project. The contract amount
// is taken from the request when present, otherwise derived from the
// item totals; term amounts are rebased against it either way.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	p, err := s.buildProject(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.Status = StatusActive
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		code, err := tx.NextProjectCode(ctx, now.Year())
		if err != nil {
			return err
		}
		p.Code = code
		id, err := tx.InsertProject(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		if err := tx.ReplaceItems(ctx, id, p.Items); err != nil {
			return err
		}
		return tx.ReplaceTerms(ctx, id, p.Terms)
	})
	if err != nil {
		return nil, err
	}
	p.DueDates = paymentterms.ResolveAll(p.Terms, s.anchors(p))
	return p, nil
}

// UpdateProject replaces a project's content, rebasing term amounts
// when the contract amount changed.
func (s *Service) UpdateProject(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	current, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.buildProject(req)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.Code = current.Code
	p.Status = current.Status
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now()

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdateProject(ctx, p); err != nil {
			return err
		}
		if err := tx.ReplaceItems(ctx, id, p.Items); err != nil {
			return err
		}
		return tx.ReplaceTerms(ctx, id, p.Terms)
	})
	if err != nil {
		return nil, err
	}
	p.DueDates = paymentterms.ResolveAll(p.Terms, s.anchors(p))
	return p, nil
}

// GetProject returns one project with resolved due dates.
func (s *Service) GetProject(ctx context.Context, id int64) (*Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.DueDates = paymentterms.ResolveAll(p.Terms, s.anchors(p))
	return p, nil
}

// ListProjects returns projects matching the filter.
func (s *Service) ListProjects(ctx context.Context, req ListProjectsRequest) ([]Project, int, error) {
	return s.repo.ListProjects(ctx, req)
}

func (s *Service) buildProject(req CreateProjectRequest) (*Project, error) {
	if !fx.ValidCode(req.Currency) {
		return nil, ErrInvalidCurrency
	}

	items := make([]invoicing.LineItem, len(req.Items))
	for i, in := range req.Items {
		items[i] = invoicing.LineItem{
			ID:          int64(i + 1),
			Description: in.Description,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			ProductID:   in.ProductID,
		}
	}
	items = invoicing.NormalizeItems(items)

	contractAmount, manual := contractAmount(req.ContractAmount, items)
	if contractAmount <= 0 && len(items) == 0 {
		return nil, ErrNoContractAmount
	}

	terms := make([]paymentterms.Term, len(req.Terms))
	for i, in := range req.Terms {
		terms[i] = paymentterms.Term{
			ID:         int64(i + 1),
			Percentage: in.Percentage,
			DueType:    in.DueType,
			DueDays:    in.DueDays,
			Notes:      in.Notes,
		}
	}
	if err := paymentterms.ValidateForSubmit(terms); err != nil {
		return nil, err
	}
	terms = paymentterms.Rebase(terms, contractAmount)

	return &Project{
		Name:              req.Name,
		CustomerID:        req.CustomerID,
		FairName:          req.FairName,
		ContractDate:      req.ContractDate,
		InstallationStart: req.InstallationStart,
		FairStart:         req.FairStart,
		ContractAmount:    contractAmount,
		ManualAmount:      manual,
		Currency:          req.Currency,
		Notes:             req.Notes,
		Items:             items,
		Terms:             terms,
	}, nil
}

func (s *Service) anchors(p *Project) paymentterms.Anchors {
	return paymentterms.Anchors{
		ContractDate:      p.ContractDate,
		InstallationStart: p.InstallationStart,
		FairStart:         p.FairStart,
	}
}

func contractAmount(manual *float64, items []invoicing.LineItem) (float64, bool) {
	if manual != nil && *manual > 0 {
		return *manual, true
	}
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return sum, false
}
