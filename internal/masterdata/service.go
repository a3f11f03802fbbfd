package masterdata

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// RepositoryPort defines data access methods for master data.
type RepositoryPort interface {
	ListCustomers(ctx context.Context, f ListFilters) ([]Customer, int, error)
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	InsertCustomer(ctx context.Context, c *Customer) (int64, error)
	UpdateCustomer(ctx context.Context, c *Customer) error

	ListSuppliers(ctx context.Context, f ListFilters) ([]Supplier, int, error)
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	InsertSupplier(ctx context.Context, s *Supplier) (int64, error)
	UpdateSupplier(ctx context.Context, s *Supplier) error

	ListProducts(ctx context.Context, f ListFilters) ([]Product, int, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	InsertProduct(ctx context.Context, p *Product) (int64, error)
	UpdateProduct(ctx context.Context, p *Product) error

	ListBanks(ctx context.Context, f ListFilters) ([]Bank, int, error)
	GetBank(ctx context.Context, id int64) (*Bank, error)
	InsertBank(ctx context.Context, b *Bank) (int64, error)
	UpdateBank(ctx context.Context, b *Bank) error

	ListCreditCards(ctx context.Context, f ListFilters) ([]CreditCard, int, error)
	GetCreditCard(ctx context.Context, id int64) (*CreditCard, error)
	InsertCreditCard(ctx context.Context, c *CreditCard) (int64, error)
	UpdateCreditCard(ctx context.Context, c *CreditCard) error
}

// Service handles master data business logic. List reads go through
// the versioned cache; every write bumps it.
type Service struct {
	repo  RepositoryPort
	cache *Cache
}

// NewService builds a Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

type listPayload[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

func cachedList[T any](ctx context.Context, s *Service, entity string, f ListFilters,
	loader func(context.Context, ListFilters) ([]T, int, error)) ([]T, int, error) {
	var payload listPayload[T]
	err := s.cache.fetch(ctx, &payload, func(ctx context.Context) (any, error) {
		rows, total, err := loader(ctx, f)
		if err != nil {
			return nil, err
		}
		return listPayload[T]{Rows: rows, Total: total}, nil
	}, entity, filterKey(f))
	if err != nil {
		return nil, 0, err
	}
	return payload.Rows, payload.Total, nil
}

// --- Customers ---

func (s *Service) ListCustomers(ctx context.Context, f ListFilters) ([]Customer, int, error) {
	return cachedList(ctx, s, "customers", f, s.repo.ListCustomers)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	now := time.Now()
	c := &Customer{
		Name: in.Name, TaxNumber: in.TaxNumber, TaxOffice: in.TaxOffice,
		ContactPerson: in.ContactPerson, Phone: in.Phone, Email: in.Email, Address: in.Address,
		Active: activeOrDefault(in.Active), CreatedAt: now, UpdatedAt: now,
	}
	id, err := s.repo.InsertCustomer(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	s.cache.bump(ctx)
	return c, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*Customer, error) {
	current, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c := &Customer{
		ID: id, Name: in.Name, TaxNumber: in.TaxNumber, TaxOffice: in.TaxOffice,
		ContactPerson: in.ContactPerson, Phone: in.Phone, Email: in.Email, Address: in.Address,
		Active: activeOr(in.Active, current.Active), CreatedAt: current.CreatedAt, UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	s.cache.bump(ctx)
	return c, nil
}

// --- Suppliers ---

func (s *Service) ListSuppliers(ctx context.Context, f ListFilters) ([]Supplier, int, error) {
	return cachedList(ctx, s, "suppliers", f, s.repo.ListSuppliers)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (*Supplier, error) {
	now := time.Now()
	sp := &Supplier{
		Name: in.Name, TaxNumber: in.TaxNumber, TaxOffice: in.TaxOffice,
		Phone: in.Phone, Email: in.Email, Address: in.Address,
		Active: activeOrDefault(in.Active), CreatedAt: now, UpdatedAt: now,
	}
	id, err := s.repo.InsertSupplier(ctx, sp)
	if err != nil {
		return nil, err
	}
	sp.ID = id
	s.cache.bump(ctx)
	return sp, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, in SupplierInput) (*Supplier, error) {
	current, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	sp := &Supplier{
		ID: id, Name: in.Name, TaxNumber: in.TaxNumber, TaxOffice: in.TaxOffice,
		Phone: in.Phone, Email: in.Email, Address: in.Address,
		Active: activeOr(in.Active, current.Active), CreatedAt: current.CreatedAt, UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateSupplier(ctx, sp); err != nil {
		return nil, err
	}
	s.cache.bump(ctx)
	return sp, nil
}

// --- Products ---

func (s *Service) ListProducts(ctx context.Context, f ListFilters) ([]Product, int, error) {
	return cachedList(ctx, s, "products", f, s.repo.ListProducts)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	now := time.Now()
	p := &Product{
		Name: in.Name, Unit: in.Unit, UnitPrice: in.UnitPrice, VATRate: in.VATRate,
		Active: activeOrDefault(in.Active), CreatedAt: now, UpdatedAt: now,
	}
	id, err := s.repo.InsertProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	s.cache.bump(ctx)
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	current, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Product{
		ID: id, Name: in.Name, Unit: in.Unit, UnitPrice: in.UnitPrice, VATRate: in.VATRate,
		Active: activeOr(in.Active, current.Active), CreatedAt: current.CreatedAt, UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.cache.bump(ctx)
	return p, nil
}

// --- Banks ---

func (s *Service) ListBanks(ctx context.Context, f ListFilters) ([]Bank, int, error) {
	return cachedList(ctx, s, "banks", f, s.repo.ListBanks)
}

func (s *Service) GetBank(ctx context.Context, id int64) (*Bank, error) {
	return s.repo.GetBank(ctx, id)
}

func (s *Service) CreateBank(ctx context.Context, in BankInput) (*Bank, error) {
	now := time.Now()
	b := &Bank{
		Name: in.Name, AccountName: in.AccountName, IBAN: in.IBAN, Currency: in.Currency,
		Active: activeOrDefault(in.Active), CreatedAt: now, UpdatedAt: now,
	}
	id, err := s.repo.InsertBank(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	s.cache.bump(ctx)
	return b, nil
}

func (s *Service) UpdateBank(ctx context.Context, id int64, in BankInput) (*Bank, error) {
	current, err := s.repo.GetBank(ctx, id)
	if err != nil {
		return nil, err
	}
	b := &Bank{
		ID: id, Name: in.Name, AccountName: in.AccountName, IBAN: in.IBAN, Currency: in.Currency,
		Active: activeOr(in.Active, current.Active), CreatedAt: current.CreatedAt, UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateBank(ctx, b); err != nil {
		return nil, err
	}
	s.cache.bump(ctx)
	return b, nil
}

// --- Credit cards ---

func (s *Service) ListCreditCards(ctx context.Context, f ListFilters) ([]CreditCard, int, error) {
	return cachedList(ctx, s, "credit_cards", f, s.repo.ListCreditCards)
}

func (s *Service) GetCreditCard(ctx context.Context, id int64) (*CreditCard, error) {
	return s.repo.GetCreditCard(ctx, id)
}

func (s *Service) CreateCreditCard(ctx context.Context, in CreditCardInput) (*CreditCard, error) {
	now := time.Now()
	c := &CreditCard{
		Name: in.Name, BankName: in.BankName, LastFour: in.LastFour,
		Active: activeOrDefault(in.Active), CreatedAt: now, UpdatedAt: now,
	}
	id, err := s.repo.InsertCreditCard(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	s.cache.bump(ctx)
	return c, nil
}

func (s *Service) UpdateCreditCard(ctx context.Context, id int64, in CreditCardInput) (*CreditCard, error) {
	current, err := s.repo.GetCreditCard(ctx, id)
	if err != nil {
		return nil, err
	}
	c := &CreditCard{
		ID: id, Name: in.Name, BankName: in.BankName, LastFour: in.LastFour,
		Active: activeOr(in.Active, current.Active), CreatedAt: current.CreatedAt, UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateCreditCard(ctx, c); err != nil {
		return nil, err
	}
	s.cache.bump(ctx)
	return c, nil
}

// FormInit loads every active reference list concurrently. Entry forms
// call this once instead of five times.
func (s *Service) FormInit(ctx context.Context) (*FormInit, error) {
	active := ListFilters{OnlyActive: true}
	var out FormInit

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, _, err := s.ListCustomers(ctx, active)
		out.Customers = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.ListSuppliers(ctx, active)
		out.Suppliers = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.ListProducts(ctx, active)
		out.Products = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.ListBanks(ctx, active)
		out.Banks = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.ListCreditCards(ctx, active)
		out.CreditCards = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func activeOrDefault(v *bool) bool {
	return activeOr(v, true)
}

func activeOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
