package masterdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fuarpro/fuarpro/internal/platform/httpx"
)

// Handler manages master data endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers one CRUD block per entity plus the form-init
// aggregate. The caller mounts this under the API root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/form-init", h.formInit)

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", list(h, h.service.ListCustomers))
		r.Post("/", create(h, h.service.CreateCustomer))
		r.Get("/{id}", get(h, h.service.GetCustomer))
		r.Put("/{id}", update(h, h.service.UpdateCustomer))
	})
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", list(h, h.service.ListSuppliers))
		r.Post("/", create(h, h.service.CreateSupplier))
		r.Get("/{id}", get(h, h.service.GetSupplier))
		r.Put("/{id}", update(h, h.service.UpdateSupplier))
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", list(h, h.service.ListProducts))
		r.Post("/", create(h, h.service.CreateProduct))
		r.Get("/{id}", get(h, h.service.GetProduct))
		r.Put("/{id}", update(h, h.service.UpdateProduct))
	})
	r.Route("/banks", func(r chi.Router) {
		r.Get("/", list(h, h.service.ListBanks))
		r.Post("/", create(h, h.service.CreateBank))
		r.Get("/{id}", get(h, h.service.GetBank))
		r.Put("/{id}", update(h, h.service.UpdateBank))
	})
	r.Route("/credit-cards", func(r chi.Router) {
		r.Get("/", list(h, h.service.ListCreditCards))
		r.Post("/", create(h, h.service.CreateCreditCard))
		r.Get("/{id}", get(h, h.service.GetCreditCard))
		r.Put("/{id}", update(h, h.service.UpdateCreditCard))
	})
}

func (h *Handler) formInit(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.FormInit(r.Context())
	if err != nil {
		h.respondServiceError(w, "form init", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type listEnvelope[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

// The five entities share identical handler shapes; generic adapters
// keep the route table flat.

func list[T any](h *Handler, fn func(context.Context, ListFilters) ([]T, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := ListFilters{
			Search:     r.URL.Query().Get("search"),
			OnlyActive: r.URL.Query().Get("active") == "true",
			Limit:      queryInt(r, "limit"),
			Offset:     queryInt(r, "offset"),
		}
		rows, total, err := fn(r.Context(), f)
		if err != nil {
			h.respondServiceError(w, "list", err)
			return
		}
		httpx.JSON(w, http.StatusOK, listEnvelope[T]{Rows: rows, Total: total})
	}
}

func get[T any](h *Handler, fn func(context.Context, int64) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		out, err := fn(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, "get", err)
			return
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func create[I, T any](h *Handler, fn func(context.Context, I) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in I
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: invalid json", httpx.ErrBadRequest))
			return
		}
		if err := h.validate.Struct(in); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
			return
		}
		out, err := fn(r.Context(), in)
		if err != nil {
			h.respondServiceError(w, "create", err)
			return
		}
		httpx.JSON(w, http.StatusCreated, out)
	}
}

func update[I, T any](h *Handler, fn func(context.Context, int64, I) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var in I
		if err := httpx.DecodeJSON(r, &in); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: invalid json", httpx.ErrBadRequest))
			return
		}
		if err := h.validate.Struct(in); err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
			return
		}
		out, err := fn(r.Context(), id, in)
		if err != nil {
			h.respondServiceError(w, "update", err)
			return
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: invalid id", httpx.ErrBadRequest))
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrDuplicate):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrDuplicate, err.Error()))
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
