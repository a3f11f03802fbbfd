package invoicing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fuarpro/fuarpro/internal/observability"
	"github.com/fuarpro/fuarpro/internal/platform/httpx"
	"github.com/fuarpro/fuarpro/internal/shared"
)

// Handler manages invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	metrics  *observability.Metrics
	validate *validator.Validate
}

// NewHandler builds a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/preview", h.preview)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/issue", h.transition(h.service.IssueInvoice, "issue invoice"))
	r.Post("/{id}/pay", h.transition(h.service.MarkInvoicePaid, "mark invoice paid"))
	r.Post("/{id}/void", h.transition(h.service.VoidInvoice, "void invoice"))
}

type previewRequest struct {
	Items        []LineItemInput `json:"items" validate:"required,min=1,dive"`
	Discount     float64         `json:"discount"`
	DiscountType DiscountType    `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	VATRate      float64         `json:"vat_rate"`
}

type previewResponse struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

type listResponse struct {
	Invoices   []Invoice         `json:"invoices"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid json", httpx.ErrBadRequest))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	items, totals := h.service.Preview(req.Items, req.Discount, req.DiscountType, req.VATRate)
	httpx.JSON(w, http.StatusOK, previewResponse{Items: items, Totals: totals})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid json", httpx.ErrBadRequest))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	inv, err := h.service.CreateInvoice(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "create invoice", err)
		return
	}
	h.metrics.InvoiceCreated()
	httpx.JSON(w, http.StatusCreated, inv)
}

// transition adapts a status-change service method into a POST handler.
func (h *Handler) transition(op func(context.Context, int64) (*Invoice, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.parseID(w, r)
		if !ok {
			return
		}
		inv, err := op(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, name, err)
			return
		}
		httpx.JSON(w, http.StatusOK, inv)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid json", httpx.ErrBadRequest))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	inv, err := h.service.UpdateInvoice(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, "update invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "get invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListInvoicesRequest{
		Status: InvoiceStatus(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	req.CustomerID = int64(queryInt(r, "customer_id"))
	req.ProjectID = int64(queryInt(r, "project_id"))

	invoices, total, err := h.service.ListInvoices(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "list invoices", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Invoices:   invoices,
		Pagination: shared.FromOffset(req.Offset, req.Limit, total),
	})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
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
	case errors.Is(err, ErrNotEditable),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidCurrency):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
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
