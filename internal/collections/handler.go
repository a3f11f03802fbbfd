package collections

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fuarpro/fuarpro/internal/observability"
	"github.com/fuarpro/fuarpro/internal/platform/httpx"
	"github.com/fuarpro/fuarpro/internal/shared"
)

// Handler manages collection endpoints.
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

// MountRoutes registers collection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/aging", h.aging)
	r.Get("/{id}", h.get)
}

type listResponse struct {
	Collections []Collection      `json:"collections"`
	Pagination  shared.Pagination `json:"pagination"`
}

type agingResponse struct {
	AsOf    time.Time   `json:"as_of"`
	Buckets AgingBucket `json:"buckets"`
	Total   float64     `json:"total"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid json", httpx.ErrBadRequest))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	c, err := h.service.CreateCollection(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "create collection", err)
		return
	}
	h.metrics.CollectionRecorded(c.Amount)
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: invalid id", httpx.ErrBadRequest))
		return
	}
	c, err := h.service.GetCollection(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "get collection", err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListCollectionsRequest{
		CustomerID: int64(queryInt(r, "customer_id")),
		InvoiceID:  int64(queryInt(r, "invoice_id")),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	}
	collections, total, err := h.service.ListCollections(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "list collections", err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Collections: collections,
		Pagination:  shared.FromOffset(req.Offset, req.Limit, total),
	})
}

func (h *Handler) aging(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: invalid as_of date", httpx.ErrBadRequest))
			return
		}
		asOf = parsed
	}
	buckets, err := h.service.Aging(r.Context(), asOf)
	if err != nil {
		h.respondServiceError(w, "aging report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, agingResponse{AsOf: asOf, Buckets: buckets, Total: buckets.Total()})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrInvalidMethod),
		errors.Is(err, ErrBankRequired),
		errors.Is(err, ErrCardRequired),
		errors.Is(err, ErrOverpayment):
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
