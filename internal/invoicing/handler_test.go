package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuarpro/fuarpro/internal/observability"
)

func newTestRouter(metrics *observability.Metrics) (*chi.Mux, *Service) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(newMemoryRepo())
	h := NewHandler(logger, svc, metrics)
	r := chi.NewRouter()
	r.Route("/api/invoices", h.MountRoutes)
	return r, svc
}

func TestCreateInvoiceRecordsMetric(t *testing.T) {
	metrics := observability.NewMetrics()
	router, _ := newTestRouter(metrics)

	body, err := json.Marshal(validCreateRequest())
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), "fuarpro_invoices_created_total 1")
}

func TestIssueInvoiceEndpoint(t *testing.T) {
	router, svc := newTestRouter(nil)
	inv, err := svc.CreateInvoice(context.Background(), validCreateRequest())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/invoices/%d/issue", inv.ID), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var out Invoice
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, StatusIssued, out.Status)

	// Re-issuing an issued invoice is a validation problem, not a 500.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/invoices/%d/issue", inv.ID), nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
