package collections

import (
	"bytes"
	"encoding/json"
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

func TestCreateCollectionRecordsMetric(t *testing.T) {
	metrics := observability.NewMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(newMemoryRepo()), metrics)
	r := chi.NewRouter()
	r.Route("/api/collections", h.MountRoutes)

	body, err := json.Marshal(validRequest())
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/collections", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), "fuarpro_collections_amount_total 5000")
}
