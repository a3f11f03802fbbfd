package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fuarpro/fuarpro/internal/collections"
	"github.com/fuarpro/fuarpro/internal/invoicing"
	"github.com/fuarpro/fuarpro/internal/masterdata"
	"github.com/fuarpro/fuarpro/internal/observability"
	"github.com/fuarpro/fuarpro/internal/paymentprofiles"
	"github.com/fuarpro/fuarpro/internal/projects"
	"github.com/fuarpro/fuarpro/internal/purchasing"
	"github.com/fuarpro/fuarpro/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger                *slog.Logger
	Config                *Config
	MasterDataHandler     *masterdata.Handler
	InvoicingHandler      *invoicing.Handler
	ProjectsHandler       *projects.Handler
	PurchasingHandler     *purchasing.Handler
	PaymentProfileHandler *paymentprofiles.Handler
	CollectionsHandler    *collections.Handler
	JobHandler            *jobs.Handler
	Metrics               *observability.Metrics
}

// NewRouter constructs the chi.Router with the application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		if params.MasterDataHandler != nil {
			params.MasterDataHandler.MountRoutes(api)
		}
		if params.InvoicingHandler != nil {
			api.Route("/invoices", params.InvoicingHandler.MountRoutes)
		}
		if params.ProjectsHandler != nil {
			api.Route("/projects", params.ProjectsHandler.MountRoutes)
		}
		if params.PurchasingHandler != nil {
			api.Route("/purchase-invoices", params.PurchasingHandler.MountRoutes)
		}
		if params.PaymentProfileHandler != nil {
			api.Route("/payment-profiles", params.PaymentProfileHandler.MountRoutes)
		}
		if params.CollectionsHandler != nil {
			api.Route("/collections", params.CollectionsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			api.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
