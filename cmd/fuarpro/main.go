package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fuarpro/fuarpro/internal/app"
	"github.com/fuarpro/fuarpro/internal/collections"
	"github.com/fuarpro/fuarpro/internal/invoicing"
	"github.com/fuarpro/fuarpro/internal/masterdata"
	"github.com/fuarpro/fuarpro/internal/observability"
	"github.com/fuarpro/fuarpro/internal/paymentprofiles"
	"github.com/fuarpro/fuarpro/internal/platform/cache"
	"github.com/fuarpro/fuarpro/internal/platform/db"
	"github.com/fuarpro/fuarpro/internal/projects"
	"github.com/fuarpro/fuarpro/internal/purchasing"
	"github.com/fuarpro/fuarpro/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	fxTable := cfg.FXTable()
	metrics := observability.NewMetrics()

	var mdCache *masterdata.Cache
	if redisClient != nil {
		mdCache = masterdata.NewCache(redisClient, cfg.CacheTTL)
	}
	masterdataService := masterdata.NewService(masterdata.NewRepository(pool), mdCache)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService)

	invoicingService := invoicing.NewService(invoicing.NewRepository(pool))
	invoicingHandler := invoicing.NewHandler(logger, invoicingService, metrics)

	projectsService := projects.NewService(projects.NewRepository(pool))
	projectsHandler := projects.NewHandler(logger, projectsService)

	purchasingService := purchasing.NewService(purchasing.NewRepository(pool), fxTable)
	purchasingHandler := purchasing.NewHandler(logger, purchasingService)

	profileService := paymentprofiles.NewService(paymentprofiles.NewRepository(pool))
	profileHandler := paymentprofiles.NewHandler(logger, profileService)

	collectionsService := collections.NewService(collections.NewRepository(pool))
	collectionsHandler := collections.NewHandler(logger, collectionsService, metrics)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		MasterDataHandler:     masterdataHandler,
		InvoicingHandler:      invoicingHandler,
		ProjectsHandler:       projectsHandler,
		PurchasingHandler:     purchasingHandler,
		PaymentProfileHandler: profileHandler,
		CollectionsHandler:    collectionsHandler,
		JobHandler:            jobHandler,
		Metrics:               metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
