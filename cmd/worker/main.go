package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fuarpro/fuarpro/internal/app"
	"github.com/fuarpro/fuarpro/internal/platform/db"
	"github.com/fuarpro/fuarpro/internal/projects"
	"github.com/fuarpro/fuarpro/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	dueScanJob := jobs.NewTermsDueScanJob(projects.NewRepository(pool), client, cfg.DueNotifyTo, logger, cfg.DueSoonDays)
	fxCheckJob := jobs.NewFXStalenessJob(cfg.FXTable(), cfg.FXRates != "", logger)

	dueScanTask, err := jobs.NewTermsDueScanTask(jobs.TermsDueScanPayload{Days: cfg.DueSoonDays})
	if err != nil {
		logger.Error("build due scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeTermsDueScan, Handler: dueScanJob.Handle},
			{Type: jobs.TaskTypeFXStalenessCheck, Handler: fxCheckJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 7 * * *", Task: dueScanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 8 * * 1", Task: jobs.NewFXStalenessCheckTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
