package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/notifyhub/assignment-queue/internal/api"
	"github.com/notifyhub/assignment-queue/internal/config"
	"github.com/notifyhub/assignment-queue/internal/db"
	"github.com/notifyhub/assignment-queue/internal/metrics"
	"github.com/notifyhub/assignment-queue/internal/processor"
	"github.com/notifyhub/assignment-queue/internal/source"
	"github.com/notifyhub/assignment-queue/internal/worker"
)

func main() {
	os.Exit(run())
}

// run executes the producer/consumer scenario once and returns the process
// exit code.
func run() int {
	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Error("failed to load config", zap.Error(err))
		_ = bootstrap.Sync()
		return 1
	}

	logger, err := newLogger(cfg)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Error("failed to build logger", zap.Error(err))
		_ = bootstrap.Sync()
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	// SIGINT/SIGTERM cancel the run; the producer publishes what it has
	// pushed so the consumer can unwind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- batch source ----
	src, closeSource, err := buildSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to prepare batch source", zap.Error(err))
		return 1
	}
	defer closeSource()

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	coord := worker.NewCoordinator(src, buildProcessor(cfg, logger), worker.Options{
		ProduceInterval: cfg.ProduceInterval,
		IdleInterval:    cfg.ConsumerIdleInterval,
		Hooks:           m.WorkerHooks(),
	}, logger)

	// ---- status server (optional) ----
	var srv *http.Server
	if cfg.HTTPPort != "" {
		srv = &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      api.NewRouter(coord, reg, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		go func() {
			logger.Info("status server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server error", zap.Error(err))
			}
		}()
	}

	// ---- run ----
	_, runErr := coord.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("status server shutdown error", zap.Error(err))
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}

// buildSource picks the built-in demo batch, or the Postgres table when
// DATABASE_URL is set. An empty table is seeded with the demo batch.
func buildSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (source.Source, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using built-in demo batch", zap.Int("size", len(source.DemoBatch)))
		return source.NewStatic(source.DemoBatch, time.Now), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("database migrations applied")

	pg := source.NewPostgres(pool, cfg.BatchLimit)
	n, err := pg.Count(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if n == 0 {
		if err := pg.Seed(ctx, source.DemoBatch, time.Now()); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("seeded empty assignments table", zap.Int("rows", len(source.DemoBatch)))
	}

	return pg, pool.Close, nil
}

// buildProcessor logs every consumed assignment and, when configured, also
// posts it to the webhook.
func buildProcessor(cfg *config.Config, logger *zap.Logger) processor.Processor {
	logProc := processor.NewLog(logger.With(zap.String("component", "processor")))
	if cfg.ProcessorWebhookURL == "" {
		return logProc
	}
	return processor.Chain{logProc, processor.NewWebhook(cfg.ProcessorWebhookURL, cfg.ProcessorTimeout)}
}
