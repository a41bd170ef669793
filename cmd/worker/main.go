// Command worker consumes sds.completed events and archives each record's
// rendered PDF to object storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/sds-wizard/internal/application/archive"
	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/config"
	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/redis"
	"github.com/turtacn/sds-wizard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sds-wizard/internal/infrastructure/render"
	"github.com/turtacn/sds-wizard/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/sds-wizard/internal/interfaces/http"
	"github.com/turtacn/sds-wizard/internal/interfaces/http/handlers"
)

var version = "dev"

const (
	defaultHealthPort = 8081
	archiveLockTTL    = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and /metrics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *healthPort, logger); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, healthPort int, logger logging.Logger) error {
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka.enabled must be true for the archive worker")
	}
	if !cfg.MinIO.Enabled {
		return fmt.Errorf("minio.enabled must be true for the archive worker")
	}
	logger.Info("starting sds archive worker",
		logging.String("version", version),
		logging.String("topic", cfg.Kafka.Topic),
		logging.String("group", cfg.Kafka.GroupID))

	collector, err := prometheus.NewMetricsCollector(prometheus.FromConfig(cfg.Metrics), logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewSDSMetrics(collector)

	conn, err := postgres.NewConnection(postgres.FromConfig(cfg.Database), logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer conn.Close()
	repo := repositories.NewPostgresSDSRepo(conn, logger)

	redisClient, err := redis.NewClient(redis.FromConfig(cfg.Redis), logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer redisClient.Close()
	locks := redis.NewLockFactory(redisClient, logger)

	minioClient, err := minio.NewMinIOClient(minio.FromConfig(cfg.MinIO), logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	defer minioClient.Close()

	renderer := render.NewPDFRenderer(cfg.Render, logger)
	defer renderer.Close()
	engine, err := reporting.NewTemplateEngine(renderer, logger)
	if err != nil {
		return err
	}
	reportSvc := reporting.NewService(repo,
		reporting.NewAssembler(sds.DefaultPictograms()),
		engine, logger,
		reporting.WithArtifactStore(minio.NewArtifactStore(minioClient, logger)),
		reporting.WithRenderObserver(metrics))

	handler := archive.NewHandler(reportSvc, repo, logger,
		archive.WithObserver(metrics),
		archive.WithLocks(func(name string) archive.Lock {
			return locks.NewMutex(name, redis.WithLockTTL(archiveLockTTL), redis.WithWatchdog(true))
		}))

	consumer, err := kafka.NewConsumer(kafka.ConsumerFromConfig(cfg.Kafka), logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()
	consumer.Subscribe(cfg.Kafka.Topic, func(ctx context.Context, msg *kafka.Message) error {
		evt, err := kafka.DecodeCompleted(msg)
		if err != nil {
			return err
		}
		return handler.Handle(ctx, evt)
	})

	health := handlers.NewHealthHandler(version,
		handlers.NamedCheck("postgres", conn.HealthCheck),
		handlers.NamedCheck("redis", redisClient.HealthCheck),
		handlers.NamedCheck("minio", minioClient.HealthCheck),
	).WithReporter(metrics)
	healthSrv := httpserver.NewServer(config.ServerConfig{Port: healthPort},
		healthRouter(health, collector, cfg.Metrics.Path), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- healthSrv.Start() }()

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("archive worker running")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("health server failed", logging.Err(err))
		}
	}

	// Close waits for the in-flight message before the deferred closers run.
	if err := consumer.Close(); err != nil {
		logger.Warn("kafka consumer close error", logging.Err(err))
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := healthSrv.Stop(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	logger.Info("sds archive worker stopped")
	return nil
}

func healthRouter(h *handlers.HealthHandler, collector prometheus.MetricsCollector, metricsPath string) chi.Router {
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	r := chi.NewRouter()
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
	r.Get("/healthz/detail", h.Detailed)
	r.Handle(metricsPath, collector.Handler())
	return r
}

//Personal.AI order the ending
