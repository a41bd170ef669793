// Command apiserver serves the SDS wizard HTTP API and the gRPC health
// service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/sds-wizard/internal/application/chemtable"
	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/application/wizard"
	"github.com/turtacn/sds-wizard/internal/config"
	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/sds-wizard/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem"
	grpcserver "github.com/turtacn/sds-wizard/internal/interfaces/grpc"
	httpserver "github.com/turtacn/sds-wizard/internal/interfaces/http"
	"github.com/turtacn/sds-wizard/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var version = "dev"

const healthProbeInterval = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
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

	if *configPath != "" {
		config.Watch(*configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("log level changed", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("ignoring invalid configuration change", logging.Err(err))
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("apiserver exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting sds apiserver",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
		logging.Int("grpc_port", cfg.GRPC.Port))

	var closers closerStack
	defer closers.closeAll(logger)

	metrics, metricsHandler, err := newMetrics(cfg.Metrics, logger)
	if err != nil {
		return err
	}

	conn, err := postgres.NewConnection(postgres.FromConfig(cfg.Database), logger)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	closers.push("postgres", conn.Close)
	if cfg.Database.AutoMigrate {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	repo := repositories.NewPostgresSDSRepo(conn, logger)
	checks := []handlers.HealthChecker{handlers.NamedCheck("postgres", conn.HealthCheck)}

	store, redisCheck, err := newSessionStore(cfg, logger, &closers)
	if err != nil {
		return err
	}
	if redisCheck != nil {
		checks = append(checks, redisCheck)
	}

	pubchemOpts := []pubchem.Option{pubchem.WithLogger(logger)}
	if metrics != nil {
		pubchemOpts = append(pubchemOpts, pubchem.WithMetrics(metrics))
	}
	resolver := pubchem.NewResolver(pubchem.NewClient(cfg.PubChem, pubchemOpts...), sds.DefaultCodeTable(), logger)
	pictograms := sds.DefaultPictograms()

	var machineOpts []wizard.MachineOption
	machineOpts = append(machineOpts, wizard.WithMachineLogger(logger))
	if metrics != nil {
		machineOpts = append(machineOpts, wizard.WithCacheObserver(metrics))
	}
	machine := wizard.NewMachine(
		wizard.NewFormValidator(pictograms),
		wizard.NewPubChemEnricher(resolver, pictograms, logger),
		pictograms,
		machineOpts...,
	)

	var serviceOpts []wizard.ServiceOption
	if metrics != nil {
		serviceOpts = append(serviceOpts, wizard.WithCompletionObserver(metrics))
	}
	if cfg.Kafka.Enabled {
		publisher, err := newCompletedPublisher(ctx, cfg.Kafka, logger, &closers)
		if err != nil {
			return err
		}
		serviceOpts = append(serviceOpts, wizard.WithPublisher(publisher))
	}
	wizardSvc := wizard.NewService(machine, store, repo, logger, serviceOpts...)

	reportSvc, minioCheck, err := newReportingService(cfg, repo, metrics, logger, &closers)
	if err != nil {
		return err
	}
	if minioCheck != nil {
		checks = append(checks, minioCheck)
	}

	health := handlers.NewHealthHandler(version, checks...)
	grpcSrv, err := grpcserver.NewServer(cfg.GRPC,
		grpcserver.WithLogger(logger),
		grpcserver.WithReflection(cfg.Server.Mode == "debug"))
	if err != nil {
		return fmt.Errorf("grpc: %w", err)
	}
	reporters := healthReporters{grpcSrv}
	if metrics != nil {
		reporters = append(reporters, metrics)
	}
	health.WithReporter(reporters)

	routerCfg := httpserver.RouterConfig{
		WizardHandler:    handlers.NewWizardHandler(wizardSvc, logger),
		SDSHandler:       handlers.NewSDSHandler(reportSvc, logger),
		ChemtableHandler: handlers.NewChemtableHandler(chemtable.NewService(resolver, logger), logger),
		HealthHandler:    health,
		Logger:           logger,
		MetricsHandler:   metricsHandler,
		MetricsPath:      cfg.Metrics.Path,
	}
	if metrics != nil {
		routerCfg.Metrics = metrics
	}
	httpSrv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 2)
	go func() { errCh <- httpSrv.Start() }()
	go func() { errCh <- grpcSrv.Start() }()
	go probeHealth(ctx, health, healthProbeInterval)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Err(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", logging.Err(err))
	}
	logger.Info("sds apiserver stopped")
	return nil
}

// newReportingService builds the document service.  The artifact store is
// optional; without it documents are rendered on every download.
func newReportingService(cfg *config.Config, repo sds.Repository, metrics *prometheus.SDSMetrics, logger logging.Logger, closers *closerStack) (*reporting.Service, handlers.HealthChecker, error) {
	engine, err := newTemplateEngine(cfg.Render, logger, closers)
	if err != nil {
		return nil, nil, err
	}

	var (
		opts  []reporting.ServiceOption
		check handlers.HealthChecker
	)
	if metrics != nil {
		opts = append(opts, reporting.WithRenderObserver(metrics))
	}
	if cfg.MinIO.Enabled {
		store, client, err := newArtifactStore(cfg.MinIO, logger)
		if err != nil {
			return nil, nil, err
		}
		closers.push("minio", client.Close)
		opts = append(opts, reporting.WithArtifactStore(store))
		check = handlers.NamedCheck("minio", client.HealthCheck)
	}
	return reporting.NewService(repo, reporting.NewAssembler(sds.DefaultPictograms()), engine, logger, opts...), check, nil
}

// newCompletedPublisher makes sure the completion and dead letter topics
// exist, then returns a publisher for the former.
func newCompletedPublisher(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger, closers *closerStack) (*kafka.CompletedPublisher, error) {
	topics, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		logger.Warn("kafka topic manager unavailable, assuming topics exist", logging.Err(err))
	} else {
		if err := topics.EnsureTopics(ctx, kafka.DefaultTopics(cfg.Topic)); err != nil {
			logger.Warn("failed to ensure kafka topics", logging.Err(err))
		}
		_ = topics.Close()
	}

	producer, err := kafka.NewProducer(kafka.ProducerFromConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	closers.push("kafka producer", producer.Close)
	return kafka.NewCompletedPublisher(producer, cfg.Topic), nil
}

func probeHealth(ctx context.Context, h *handlers.HealthHandler, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		h.Probe(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

//Personal.AI order the ending
