package main

import (
	"net/http"

	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/application/wizard"
	"github.com/turtacn/sds-wizard/internal/config"
	"github.com/turtacn/sds-wizard/internal/infrastructure/database/redis"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sds-wizard/internal/infrastructure/render"
	"github.com/turtacn/sds-wizard/internal/infrastructure/storage/minio"
	"github.com/turtacn/sds-wizard/internal/interfaces/http/handlers"
)

// newMetrics returns nil metrics and handler when exposition is disabled.
func newMetrics(cfg config.MetricsConfig, logger logging.Logger) (*prometheus.SDSMetrics, http.Handler, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.FromConfig(cfg), logger)
	if err != nil {
		return nil, nil, err
	}
	return prometheus.NewSDSMetrics(collector), collector.Handler(), nil
}

// newSessionStore picks the redis or in-process store per session.store.
func newSessionStore(cfg *config.Config, logger logging.Logger, closers *closerStack) (wizard.SessionStore, handlers.HealthChecker, error) {
	if cfg.Session.Store == "memory" {
		logger.Warn("using in-process session store; sessions are lost on restart")
		return wizard.NewMemoryStore(cfg.Session.TTL), nil, nil
	}
	client, err := redis.NewClient(redis.FromConfig(cfg.Redis), logger)
	if err != nil {
		return nil, nil, err
	}
	closers.push("redis", client.Close)
	return redis.NewSessionStore(client, cfg.Session.TTL, logger), handlers.NamedCheck("redis", client.HealthCheck), nil
}

// newTemplateEngine attaches headless Chrome when PDF rendering is enabled.
func newTemplateEngine(cfg config.RenderConfig, logger logging.Logger, closers *closerStack) (reporting.TemplateEngine, error) {
	if !cfg.Enabled {
		logger.Warn("PDF rendering disabled; only HTML previews are available")
		return reporting.NewTemplateEngine(nil, logger)
	}
	renderer := render.NewPDFRenderer(cfg, logger)
	closers.push("chrome", renderer.Close)
	return reporting.NewTemplateEngine(renderer, logger)
}

func newArtifactStore(cfg config.MinIOConfig, logger logging.Logger) (*minio.ArtifactStore, *minio.MinIOClient, error) {
	client, err := minio.NewMinIOClient(minio.FromConfig(cfg), logger)
	if err != nil {
		return nil, nil, err
	}
	return minio.NewArtifactStore(client, logger), client, nil
}

// healthReporters fans one component result out to every reporter.
type healthReporters []handlers.HealthReporter

func (r healthReporters) SetHealth(component string, up bool) {
	for _, rep := range r {
		rep.SetHealth(component, up)
	}
}

type namedCloser struct {
	name  string
	close func() error
}

// closerStack closes resources in reverse order of acquisition.
type closerStack []namedCloser

func (s *closerStack) push(name string, fn func() error) {
	*s = append(*s, namedCloser{name: name, close: fn})
}

func (s closerStack) closeAll(logger logging.Logger) {
	for i := len(s) - 1; i >= 0; i-- {
		if err := s[i].close(); err != nil {
			logger.Warn("failed to close "+s[i].name, logging.Err(err))
		}
	}
}

//Personal.AI order the ending
