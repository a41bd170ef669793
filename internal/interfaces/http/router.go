// Package http assembles the chi router and HTTP server of the SDS wizard
// API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/interfaces/http/handlers"
	"github.com/turtacn/sds-wizard/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree is
// built from.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	WizardHandler    *handlers.WizardHandler
	SDSHandler       *handlers.SDSHandler
	ChemtableHandler *handlers.ChemtableHandler
	HealthHandler    *handlers.HealthHandler

	Logger         logging.Logger
	LoggingConfig  *middleware.LoggingConfig
	Metrics        middleware.RequestObserver
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter builds the route tree.  Middleware order is request id,
// recovery, logging, then metrics, so a recovered panic is still logged with
// its request id.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.LoggingConfig != nil {
		logCfg = *cfg.LoggingConfig
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogging(log, logCfg))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerWizardRoutes(api, cfg.WizardHandler)
		registerSDSRoutes(api, cfg.SDSHandler)
		registerChemtableRoutes(api, cfg.ChemtableHandler)
	})

	return r
}

// registerWizardRoutes mounts the session endpoints under /wizard/sessions.
func registerWizardRoutes(r chi.Router, h *handlers.WizardHandler) {
	if h == nil {
		return
	}
	r.Route("/wizard/sessions", func(sr chi.Router) {
		sr.Post("/", h.CreateSession)

		sr.Route("/{id}", func(item chi.Router) {
			item.Get("/", h.GetSession)
			item.Get("/steps/{step}", h.GetStep)
			item.Post("/steps/{step}", h.SubmitStep)
			item.Post("/back", h.Back)
		})
	})
}

func registerSDSRoutes(r chi.Router, h *handlers.SDSHandler) {
	if h == nil {
		return
	}
	r.Route("/sds/{id}", func(item chi.Router) {
		item.Get("/document", h.Document)
		item.Get("/preview", h.Preview)
	})
}

func registerChemtableRoutes(r chi.Router, h *handlers.ChemtableHandler) {
	if h == nil {
		return
	}
	r.Get("/chemtable/autopopulate", h.Autopopulate)
}

//Personal.AI order the ending
