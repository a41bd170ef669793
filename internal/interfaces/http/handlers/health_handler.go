package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is one dependency probed by the readiness endpoints.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// NamedCheck adapts a HealthCheck method (redis, minio, postgres) into a
// HealthChecker.
func NamedCheck(name string, check func(ctx context.Context) error) HealthChecker {
	return namedCheck{name: name, check: check}
}

type namedCheck struct {
	name  string
	check func(ctx context.Context) error
}

func (c namedCheck) Name() string                    { return c.name }
func (c namedCheck) Check(ctx context.Context) error { return c.check(ctx) }

// HealthReporter receives every component result, e.g. a health gauge.
type HealthReporter interface {
	SetHealth(component string, up bool)
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	reporter HealthReporter
	version  string
	startAt  time.Time
}

func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
	}
}

// WithReporter forwards every check result to rep.
func (h *HealthHandler) WithReporter(rep HealthReporter) *HealthHandler {
	h.reporter = rep
	return h
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DetailedResponse is the body of GET /healthz/detail.
type DetailedResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	Uptime     string                    `json:"uptime"`
	Components map[string]ComponentCheck `json:"components"`
}

const (
	readinessTimeout = 5 * time.Second
	detailTimeout    = 10 * time.Second
	checkConcurrency = 8
)

func (h *HealthHandler) uptime() string {
	return time.Since(h.startAt).Truncate(time.Second).String()
}

// Liveness answers 200 while the process runs.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{Status: "alive", Version: h.version, Uptime: h.uptime()})
}

// Readiness answers 200 when every dependency check passes and 503
// otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}
	components, ok := h.run(r.Context(), readinessTimeout)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Components: components})
		return
	}
	writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Components: components})
}

// Detailed reports every component with version and uptime.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	components, ok := h.run(r.Context(), detailTimeout)
	resp := DetailedResponse{Status: "healthy", Version: h.version, Uptime: h.uptime(), Components: components}
	code := http.StatusOK
	if !ok {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// Probe runs every check once so the reporter stays current between
// readiness requests.  It reports whether all components are healthy.
func (h *HealthHandler) Probe(ctx context.Context) bool {
	_, ok := h.run(ctx, readinessTimeout)
	return ok
}

// run executes all checks under one deadline.  Each result is forwarded to
// the reporter as it arrives.
func (h *HealthHandler) run(ctx context.Context, timeout time.Duration) (map[string]ComponentCheck, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checks := make([]ComponentCheck, len(h.checkers))
	var g errgroup.Group
	g.SetLimit(checkConcurrency)
	for i, checker := range h.checkers {
		i, checker := i, checker
		g.Go(func() error {
			start := time.Now()
			err := checker.Check(ctx)
			cc := ComponentCheck{Status: "healthy", Latency: time.Since(start).Truncate(time.Microsecond).String()}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}
			if h.reporter != nil {
				h.reporter.SetHealth(checker.Name(), err == nil)
			}
			checks[i] = cc
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]ComponentCheck, len(checks))
	ok := true
	for i, cc := range checks {
		results[h.checkers[i].Name()] = cc
		ok = ok && cc.Status == "healthy"
	}
	return results, ok
}

//Personal.AI order the ending
