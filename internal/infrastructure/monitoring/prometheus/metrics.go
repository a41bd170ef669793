package prometheus

import (
	"strconv"
	"time"
)

const DefaultNamespace = "sds_wizard"

// SDSMetrics holds the service metrics.  It satisfies the observer
// interfaces of the pubchem client, the wizard and the reporting service.
type SDSMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// PubChem
	PubChemRequestsTotal   CounterVec
	PubChemRequestDuration HistogramVec

	// Wizard
	StepCacheTotal   CounterVec
	CompletionsTotal CounterVec

	// Documents
	DocumentsRenderedTotal CounterVec
	ArchiveDuration        HistogramVec

	// Health
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultPubChemDurationBuckets = []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30}
	DefaultRenderDurationBuckets  = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
)

// NewSDSMetrics registers every metric on collector.
func NewSDSMetrics(collector MetricsCollector) *SDSMetrics {
	m := &SDSMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")

	m.PubChemRequestsTotal = collector.RegisterCounter("pubchem_requests_total", "PubChem HTTP exchanges", "endpoint", "outcome")
	m.PubChemRequestDuration = collector.RegisterHistogram("pubchem_request_duration_seconds", "PubChem HTTP exchange duration", DefaultPubChemDurationBuckets, "endpoint")

	m.StepCacheTotal = collector.RegisterCounter("wizard_step_cache_total", "Wizard step enrichment cache lookups", "step", "result")
	m.CompletionsTotal = collector.RegisterCounter("wizard_completions_total", "Wizard completion attempts", "outcome")

	m.DocumentsRenderedTotal = collector.RegisterCounter("documents_rendered_total", "Rendered safety data sheets", "outcome")
	m.ArchiveDuration = collector.RegisterHistogram("archive_duration_seconds", "Time to render and archive one record", DefaultRenderDurationBuckets, "outcome")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

func (m *SDSMetrics) ObservePubChemRequest(endpoint, outcome string, elapsed time.Duration) {
	m.PubChemRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.PubChemRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *SDSMetrics) ObserveStepCache(step string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StepCacheTotal.WithLabelValues(step, result).Inc()
}

func (m *SDSMetrics) ObserveCompletion(outcome string) {
	m.CompletionsTotal.WithLabelValues(outcome).Inc()
}

func (m *SDSMetrics) ObserveDocumentRendered(outcome string) {
	m.DocumentsRenderedTotal.WithLabelValues(outcome).Inc()
}

// ObserveArchive records one worker archive attempt.
func (m *SDSMetrics) ObserveArchive(outcome string, elapsed time.Duration) {
	m.ArchiveDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one served request.  route is the matched
// pattern, not the raw path.
func (m *SDSMetrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetHealth flips the component's health gauge.
func (m *SDSMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
