package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sds-wizard/internal/config"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// sampleValue returns the value of the first sample line starting with
// series, or -1 when absent.
func sampleValue(t *testing.T, output, series string) float64 {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "#") || !strings.HasPrefix(line, series) {
			continue
		}
		fields := strings.Fields(line)
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		require.NoError(t, err)
		return v
	}
	return -1
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(FromConfig(config.MetricsConfig{Namespace: "proc"}), nil)
	require.NoError(t, err)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "go_goroutines")
}

func TestFromConfig_DefaultNamespace(t *testing.T) {
	assert.Equal(t, DefaultNamespace, FromConfig(config.MetricsConfig{}).Namespace)
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("labeled", "help", "outcome").WithLabelValues("ok").Add(2)

	output := scrapeMetrics(t, c)
	assert.Equal(t, 2.0, sampleValue(t, output, `test_unit_labeled{outcome="ok"}`))
}

func TestRegisterCounter_Duplicate(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup", "help").WithLabelValues().Inc()

	output := scrapeMetrics(t, c)
	assert.Equal(t, 2.0, sampleValue(t, output, "test_unit_dup "))
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("gauge", "help").WithLabelValues()
	g.Set(5)
	g.Set(4)

	assert.Equal(t, 4.0, sampleValue(t, scrapeMetrics(t, c), "test_unit_gauge "))
}

func TestTypeConflict_ReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	gauge := c.RegisterGauge("conflict", "help")
	gauge.WithLabelValues().Set(10)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "# TYPE test_unit_conflict counter")
	assert.Equal(t, 1.0, sampleValue(t, output, "test_unit_conflict "))
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	hist := c.RegisterHistogram("latency", "help", nil, "endpoint")
	hist.WithLabelValues("cids").Observe(0.2)
	hist.WithLabelValues("cids").Observe(0.3)

	output := scrapeMetrics(t, c)
	assert.Equal(t, 2.0, sampleValue(t, output, `test_unit_latency_count{endpoint="cids"}`))
	assert.InDelta(t, 0.5, sampleValue(t, output, `test_unit_latency_sum{endpoint="cids"}`), 1e-9)
	assert.Contains(t, output, `le="10"`)
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_metric", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50.0, sampleValue(t, scrapeMetrics(t, c), `test_unit_concurrent_metric{id="1"}`))
}

//Personal.AI order the ending
