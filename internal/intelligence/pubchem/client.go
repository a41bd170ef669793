// Package pubchem resolves CAS numbers against PubChem and normalizes its
// PUG REST and PUG View annotations into typed values for the SDS wizard.
//
// Every resolver operation returns a Result: the value is always usable and a
// failure is reported as an inspectable *FetchError, logged once at warn.
package pubchem

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

const (
	DefaultBaseURL   = "https://pubchem.ncbi.nlm.nih.gov/rest"
	defaultUserAgent = "sds-wizard/1.0"

	// maxBodySize caps a single PubChem response; full PUG View records for
	// common solvents stay well below it.
	maxBodySize = 16 << 20
)

// Config holds the PubChem client tunables.
type Config struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second
	Burst        int           `mapstructure:"burst"`
	Concurrency  int           `mapstructure:"concurrency"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// DefaultConfig matches the PubChem usage policy of at most five requests
// per second.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryWaitMin: 250 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RateLimit:    5,
		Burst:        5,
		Concurrency:  4,
		CacheTTL:     30 * time.Minute,
		UserAgent:    defaultUserAgent,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = d.RetryWaitMin
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		c.RetryWaitMax = c.RetryWaitMin
	}
	if c.RateLimit <= 0 {
		c.RateLimit = d.RateLimit
	}
	if c.Burst <= 0 {
		c.Burst = d.Burst
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Metrics receives one observation per HTTP exchange.
type Metrics interface {
	ObservePubChemRequest(endpoint, outcome string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObservePubChemRequest(string, string, time.Duration) {}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.  Tests pass one backed
// by an httpmock transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics attaches a request observer.
func WithMetrics(m Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client performs rate-limited, retried GETs against PubChem.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    Metrics
	logger     logging.Logger
}

// NewClient builds a Client from cfg, filling unset fields with defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.applyDefaults()
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		metrics:    noopMetrics{},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// get fetches path relative to the base URL.  endpoint labels the call in
// metrics and errors.  The whole exchange, retries included, is bounded by
// the configured timeout.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, *FetchError) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	fullURL := c.cfg.BaseURL + path
	start := time.Now()
	body, ferr := c.doWithRetry(ctx, endpoint, fullURL)

	outcome := "ok"
	if ferr != nil {
		outcome = string(ferr.Kind)
	}
	c.metrics.ObservePubChemRequest(endpoint, outcome, time.Since(start))
	return body, ferr
}

func (c *Client) doWithRetry(ctx context.Context, endpoint, fullURL string) ([]byte, *FetchError) {
	var lastErr *FetchError
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.calculateBackoff(attempt)
			if lastErr != nil && lastErr.Status == http.StatusTooManyRequests {
				wait = maxDuration(wait, lastRetryAfter(lastErr))
			}
			c.logger.Debug("retrying pubchem request",
				logging.String("endpoint", endpoint),
				logging.Int("attempt", attempt),
				logging.Duration("backoff", wait))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, classifyTransport(endpoint, fullURL, ctx.Err())
			}
		}

		body, ferr, retry := c.doOnce(ctx, endpoint, fullURL)
		if ferr == nil {
			return body, nil
		}
		lastErr = ferr
		if !retry {
			return nil, ferr
		}
	}
	return nil, lastErr
}

// retryAfterError carries a server-provided Retry-After hint.
type retryAfterError struct {
	after time.Duration
}

func (e retryAfterError) Error() string { return "retry after " + e.after.String() }

func lastRetryAfter(ferr *FetchError) time.Duration {
	if ra, ok := ferr.Cause.(retryAfterError); ok {
		return ra.after
	}
	return 0
}

func (c *Client) doOnce(ctx context.Context, endpoint, fullURL string) ([]byte, *FetchError, bool) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyTransport(endpoint, fullURL, err), false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, newFetchError(KindTransport, endpoint, fullURL, err), false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		ferr := classifyTransport(endpoint, fullURL, err)
		// A timeout ends the call; other network errors are retried.
		return nil, ferr, ferr.Kind == KindTransport && ctx.Err() == nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransport(endpoint, fullURL, err), false
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil, false
	case resp.StatusCode == http.StatusNotFound:
		ferr := newFetchError(KindNotFound, endpoint, fullURL, nil)
		ferr.Status = resp.StatusCode
		return nil, ferr, false
	case resp.StatusCode == http.StatusTooManyRequests:
		ferr := newFetchError(KindStatus, endpoint, fullURL, nil)
		ferr.Status = resp.StatusCode
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			ferr.Cause = retryAfterError{after: time.Duration(secs) * time.Second}
		}
		return nil, ferr, true
	default:
		ferr := newFetchError(KindStatus, endpoint, fullURL, fmt.Errorf("%s", truncate(string(body), 200)))
		ferr.Status = resp.StatusCode
		return nil, ferr, resp.StatusCode >= 500
	}
}

// calculateBackoff doubles RetryWaitMin per attempt up to RetryWaitMax and
// adds up to 25% jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.cfg.RetryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.cfg.RetryWaitMax {
		backoff = c.cfg.RetryWaitMax
	}
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

//Personal.AI order the ending
