// Package client is a Go SDK for the SDS wizard HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sds-wizard/pkg/errors"
)

const Version = "0.1.0"

const apiPrefix = "/api/v1"

// Logger is the minimal logging surface the SDK writes to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one SDS wizard apiserver.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	wizard        *WizardClient
	wizardOnce    sync.Once
	documents     *DocumentsClient
	documentsOnce sync.Once
	chemtable     *ChemtableClient
	chemtableOnce sync.Once
}

// APIError is a non-2xx response.  It unwraps to an *errors.AppError carrying
// the server's error code, so errors.IsCode and errors.IsNotFound work on it.
type APIError struct {
	StatusCode int               `json:"status_code"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Detail     string            `json:"detail,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	RequestID  string            `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("sds: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + " [request_id=" + e.RequestID + "]"
}

func (e *APIError) Unwrap() error {
	if e.Code == "" {
		return nil
	}
	return errors.New(errors.ErrorCode(e.Code), e.Message).WithDetail(e.Detail)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsValidation reports whether a step submission was rejected.  Fields then
// maps each offending field to its message.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// NewClient returns a client for the apiserver at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.InvalidParam("baseURL is required")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid baseURL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.InvalidParam("baseURL scheme must be http or https").WithDetail(baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    fmt.Sprintf("sds-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Wizard() *WizardClient {
	c.wizardOnce.Do(func() {
		c.wizard = &WizardClient{client: c}
	})
	return c.wizard
}

func (c *Client) Documents() *DocumentsClient {
	c.documentsOnce.Do(func() {
		c.documents = &DocumentsClient{client: c}
	})
	return c.documents
}

func (c *Client) Chemtable() *ChemtableClient {
	c.chemtableOnce.Do(func() {
		c.chemtable = &ChemtableClient{client: c}
	})
	return c.chemtable
}

// Ready returns nil when the server's readiness probe passes.
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodGet, "/readyz", nil, "")
	return err
}

// do sends a JSON request and decodes a JSON response into result.  It
// returns the HTTP status so callers can tell 200 from 201.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) (int, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
		}
		payload = b
	}

	resp, err := c.send(ctx, method, path, payload, "application/json")
	if err != nil {
		return 0, err
	}

	if result != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, result); err != nil {
			return resp.status, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal response")
		}
	}
	return resp.status, nil
}

// send performs the request with retries and returns the read response.
// Only idempotent methods are retried.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, accept string) (*response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to create request")
		}

		requestID := uuid.New().String()
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if c.shouldRetry(method, nil) {
				continue
			}
			return nil, err
		}

		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, duration)

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to read response body")
		}

		if resp.StatusCode == http.StatusServiceUnavailable && attempt < c.retryMax && c.shouldRetry(method, resp) {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
				c.logger.Infof("Service unavailable, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				RequestID:  requestID,
			}
			if id := resp.Header.Get("X-Request-ID"); id != "" {
				apiErr.RequestID = id
			}

			if len(respBody) > 0 {
				if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
					apiErr.Message = strings.TrimSpace(string(respBody))
				}
			}
			apiErr.StatusCode = resp.StatusCode

			lastErr = apiErr
			if c.shouldRetry(method, resp) {
				continue
			}
			return nil, apiErr
		}

		return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, result)
	return err
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) (int, error) {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// shouldRetry retries transport failures and 5xx responses of idempotent
// requests.  A POST may already have advanced the session.
func (c *Client) shouldRetry(method string, resp *http.Response) bool {
	if method != http.MethodGet && method != http.MethodHead {
		return false
	}
	if resp == nil {
		return true
	}
	return resp.StatusCode >= 500 && resp.StatusCode < 600
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}

	jitter := time.Duration(0)
	if quarter := int64(backoff / 4); quarter > 0 {
		jitter = time.Duration(rand.Int63n(quarter))
	}
	return backoff + jitter
}

//Personal.AI order the ending
