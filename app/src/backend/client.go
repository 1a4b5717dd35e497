// Package backend talks to the quote backend over HTTP. Every call is bounded
// by one timeout, is never retried, and reports its outcome as a domain.CallResult
// instead of an error so that route handlers can fall back without branching on
// failure kinds.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"quote-frontend/app/src/domain"
	"quote-frontend/app/src/infra"
	"quote-frontend/app/src/shared/constants"
)

const defaultMaxBodyBytes = 256 * 1024

// Operation names used in logs and metrics.
const (
	OpProbe    = "probe"
	OpDatabase = "check_db"
	OpFetchOne = "fetch_one"
	OpFetchAll = "fetch_all"
	OpSubmit   = "submit"
	OpHostname = "hostname"
)

type Config struct {
	// BaseURL is the backend root, e.g. http://backend:5000. Empty means not configured.
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL      string
	timeout      time.Duration
	http         *http.Client
	logger       *infra.Logger
	observer     domain.ProbeObserver
	maxBodyBytes int64
}

type Option func(*Client)

// WithHTTPClient replaces the default transport. The client timeout still applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithProbeObserver registers a callback for every availability probe.
func WithProbeObserver(o domain.ProbeObserver) Option {
	return func(c *Client) { c.observer = o }
}

func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

var _ domain.Backend = (*Client)(nil)

func NewClient(cfg Config, logger *infra.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.BackendTimeout
	}
	c := &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:      timeout,
		http:         &http.Client{},
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a backend address is known.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Probe issues a single readiness check.
func (c *Client) Probe(ctx context.Context) domain.CallResult {
	_, result := c.do(ctx, OpProbe, http.MethodGet, constants.PathReady, nil)
	if result.OK() {
		c.record(ctx, result)
	}
	if c.observer != nil {
		c.observer.ObserveProbe(result)
	}
	return result
}

// DatabaseStatus asks the backend whether its database is reachable.
// A missing or non-string "db-connected" field is reported as malformed.
func (c *Client) DatabaseStatus(ctx context.Context) (bool, domain.CallResult) {
	body, result := c.do(ctx, OpDatabase, http.MethodGet, constants.PathDatabase, nil)
	if !result.OK() {
		return false, result
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, c.malformed(ctx, result, err)
	}
	value, ok := payload["db-connected"].(string)
	if !ok {
		return false, c.malformed(ctx, result, errors.New(`missing "db-connected" field`))
	}
	c.record(ctx, result)
	return value == "true", result
}

// FetchOne returns one quote as the raw response text.
func (c *Client) FetchOne(ctx context.Context) (string, domain.CallResult) {
	body, result := c.do(ctx, OpFetchOne, http.MethodGet, constants.PathQuote, nil)
	if !result.OK() {
		return "", result
	}
	c.record(ctx, result)
	return string(body), result
}

// FetchAll returns every quote known to the backend in backend order.
func (c *Client) FetchAll(ctx context.Context) ([]string, domain.CallResult) {
	body, result := c.do(ctx, OpFetchAll, http.MethodGet, constants.PathQuotes, nil)
	if !result.OK() {
		return nil, result
	}

	var quotes []string
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, c.malformed(ctx, result, err)
	}
	if quotes == nil {
		quotes = []string{}
	}
	c.record(ctx, result)
	return quotes, result
}

// Submit forwards an add-quote payload verbatim and returns the backend's answer.
func (c *Client) Submit(ctx context.Context, payload []byte) domain.SubmitResult {
	body, result := c.do(ctx, OpSubmit, http.MethodPost, constants.PathAddQuote, payload)
	if result.OK() {
		c.record(ctx, result)
	}
	return domain.SubmitResult{CallResult: result, Message: strings.TrimSpace(string(body))}
}

// Hostname returns the backend's reported hostname.
func (c *Client) Hostname(ctx context.Context) (string, domain.CallResult) {
	body, result := c.do(ctx, OpHostname, http.MethodGet, constants.PathHostname, nil)
	if !result.OK() {
		return "", result
	}

	var payload struct {
		Backend *string `json:"backend"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", c.malformed(ctx, result, err)
	}
	if payload.Backend == nil {
		return "", c.malformed(ctx, result, errors.New(`missing "backend" field`))
	}
	c.record(ctx, result)
	return *payload.Backend, result
}

// do performs one bounded request. The body is returned for any status that
// was received, so callers can surface backend messages on failure. Failed
// calls are recorded here; successful ones are recorded by the caller once the
// body has been interpreted.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, domain.CallResult) {
	result := domain.CallResult{Operation: op}
	if !c.Configured() {
		result.Outcome = domain.OutcomeNotConfigured
		result.Err = domain.ErrBackendNotConfigured
		c.record(ctx, result)
		return nil, result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		result.Outcome = domain.OutcomeTransportError
		result.Err = fmt.Errorf("backend %s: build request: %w", op, err)
		c.record(ctx, result)
		return nil, result
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := infra.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(constants.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		result.Duration = time.Since(start)
		result.Outcome = classifyTransportError(err)
		result.Err = fmt.Errorf("backend %s: %w", op, err)
		c.record(ctx, result)
		return nil, result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	result.Duration = time.Since(start)
	result.StatusCode = resp.StatusCode
	if err != nil {
		result.Outcome = classifyTransportError(err)
		result.Err = fmt.Errorf("backend %s: read body: %w", op, err)
		c.record(ctx, result)
		return nil, result
	}

	if resp.StatusCode != http.StatusOK {
		result.Outcome = domain.OutcomeBadStatus
		result.Err = fmt.Errorf("backend %s: %w: %d", op, domain.ErrUnexpectedStatus, resp.StatusCode)
		c.record(ctx, result)
		return body, result
	}

	result.Outcome = domain.OutcomeOK
	return body, result
}

func (c *Client) malformed(ctx context.Context, result domain.CallResult, err error) domain.CallResult {
	result.Outcome = domain.OutcomeMalformed
	result.Err = fmt.Errorf("backend %s: %w: %v", result.Operation, domain.ErrMalformedResponse, err)
	c.record(ctx, result)
	return result
}

func (c *Client) record(ctx context.Context, result domain.CallResult) {
	infra.RecordBackendCall(result.Operation, result.Outcome.String(), result.Duration)
	switch result.Outcome {
	case domain.OutcomeOK:
		c.logger.Debugf(ctx, "backend %s ok in %s", result.Operation, result.Duration)
	case domain.OutcomeNotConfigured:
		c.logger.Debugf(ctx, "backend %s skipped: %v", result.Operation, result.Err)
	default:
		c.logger.Warnf(ctx, "backend %s %s: %v", result.Operation, result.Outcome, result.Err)
	}
}

func classifyTransportError(err error) domain.Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.OutcomeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.OutcomeTimeout
	}
	return domain.OutcomeTransportError
}
