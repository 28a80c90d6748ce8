package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swparks/sw-cli/internal/debug"
	"github.com/swparks/sw-cli/internal/dryrun"
)

const (
	// DefaultBaseURL is the production API.
	DefaultBaseURL = "https://workout.su/api/v3"
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second
	// DefaultResourceTimeout bounds a whole call including retries.
	DefaultResourceTimeout = 60 * time.Second
)

// ResponseCache stores raw bodies of cacheable GET responses.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, body []byte)
}

// Client runs endpoints against the workout API.
//
// Circuit breaker state persists for the lifetime of the client. Use
// ResetCircuitBreaker when reusing a client across unrelated sessions.
type Client struct {
	BaseURL         string
	HTTP            *http.Client
	Session         Session
	Boundary        string
	UserAgent       string
	ResourceTimeout time.Duration
	RetryConfig     RetryConfig
	Cache           ResponseCache

	newRequestID   func() string
	circuitBreaker *circuitBreaker
	cbOnce         sync.Once
}

// New creates a client. session may be nil for anonymous use.
func New(baseURL string, session Session) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg := DefaultRetryConfig()
	return &Client{
		BaseURL:         baseURL,
		Session:         session,
		Boundary:        DefaultBoundary,
		ResourceTimeout: DefaultResourceTimeout,
		RetryConfig:     cfg,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
		newRequestID:   uuid.NewString,
		circuitBreaker: newCircuitBreaker(cfg),
	}
}

// SetRetryConfig updates the retry configuration and aligns the circuit breaker.
func (c *Client) SetRetryConfig(cfg RetryConfig) {
	c.RetryConfig = cfg
	c.breaker().configure(cfg)
}

// ResetCircuitBreaker clears failure counts and closes the circuit.
func (c *Client) ResetCircuitBreaker() {
	c.breaker().reset()
}

func (c *Client) breaker() *circuitBreaker {
	c.cbOnce.Do(func() {
		if c.circuitBreaker == nil {
			c.circuitBreaker = newCircuitBreaker(c.RetryConfig)
		}
	})
	return c.circuitBreaker
}

type callConfig struct {
	forceLogout bool
	skipCache   bool
	session     Session
}

// CallOption tweaks a single Do call.
type CallOption func(*callConfig)

// WithoutForceLogout keeps a 401 from clearing the session. The login flow
// uses it so a wrong password does not log the user out recursively.
func WithoutForceLogout() CallOption {
	return func(c *callConfig) { c.forceLogout = false }
}

// WithSession overrides the client session for one call. Login uses it to
// authenticate with candidate credentials before they are stored.
func WithSession(s Session) CallOption {
	return func(c *callConfig) { c.session = s }
}

// WithoutCache bypasses the response cache for this call.
func WithoutCache() CallOption {
	return func(c *callConfig) { c.skipCache = true }
}

// Do builds the request for e, sends it and decodes the response into
// result (which may be nil). Errors are *Error values, except that in
// dry-run mode a mutating request is not sent and *dryrun.SkippedError
// describes it instead.
func (c *Client) Do(ctx context.Context, e Endpoint, result any, opts ...CallOption) error {
	cfg := callConfig{forceLogout: true, session: c.Session}
	for _, opt := range opts {
		opt(&cfg)
	}

	if c.ResourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ResourceTimeout)
		defer cancel()
	}

	req, err := Build(c.BaseURL, e, cfg.session, c.Boundary)
	if err != nil {
		return err
	}
	if req.Method != http.MethodGet && dryrun.IsEnabled(ctx) {
		return &dryrun.SkippedError{Preview: dryrun.NewPreview(req.Method, req.URL, req.Header.Get("Content-Type"), req.Body)}
	}

	useCache := c.Cache != nil && !cfg.skipCache && cacheable(e)
	if useCache {
		if body, ok := c.Cache.Get(ctx, req.URL); ok {
			if debug.IsEnabled(ctx) {
				slog.Debug("cache hit", "url", req.URL)
			}
			return HandleResponse(RawResponse{StatusCode: http.StatusOK, Body: body}, result, HandleOptions{})
		}
	}

	requestID := ""
	if c.newRequestID != nil {
		requestID = c.newRequestID()
	}
	raw := c.execute(ctx, req, requestID)
	err = HandleResponse(raw, result, HandleOptions{
		ForceLogout: cfg.forceLogout,
		Session:     cfg.session,
		RequestID:   requestID,
	})
	if err == nil && useCache && len(raw.Body) > 0 {
		c.Cache.Put(ctx, req.URL, raw.Body)
	}
	return err
}

// execute sends req, retrying GETs on 5xx. It never interprets the status
// beyond retry decisions; classification is left to HandleResponse.
func (c *Client) execute(ctx context.Context, req *Request, requestID string) RawResponse {
	cb := c.breaker()
	if !cb.allow() {
		return RawResponse{Err: &CircuitBreakerError{}}
	}

	retries := 0
	attempt := 0
	for {
		attempt++
		start := time.Now()

		var bodyReader io.Reader
		if req.Body != nil {
			bodyReader = bytes.NewReader(req.Body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
		if err != nil {
			cb.aborted()
			return RawResponse{Err: fmt.Errorf("failed to create request: %w", err)}
		}
		for key, values := range req.Header {
			for _, v := range values {
				httpReq.Header.Add(key, v)
			}
		}
		if c.UserAgent != "" {
			httpReq.Header.Set("User-Agent", c.UserAgent)
		}
		if requestID != "" {
			httpReq.Header.Set("X-Request-Id", requestID)
		}

		resp, err := c.HTTP.Do(httpReq)
		if err != nil {
			if debug.IsEnabled(ctx) {
				slog.Debug("request failed", "method", req.Method, "url", req.URL, "request_id", requestID, "attempt", attempt, "error", err)
			}
			cb.aborted()
			return RawResponse{Err: err}
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			cb.aborted()
			return RawResponse{Err: fmt.Errorf("failed to read response: %w", err)}
		}
		if debug.IsEnabled(ctx) {
			slog.Debug("request complete", "method", req.Method, "url", req.URL, "status", resp.StatusCode, "request_id", requestID, "attempt", attempt, "duration", time.Since(start))
		}

		if resp.StatusCode >= 500 {
			opened := cb.failed()
			if !opened && req.Method == http.MethodGet && retries < c.RetryConfig.ServerRetries {
				slog.Info("server error, retrying", "status", resp.StatusCode, "url", req.URL)
				if err := sleepCtx(ctx, c.RetryConfig.RetryDelay); err != nil {
					return RawResponse{Err: err}
				}
				retries++
				continue
			}
		} else {
			cb.succeeded()
		}

		return RawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	}
}
