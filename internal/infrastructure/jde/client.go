package jde

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxRawBodyBytes bounds how much of a non-JSON reply is preserved in the
// fallback body.
const maxRawBodyBytes = 200

// jitterWindow is the upper bound of the random component added to every
// backoff delay.
const jitterWindow = 200 * time.Millisecond

// ErrTransport marks a network-level failure that survived all retries.
var ErrTransport = errors.New("jde: transport failure")

// Client config errors
var (
	ErrClientConfigMissingBaseURL = errors.New("jde: base URL is required")
	ErrClientConfigInvalidBaseURL = errors.New("jde: base URL is invalid")
)

// ClientConfig holds the settings for the outbound JDE HTTP client.
type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration // per attempt
	MaxRetries  int           // additional attempts after the first
	BackoffBase time.Duration
	Offline     bool // short-circuit without network activity
}

// Validate checks the configuration and fills in defaults.
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrClientConfigMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return ErrClientConfigInvalidBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 300 * time.Millisecond
	}
	return nil
}

// Response is one raw ERP reply: the HTTP status and the decoded JSON body.
// A non-JSON or empty body is replaced by a fallback object carrying the
// first bytes of the raw payload under the "raw" key.
type Response struct {
	StatusCode int
	Body       map[string]any
}

// Client performs JSON request/response exchanges against JDE with bounded
// retries and jittered exponential backoff. Only connection-level failures
// are retried; any reply, whatever its status, is returned immediately.
type Client struct {
	config *ClientConfig
	logger *zap.Logger

	// sleep is indirect so tests can observe backoff delays
	sleep func(time.Duration)
}

// NewClient creates a new JDE client
func NewClient(config *ClientConfig, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		logger: logger.Named("jde"),
		sleep:  time.Sleep,
	}, nil
}

// Do performs one exchange using the configured timeout and retry budget.
func (c *Client) Do(ctx context.Context, method, path string, payload any, headers map[string]string) (*Response, error) {
	return c.do(ctx, method, path, payload, headers, c.config.Timeout, c.config.MaxRetries)
}

// Ping reports whether JDE answers at all. Any reply below 500 counts as
// reachable; the probe never retries and never raises.
func (c *Client) Ping(ctx context.Context) bool {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil, nil, 3*time.Second, 0)
	if err != nil {
		c.logger.Warn("JDE ping failed", zap.Error(err))
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 500
}

func (c *Client) do(ctx context.Context, method, path string, payload any, headers map[string]string, timeout time.Duration, maxRetries int) (*Response, error) {
	if c.config.Offline {
		c.logger.Info("JDE offline mode: request suppressed",
			zap.String("method", method),
			zap.String("path", path),
		)
		return &Response{StatusCode: http.StatusOK, Body: map[string]any{"dry_run": true}}, nil
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("jde: failed to marshal request body: %w", err)
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := strings.TrimRight(c.config.BaseURL, "/") + path

	var lastErr error
	attempts := 1 + maxRetries
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := c.backoffDelay(attempt)
			c.logger.Warn("JDE request failed, retrying",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt-1),
				zap.Duration("backoff", delay),
				zap.Error(lastErr),
			)
			c.sleep(delay)
		}

		resp, err := c.attempt(ctx, method, fullURL, body, headers, timeout)
		if err != nil {
			lastErr = err
			continue
		}

		c.logger.Debug("JDE response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("status", resp.StatusCode),
		)
		return resp, nil
	}

	c.logger.Warn("JDE request failed after all attempts",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrTransport, attempts, lastErr)
}

// attempt performs a single HTTP exchange on a fresh connection.
func (c *Client) attempt(ctx context.Context, method, fullURL string, body []byte, headers map[string]string, timeout time.Duration) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), fullURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("jde: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	// One connection per attempt: no keep-alive reuse across retries. TLS
	// or plaintext follows from the URL scheme.
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{DisableKeepAlives: true},
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(resp.Body),
	}, nil
}

// backoffDelay computes the wait before the given attempt (attempt >= 2):
// base * 2^(attempt-2) plus a uniform random jitter.
func (c *Client) backoffDelay(attempt int) time.Duration {
	exp := c.config.BackoffBase << (attempt - 2)
	jitter := time.Duration(rand.Int63n(int64(jitterWindow)))
	return exp + jitter
}

// decodeBody parses the reply as JSON. A non-JSON or empty body yields a
// fallback object carrying the first raw bytes.
func decodeBody(r io.Reader) map[string]any {
	raw, _ := io.ReadAll(r)

	if len(raw) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		var body map[string]any
		if err := decoder.Decode(&body); err == nil {
			return body
		}
	}

	snippet := raw
	if len(snippet) > maxRawBodyBytes {
		snippet = snippet[:maxRawBodyBytes]
	}
	return map[string]any{"raw": string(snippet)}
}
