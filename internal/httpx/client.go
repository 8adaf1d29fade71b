// Package httpx is a small JSON-over-HTTP helper with retries. Request
// bodies are always buffered, so replaying them across retry attempts is
// free; payloads on this API are tiny by construction.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RetryPolicy controls how transient failures are retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy is a conservative default shared by all clients.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

// Delay returns the pause before retry attempt (0-based). Delays double from
// BaseDelay and saturate at MaxDelay; Jitter spreads the result by up to that
// fraction in either direction.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.MaxDelay
	if attempt < 30 {
		if d := p.BaseDelay << uint(attempt); d > 0 && d < p.MaxDelay {
			delay = d
		}
	}
	if p.Jitter <= 0 || delay <= 0 {
		return delay
	}
	spread := 1 + math.Min(p.Jitter, 1)*(2*rand.Float64()-1)
	return time.Duration(float64(delay) * spread)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithRetryPolicy overrides the default retry configuration.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// Client issues JSON requests against a fixed base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
	retry      RetryPolicy
}

// New creates a Client for the provided base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("httpx: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		headers:    make(http.Header),
		retry:      DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.retry.MaxRetries < 0 {
		c.retry.MaxRetries = 0
	}
	if c.retry.BaseDelay <= 0 {
		c.retry.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if c.retry.MaxDelay <= 0 {
		c.retry.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	return c, nil
}

// GetJSON issues a GET and returns the drained response body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// PostJSON marshals payload, issues a POST and returns the drained response
// body. A nil payload sends an empty JSON object.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := marshalNoEscape(payload)
	if err != nil {
		return nil, fmt.Errorf("httpx: encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if c == nil || c.baseURL == nil {
		return nil, errors.New("httpx: client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL, err := c.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := c.roundTrip(ctx, method, fullURL, body)
		if err == nil {
			return data, nil
		}
		if !c.shouldRetry(attempt, err) {
			return nil, err
		}
		delay := c.retry.Delay(attempt)
		attempt++
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpx: read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       data,
			Header:     resp.Header.Clone(),
		}
	}
	return data, nil
}

func (c *Client) shouldRetry(attempt int, err error) bool {
	if attempt >= c.retry.MaxRetries {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	// Transport-level failures are assumed transient.
	return true
}

// buildURL appends path to the base URL, keeping any path prefix the base
// carries (each storage scope mounts under its own root).
func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if _, err := url.Parse(path); err != nil {
		return "", err
	}
	full := *c.baseURL
	full.Path = strings.TrimSuffix(full.Path, "/") + path
	full.RawQuery = ""
	if len(query) > 0 {
		full.RawQuery = query.Encode()
	}
	return full.String(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func marshalNoEscape(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
