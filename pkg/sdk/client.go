package athletedex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxErrorBody = 64 << 10

// Client calls the athletedex HTTP API. Safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	clientIP  string
	obs       *observer
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:   defaultTimeout,
		userAgent: "athletedex-go",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("athletedex: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("athletedex: base url must be http or https, got %q", baseURL)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   u,
		http:      httpClient,
		userAgent: cfg.userAgent,
		clientIP:  cfg.clientIP,
		obs:       obs,
	}, nil
}

// List returns one page of athletes matching q. A nil q lists with server defaults.
func (c *Client) List(ctx context.Context, q *Query) (res ListResult, meta Meta, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	var values url.Values
	if q != nil {
		values = q.Values()
	}
	meta, err = c.do(ctx, http.MethodGet, "/athletes", values, &res)
	return res, meta, err
}

// Filters returns the values available for filtering.
func (c *Client) Filters(ctx context.Context) (out FilterOptions, meta Meta, err error) {
	start := time.Now()
	defer func() { c.obs.observe("filters", start, err) }()

	meta, err = c.do(ctx, http.MethodGet, "/filters", nil, &out)
	return out, meta, err
}

// Stats returns roster totals and averages.
func (c *Client) Stats(ctx context.Context) (out Stats, meta Meta, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", start, err) }()

	meta, err = c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, meta, err
}

// InvalidateCache clears server cache entries matching pattern, or all of them when pattern is empty.
// Returns the pattern the server applied.
func (c *Client) InvalidateCache(ctx context.Context, pattern string) (applied string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("invalidate_cache", start, err) }()

	var values url.Values
	if pattern != "" {
		values = url.Values{"pattern": {pattern}}
	}
	var resp struct {
		Success bool   `json:"success"`
		Pattern string `json:"pattern"`
	}
	if _, err = c.do(ctx, http.MethodPost, "/cache/invalidate", values, &resp); err != nil {
		return "", err
	}
	return resp.Pattern, nil
}

// Health reports server health. A degraded server answers 503 and is still decoded.
func (c *Client) Health(ctx context.Context) (out HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	_, err = c.do(ctx, http.MethodGet, "/health", nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && out.Status != "" {
		return out, nil
	}
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) (Meta, error) {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return Meta{}, fmt.Errorf("athletedex: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.clientIP != "" {
		req.Header.Set("X-Forwarded-For", c.clientIP)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Meta{}, fmt.Errorf("athletedex: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := metaFrom(resp.Header)
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := apiErrorFrom(resp, body)
		// Health bodies are meaningful on 503.
		if out != nil && len(body) > 0 && resp.StatusCode == http.StatusServiceUnavailable {
			_ = json.Unmarshal(body, out)
		}
		return meta, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return meta, fmt.Errorf("athletedex: decode %s response: %w", path, err)
		}
	}
	return meta, nil
}

func metaFrom(h http.Header) Meta {
	m := Meta{
		CacheHit:  h.Get("X-Cache") == "HIT",
		RequestID: h.Get("X-Request-ID"),
	}
	m.RateLimit.Limit, _ = strconv.Atoi(h.Get("X-RateLimit-Limit"))
	m.RateLimit.Remaining, _ = strconv.Atoi(h.Get("X-RateLimit-Remaining"))
	m.RateLimit.Reset, _ = time.Parse(time.RFC3339, h.Get("X-RateLimit-Reset"))
	return m
}

func apiErrorFrom(resp *http.Response, body []byte) *APIError {
	var payload struct {
		Error     string              `json:"error"`
		Message   string              `json:"message"`
		Details   map[string][]string `json:"details"`
		ResetTime string              `json:"resetTime"`
	}
	_ = json.Unmarshal(body, &payload)

	e := &APIError{
		StatusCode: resp.StatusCode,
		Title:      payload.Error,
		Message:    payload.Message,
		Details:    payload.Details,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}
	if e.Title == "" {
		e.Title = http.StatusText(resp.StatusCode)
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	if payload.ResetTime != "" {
		e.ResetTime, _ = time.Parse(time.RFC3339, payload.ResetTime)
	}
	return e
}
