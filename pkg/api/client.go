package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/parfum-storefront/pkg/cache"
	"github.com/tair/parfum-storefront/pkg/logger"
)

const (
	// TenantHeader identifies this storefront to the shared commerce API.
	TenantHeader = "X-Tenant-ID"

	defaultTimeout    = 15 * time.Second
	defaultCacheSize  = 128
	maxResponseLength = 4 << 20
)

var (
	requestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total number of requests issued to the commerce API",
		},
		[]string{"method", "path", "status"},
	)

	requestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_seconds",
			Help:    "Duration of commerce API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	cacheCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_cache_total",
			Help: "Cache hits and misses for cacheable API requests",
		},
		[]string{"result"},
	)
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means no Authorization header is attached.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client is the single chokepoint for all remote calls. It attaches the
// tenant header to every request, optionally attaches the bearer token,
// serves fresh cache entries without touching the network, and normalizes
// every non-2xx response into *Error.
type Client struct {
	baseURL    string
	tenantID   string
	httpClient *http.Client
	cache      *cache.Cache
	tokens     TokenSource
}

// New creates an API client for baseURL. tokens may be nil for a client
// that never authenticates.
func New(baseURL, tenantID string, tokens TokenSource) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tenantID: tenantID,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cache:  cache.New(defaultCacheSize),
		tokens: tokens,
	}
}

// RequestOptions controls a single call through the wrapper.
type RequestOptions struct {
	Method      string
	Query       url.Values
	Body        any
	IncludeAuth bool

	// CacheKey enables read-through caching of the unwrapped payload.
	CacheKey      string
	CacheDuration time.Duration
}

// Do issues a request against path and returns the unwrapped payload:
// the envelope's "data" field when present, otherwise the raw body.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}

	if opts.CacheKey != "" {
		if cached, ok := c.cache.Get(opts.CacheKey); ok {
			cacheCounter.WithLabelValues("hit").Inc()
			logger.Debug(ctx).
				Str("cache_key", opts.CacheKey).
				Str("path", path).
				Msg("Cache hit")
			return cached.(json.RawMessage), nil
		}
		cacheCounter.WithLabelValues("miss").Inc()
	}

	req, err := c.newRequest(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestLatency.WithLabelValues(opts.Method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		requestCounter.WithLabelValues(opts.Method, path, "network_error").Inc()
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	requestCounter.WithLabelValues(opts.Method, path, strconv.Itoa(resp.StatusCode)).Inc()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLength))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	// Defensive parse: an unparseable body is treated as absent rather
	// than failing here, so error responses with plain-text bodies still
	// produce a usable *Error below.
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		parsed = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, parsed, resp.Header)
		logger.Debug(ctx).
			Str("method", opts.Method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("API request failed")
		return nil, apiErr
	}

	payload := json.RawMessage(rawBody)
	if data, ok := parsed["data"]; ok {
		payload = data
	}

	if opts.CacheKey != "" {
		ttl := opts.CacheDuration
		if ttl <= 0 {
			ttl = time.Minute
		}
		c.cache.Set(opts.CacheKey, payload, ttl)
	}

	return payload, nil
}

// InvalidateCache drops every cached payload whose key starts with prefix.
// Mutating calls use this to keep list caches from serving stale data.
func (c *Client) InvalidateCache(prefix string) {
	removed := c.cache.InvalidatePrefix(prefix)
	if removed > 0 {
		logger.Logger.Debug().
			Str("prefix", prefix).
			Int("count", removed).
			Msg("Cache invalidated")
	}
}

func (c *Client) newRequest(ctx context.Context, path string, opts RequestOptions) (*http.Request, error) {
	u := c.baseURL + path
	if len(opts.Query) > 0 {
		u += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(TenantHeader, c.tenantID)
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.IncludeAuth && c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}
