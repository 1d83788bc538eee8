// Package envato is a small client for the Envato Market REST API.
package envato

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/lukman83/envato-scrape/internal/httputil"
	"github.com/lukman83/envato-scrape/internal/metrics"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.envato.com/v1/"
	// DefaultUserAgent identifies this tool to the API.
	DefaultUserAgent = "envato-scrape/0.1.0"

	maxErrorBody = 512
)

// Config holds what NewClient needs to talk to the API.
type Config struct {
	BaseURL       string
	APIKey        string
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
	RateBurst     int
	Retry         RetryPolicy
}

// Client issues authenticated GET requests and transparently waits out
// rate-limit responses. It is safe for sequential use only.
type Client struct {
	rest    *resty.Client
	retry   RetryPolicy
	sleep   Sleeper
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithSleeper replaces the blocking sleep used between rate-limited attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithLogger sets the logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records request metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates an API client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	transport := &PacedTransport{
		Base:        httputil.NewTransport(),
		RateLimiter: NewLimiter(cfg.RatePerSecond, cfg.RateBurst),
		UserAgent:   cfg.UserAgent,
	}

	rest := resty.NewWithClient(httputil.NewHTTPClient(transport, cfg.Timeout)).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("User-Agent", cfg.UserAgent)
	for k, v := range httputil.APIHeaders() {
		rest.SetHeader(k, v[0])
	}

	c := &Client{
		rest:   rest,
		retry:  cfg.Retry,
		sleep:  sleepContext,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient exposes the underlying *http.Client, e.g. for mocking transports.
func (c *Client) HTTPClient() *http.Client {
	return c.rest.GetClient()
}

// Call performs GET <base>/<endpoint>?<params> and returns the decoded JSON
// object. HTTP 429 responses are retried according to the retry policy;
// every other failure is returned to the caller.
func (c *Client) Call(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	attempt := 0
	for {
		start := time.Now()
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParamsFromValues(params).
			SetDoNotParseResponse(true).
			Get(endpoint)
		if err != nil {
			c.metrics.ObserveRequest(0, time.Since(start))
			return nil, &TransportError{Endpoint: endpoint, Err: err}
		}

		status := resp.StatusCode()
		body, readErr := httputil.ReadBody(resp.RawResponse)
		resp.RawBody().Close()
		c.metrics.ObserveRequest(status, time.Since(start))

		if status == http.StatusTooManyRequests {
			attempt++
			retryAfter := resp.Header().Get("Retry-After")
			wait, ok := c.retry.next(retryAfter, attempt)
			if !ok {
				c.logger.Error("rate limit retries exhausted",
					zap.String("endpoint", endpoint),
					zap.Int("attempts", attempt),
				)
				return nil, fmt.Errorf("%s: %w", endpoint, ErrRateLimited)
			}
			c.logger.Warn("rate limited, waiting before retry",
				zap.String("endpoint", endpoint),
				zap.String("retry_after", retryAfter),
				zap.Duration("wait", wait),
				zap.Int("attempt", attempt),
			)
			c.metrics.ObserveRateLimit(wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, &TransportError{Endpoint: endpoint, Err: err}
			}
			continue
		}

		if readErr != nil {
			return nil, &TransportError{Endpoint: endpoint, Err: readErr}
		}
		if status < 200 || status >= 300 {
			err := &StatusError{Endpoint: endpoint, StatusCode: status, Body: excerpt(body)}
			c.logger.Error("api request failed",
				zap.String("endpoint", endpoint),
				zap.Int("status", status),
				zap.String("error_type", errorTypeLabel(err)),
			)
			return nil, err
		}

		data, err := decodeObject(body)
		if err != nil {
			return nil, &DecodeError{Endpoint: endpoint, Err: err}
		}
		c.logger.Debug("api request completed",
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
		)
		return data, nil
	}
}

func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func excerpt(body []byte) string {
	r := []rune(string(body))
	if len(r) <= maxErrorBody {
		return string(r)
	}
	return string(r[:maxErrorBody-3]) + "..."
}
