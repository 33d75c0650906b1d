// Package nasa fetches the external feeds: api.nasa.gov (APOD, NeoWs, Earth
// imagery) and the Exoplanet Archive TAP service. Every failure is returned
// as a *model.FetchError.
package nasa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"space-mission-pipeline/internal/config"
	"space-mission-pipeline/internal/model"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "missions",
	Subsystem: "nasa",
	Name:      "requests_total",
	Help:      "Feed HTTP attempts, by feed and outcome.",
}, []string{"feed", "outcome"})

// Client is a rate-limited, retrying client for the NASA feeds
type Client struct {
	cfg          config.Feeds
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	logger       *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackoff sets the retry delay bounds
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.initialDelay = initial
		c.maxDelay = maxDelay
	}
}

// NewClient creates a client from the feed configuration
func NewClient(cfg config.Feeds, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	c := &Client{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout()},
		limiter:      rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
		maxRetries:   cfg.MaxRetries,
		initialDelay: 500 * time.Millisecond,
		maxDelay:     8 * time.Second,
		logger:       logger.With("component", "nasa"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do runs one logical request with rate limiting and retry. handle sees
// only 2xx responses.
func (c *Client) do(ctx context.Context, feed model.Feed, method, endpoint string, query url.Values, handle func(*http.Response) error) error {
	var lastErr *model.FetchError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.logger.Debug("retrying feed request", "feed", feed, "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return model.NewFetchError(feed, classifyTransport(ctx.Err()), ctx.Err())
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return model.NewFetchError(feed, model.FetchTimeout, fmt.Errorf("rate limiter: %w", err))
		}

		lastErr = c.doOnce(ctx, feed, method, endpoint, query, handle)
		if lastErr == nil {
			requestsTotal.WithLabelValues(string(feed), "ok").Inc()
			return nil
		}
		requestsTotal.WithLabelValues(string(feed), string(lastErr.Kind)).Inc()
		if !lastErr.Retryable() || ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, feed model.Feed, method, endpoint string, query url.Values, handle func(*http.Response) error) *model.FetchError {
	u, err := url.Parse(endpoint)
	if err != nil {
		return model.NewFetchError(feed, model.FetchInvalidResponse, fmt.Errorf("parse url: %w", err))
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return model.NewFetchError(feed, model.FetchInvalidResponse, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewFetchError(feed, classifyTransport(err), redact(err))
	}
	defer resp.Body.Close()

	if kind, bad := classifyStatus(resp.StatusCode); bad {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return model.NewFetchError(feed, kind, fmt.Errorf("%s %s: HTTP %d", method, u.Path, resp.StatusCode))
	}

	if err := handle(resp); err != nil {
		var fe *model.FetchError
		if errors.As(err, &fe) {
			return fe
		}
		if ctx.Err() != nil {
			return model.NewFetchError(feed, classifyTransport(ctx.Err()), err)
		}
		return model.NewFetchError(feed, model.FetchInvalidResponse, err)
	}
	return nil
}

// backoff grows exponentially from initialDelay, capped at maxDelay, with
// up to 10% jitter
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.initialDelay << (attempt - 1)
	if delay > c.maxDelay || delay <= 0 {
		delay = c.maxDelay
	}
	if jitter := int64(delay) / 10; jitter > 0 {
		delay += time.Duration(rand.Int64N(jitter))
	}
	return delay
}

func classifyStatus(status int) (model.FetchErrorKind, bool) {
	switch {
	case status >= 200 && status < 300:
		return "", false
	case status == http.StatusTooManyRequests:
		return model.FetchRateLimited, true
	case status >= 500:
		return model.FetchUnreachable, true
	default:
		return model.FetchInvalidResponse, true
	}
}

func classifyTransport(err error) model.FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.FetchTimeout
	}
	return model.FetchUnreachable
}

// redact drops the query string, and with it the api key, from url errors
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, perr := url.Parse(urlErr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}
