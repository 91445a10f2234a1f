// Package iohttp provides an HTTP client for remote data sources with
// retries, exponential backoff and a circuit breaker.
package iohttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnames/wfdb/pkg/config"
	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
)

// maxBackoff caps a delay between attempts.
const maxBackoff = time.Minute

var (
	errRateLimited = errors.New("rate limited")
	errServer      = errors.New("server error")
)

// StatusError is a response status that is not worth retrying,
// for example 404.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client performs GET requests. Rate limiting (429), server errors (5xx)
// and transport errors are retried, other statuses fail at once.
type Client struct {
	http       *http.Client
	cb         *gobreaker.CircuitBreaker
	clock      clockwork.Clock
	maxRetries int
	backoff    time.Duration
}

// New creates a client with the given per-request timeout and the retry
// policy of cfg. A nil clock means the real one.
func New(
	name string,
	timeout time.Duration,
	cfg config.RemoteConfig,
	clock clockwork.Clock,
) *Client {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures > 10
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker changed state",
				"name", name, "from", from.String(), "to", to.String())
		},
	})
	return &Client{
		http:       &http.Client{Timeout: timeout},
		cb:         cb,
		clock:      clock,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.InitialBackoff,
	}
}

// Get returns a successful response. The caller closes its body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.do(ctx, url)
		if err == nil {
			return resp, nil
		}

		var stErr *StatusError
		switch {
		case errors.As(err, &stErr):
			return nil, RemoteError(url, attempt+1, err)
		case errors.Is(err, gobreaker.ErrOpenState),
			errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, RemoteError(url, attempt+1, err)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		}

		lastErr = err
		if attempt >= c.maxRetries {
			return nil, RemoteError(url, attempt+1, lastErr)
		}

		delay := c.delay(attempt)
		slog.Debug("Retrying request",
			"url", url, "attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(delay):
		}
	}
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	res, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		drain(resp)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: GET %s", errRateLimited, url)
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: GET %s: status %d",
				errServer, url, resp.StatusCode)
		default:
			return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
		}
	})
	if err != nil {
		return nil, err
	}
	return res.(*http.Response), nil
}

// delay doubles the initial backoff on every attempt.
func (c *Client) delay(attempt int) time.Duration {
	d := c.backoff
	for range attempt {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()
}
