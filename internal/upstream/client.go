// Package upstream talks to the Met Office DataHub point-forecast API and
// turns its GeoJSON payloads into domain Samples. All outbound HTTP goes
// through Client, which enforces the resilience patterns shared by every
// remote call: circuit breaking, request rate limiting, trace propagation,
// and error mapping into the AppError taxonomy. Retry policy deliberately
// lives with the caller's scheduler, not here.
package upstream

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"meteogram/internal/types"
)

// Client wraps an *http.Client with a circuit breaker and a rate limiter.
// Provider clients (DataHub, calendar fetcher) embed it to inherit the
// behavior.
type Client struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a Client. requestsPerMinute caps the steady-state call
// rate (burst of 1: the upstream APIs are metered per call); zero disables
// limiting.
func NewClient(httpClient *http.Client, breakerName string, requestsPerMinute int, userAgent string) *Client {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}

	return &Client{
		client:    httpClient,
		breaker:   cb,
		limiter:   limiter,
		userAgent: userAgent,
	}
}

// Do executes the request with rate limiting, trace ID injection, and
// circuit breaker wrapping. Responses with status 429 or 5xx are mapped to
// AppErrors (and count as breaker failures); other statuses are returned
// as-is with the caller responsible for closing the body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, types.NewAppError(types.ErrCodeUpstreamRateLimited,
				"rate limiter wait aborted", err)
		}
	}

	if traceID := types.GetRequestID(ctx); traceID != "" {
		req.Header.Set("X-Request-Id", traceID)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			return nil, types.NewAppError(types.ErrCodeUpstreamRateLimited,
				"upstream rejected request with 429", nil)
		case resp.StatusCode >= 500:
			resp.Body.Close()
			return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable,
				"upstream returned "+resp.Status, nil)
		}
		return resp, nil
	})
	if err != nil {
		var app *types.AppError
		if errors.As(err, &app) {
			return nil, app
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable,
				"circuit breaker open for "+c.breaker.Name(), err)
		}
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable,
			"request failed", err)
	}
	return resp, nil
}
