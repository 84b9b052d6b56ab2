package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned for a 404 response, which collaborators use for unknown keys.
var ErrNotFound = errors.New("resource not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// JSONClient performs rate limited GET requests with a fixed call timeout.
type JSONClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	headers map[string]string
	logger  *zap.Logger
}

// Option configures a JSONClient.
type Option func(*JSONClient)

// WithRateLimit throttles outbound calls to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *JSONClient) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *JSONClient) {
		if value != "" {
			c.headers[key] = value
		}
	}
}

// NewJSONClient creates a client for baseURL. timeout bounds each call when the
// context carries no earlier deadline.
func NewJSONClient(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *JSONClient {
	c := &JSONClient{
		client: &fasthttp.Client{
			Name:                "balance_aggregator",
			MaxIdleConnDuration: time.Minute,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		headers: make(map[string]string),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL without the trailing slash.
func (c *JSONClient) BaseURL() string {
	return c.baseURL
}

// GetJSON requests baseURL+path and decodes a 2xx body into out.
func (c *JSONClient) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("Failed to unmarshal response", zap.String("path", path), zap.ByteString("responseBody", body), zap.Error(err))
		return fmt.Errorf("failed to unmarshal response from %s: %w", path, err)
	}
	return nil
}

// Get requests baseURL+path and returns a copy of the 2xx body.
func (c *JSONClient) Get(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	requestURL := c.baseURL + path
	c.logger.Debug("Sending request", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	// resp is released on return, the body must be copied
	body := append([]byte(nil), resp.Body()...)
	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", requestURL, ErrNotFound)
	case status < 200 || status >= 300:
		c.logger.Error("Request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body),
		)
		return nil, &StatusError{URL: requestURL, StatusCode: status, Body: string(body)}
	}
	return body, nil
}
