package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion under
// long-running polling loops
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// Spec describes a single HTTP request to perform.
//
// The zero value is not usable; URL is required. Method defaults to GET
// and Timeout of zero means no per-request deadline beyond the caller's
// context.
type Spec struct {
	// Method is the HTTP method (GET, HEAD, POST). Empty defaults to GET.
	Method string

	// URL is the target URL.
	URL string

	// Headers contains custom HTTP headers to send with the request.
	Headers map[string]string

	// Timeout is the per-request deadline. Zero means no deadline is
	// applied; cancellation then comes only from the caller's context.
	Timeout time.Duration
}

// Response holds the outcome of a completed HTTP request.
type Response struct {
	// Body contains the HTTP response body, limited to 1MB.
	Body []byte

	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration
}

// Client is an HTTP client wrapper optimized for repeated polling of a
// single endpoint.
//
// Client applies per-request timeouts via context rather than a global
// client timeout, and limits response bodies to 1MB to bound memory use.
// Cancelling the context passed to [Client.Do] aborts the underlying
// request, which is how the polling layer implements cooperative
// cancellation of superseded fetches.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new polling [Client].
//
// The client is configured with connection pooling limits so that a
// long-lived polling loop reuses connections instead of exhausting them:
//   - MaxIdleConns: 100 total idle connections
//   - MaxIdleConnsPerHost: 10 idle connections per host
//   - MaxConnsPerHost: 10 concurrent connections per host
//   - IdleConnTimeout: 60 seconds before closing idle connections
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - per-request deadlines come via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
				DisableKeepAlives:   false,
			},
		},
	}
}

// Do performs the request described by spec and returns the response.
//
// A non-nil error indicates the request did not complete: construction
// failed, the transport failed, the body could not be read, or the
// context was cancelled. Cancellation surfaces as an error wrapping
// [context.Canceled], which the polling layer recognises and swallows.
// A completed request with a non-2xx status is not an error at this
// level; interpreting the status code is the caller's concern.
func (c *Client) Do(ctx context.Context, spec Spec) (Response, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	start := time.Now()

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range spec.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// read body with size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}, nil
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
