package refetch

import (
	"errors"
	"net/url"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// Request describes an HTTP request for the built-in fetch functions.
//
// Request is immutable after creation via [NewRequest]. All fields are
// private with getter methods that return copies of mutable data (maps),
// ensuring the request cannot be modified after construction.
//
// Requests are configured using the functional options pattern with
// [RequestOption] functions such as [WithHeaders], [WithTimeout], and
// [WithMethod].
type Request struct {
	url     string
	method  string
	headers map[string]string
	timeout time.Duration
}

// URL returns the request's target URL as a string.
func (r Request) URL() string {
	return r.url
}

// Method returns the HTTP method for the request.
// Returns empty string if not explicitly set, which means GET will be used.
func (r Request) Method() string {
	return r.method
}

// Headers returns a copy of the request's custom HTTP headers.
// Returns nil if no headers are set.
func (r Request) Headers() map[string]string {
	return copyMap(r.headers)
}

// Timeout returns the per-request deadline.
// Defaults to 10 seconds if not explicitly set via [WithTimeout].
func (r Request) Timeout() time.Duration {
	return r.timeout
}

// NewRequest creates a [Request] for the given URL and options.
//
// The rawURL parameter must be a valid URL with an http:// or https://
// scheme. Options are applied in order using the functional options
// pattern. See [WithHeaders], [WithTimeout], and [WithMethod].
//
// Example:
//
//	req, err := refetch.NewRequest("https://api.example.com/todos/1",
//	    refetch.WithHeaders("Authorization", "Bearer token"),
//	    refetch.WithTimeout(5*time.Second),
//	)
//
// Returns an error if the URL is invalid or any option fails validation.
func NewRequest(rawURL string, opts ...RequestOption) (Request, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Request{}, errors.New("invalid URL: " + err.Error())
	}
	if parsed.Scheme == "" {
		return Request{}, errors.New("URL must have a scheme (http:// or https://)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Request{}, errors.New("URL scheme must be http or https")
	}

	cfg := &requestConfig{
		headers: make(map[string]string),
		timeout: defaultRequestTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Request{}, err
		}
	}

	return Request{
		url:     rawURL,
		method:  cfg.method,
		headers: cfg.headers,
		timeout: cfg.timeout,
	}, nil
}

// copyMap returns a shallow copy of the map.
func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
