package refetch

import (
	"errors"
	"net/http"
	"time"
)

// requestConfig holds mutable state during request construction.
type requestConfig struct {
	method  string
	headers map[string]string
	timeout time.Duration
}

// RequestOption is a function that configures a [Request] during
// construction.
//
// RequestOption implements the functional options pattern, allowing
// optional configuration to be passed to [NewRequest] in a type-safe,
// extensible way. Options return an error if validation fails.
type RequestOption func(*requestConfig) error

// WithHeaders adds custom HTTP headers to every poll request.
//
// Use this for endpoints that require authentication or custom headers.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	req, err := refetch.NewRequest(url,
//	    refetch.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) RequestOption {
	return func(cfg *requestConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout sets the per-request deadline.
//
// If the endpoint does not respond within this duration, the cycle fails
// and the failure surfaces via the controller's Err. Defaults to 10
// seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) RequestOption {
	return func(cfg *requestConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithMethod sets the HTTP method for poll requests.
//
// Supported methods are GET, HEAD, and POST. Defaults to GET if not
// specified.
func WithMethod(method string) RequestOption {
	return func(cfg *requestConfig) error {
		switch method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
			cfg.method = method
			return nil
		default:
			return errors.New("method must be GET, HEAD, or POST")
		}
	}
}
