package refetch

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/refetchio/refetch/internal/fetch"
)

// JSONFetchFunc returns a [FetchFunc] that performs req and decodes the
// JSON response body into a value of type T.
//
// The returned function reuses one pooled HTTP client across invocations.
// It fails with a [*StatusError] when the response status is outside the
// 2xx range, a decode error when the body is not valid JSON for T, or an
// error wrapping [context.Canceled] when the request is superseded or the
// controller is stopped, which the controller swallows.
//
// Example:
//
//	type Todo struct {
//	    ID    int    `json:"id"`
//	    Title string `json:"title"`
//	}
//
//	req, _ := refetch.NewRequest("https://jsonplaceholder.typicode.com/todos/1")
//	c, err := refetch.New(refetch.JSONFetchFunc[Todo](req))
func JSONFetchFunc[T any](req Request) FetchFunc[T] {
	client := fetch.NewClient()
	spec := specFromRequest(req)

	return func(ctx context.Context) (T, error) {
		var zero T

		resp, err := client.Do(ctx, spec)
		if err != nil {
			return zero, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return zero, &StatusError{Code: resp.StatusCode, Body: resp.Body}
		}

		var value T
		if err := json.Unmarshal(resp.Body, &value); err != nil {
			return zero, fmt.Errorf("decode response: %w", err)
		}
		return value, nil
	}
}

// BytesFetchFunc returns a [FetchFunc] that performs req and yields the
// raw response body.
//
// Error behaviour matches [JSONFetchFunc], minus the decode step. Useful
// when the response is not JSON or the caller wants to defer parsing.
func BytesFetchFunc(req Request) FetchFunc[[]byte] {
	client := fetch.NewClient()
	spec := specFromRequest(req)

	return func(ctx context.Context) ([]byte, error) {
		resp, err := client.Do(ctx, spec)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Code: resp.StatusCode, Body: resp.Body}
		}
		return resp.Body, nil
	}
}

// specFromRequest converts the public request descriptor to the internal
// client's request spec.
func specFromRequest(req Request) fetch.Spec {
	return fetch.Spec{
		Method:  req.Method(),
		URL:     req.URL(),
		Headers: req.Headers(),
		Timeout: req.Timeout(),
	}
}
