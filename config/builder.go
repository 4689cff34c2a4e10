package config

import (
	"fmt"

	"github.com/refetchio/refetch"
)

// BuildRequest converts a validated [Config] into an SDK [refetch.Request].
//
// The config must come from [Load] or [Parse] so that defaults and
// environment expansion have already been applied.
func BuildRequest(cfg *Config) (refetch.Request, error) {
	opts := []refetch.RequestOption{}

	if cfg.Request.Method != "" {
		opts = append(opts, refetch.WithMethod(cfg.Request.Method))
	}
	if cfg.Request.Timeout != 0 {
		opts = append(opts, refetch.WithTimeout(cfg.Request.Timeout.Duration()))
	}
	for k, v := range cfg.Request.Headers {
		opts = append(opts, refetch.WithHeaders(k, v))
	}

	req, err := refetch.NewRequest(cfg.Request.URL, opts...)
	if err != nil {
		return refetch.Request{}, fmt.Errorf("request: %w", err)
	}
	return req, nil
}
