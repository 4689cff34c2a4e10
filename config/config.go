// Package config provides YAML configuration parsing for refetch.
//
// This package enables running refetch as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	interval: 5s
//	immediate: true
//
//	request:
//	  url: https://jsonplaceholder.typicode.com/todos/1
//	  timeout: 5s
//	  headers:
//	    Authorization: Bearer ${API_TOKEN}
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// minInterval is the minimum allowed polling interval for file-based
// configs. This prevents accidental DoS of endpoints with overly
// aggressive polling.
const minInterval = 1 * time.Second

// Config is the root configuration structure for refetch.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Interval is the time between automatic fetch cycles.
	// Accepts duration strings like "10s", "1m", "500ms".
	// Defaults to 5s.
	Interval Duration `yaml:"interval"`

	// Immediate controls whether a fetch fires as soon as the controller
	// starts, before the first interval elapses. Defaults to true.
	Immediate *bool `yaml:"immediate"`

	// Request describes the HTTP request to poll.
	Request RequestConfig `yaml:"request"`
}

// RunImmediately reports the effective immediate setting, applying the
// default when the field is absent from the file.
func (c *Config) RunImmediately() bool {
	if c.Immediate == nil {
		return true
	}
	return *c.Immediate
}

// RequestConfig defines the HTTP request to poll.
type RequestConfig struct {
	// URL is the target URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Method is the HTTP method (GET, HEAD, POST). Defaults to GET.
	Method string `yaml:"method"`

	// Timeout is the per-request deadline. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the request URL and header values.
// Interval defaults to 5s when absent.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Interval == 0 {
		cfg.Interval = Duration(5 * time.Second)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Interval.Duration() < minInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minInterval, c.Interval.Duration())
	}

	r := &c.Request

	if r.URL == "" {
		return fmt.Errorf("request: url is required")
	}
	expanded, err := expandEnvVars(r.URL)
	if err != nil {
		return fmt.Errorf("request: url: %w", err)
	}
	r.URL = expanded

	parsedURL, err := url.Parse(r.URL)
	if err != nil {
		return fmt.Errorf("request: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("request: url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("request: url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	for k, v := range r.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("request: headers[%s]: %w", k, err)
		}
		r.Headers[k] = expanded
	}

	if r.Method != "" && r.Method != "GET" && r.Method != "HEAD" && r.Method != "POST" {
		return fmt.Errorf("request: method must be GET, HEAD, or POST")
	}

	if r.Timeout != 0 && r.Timeout.Duration() <= 0 {
		return fmt.Errorf("request: timeout must be positive, got %s", r.Timeout.Duration())
	}

	return nil
}
