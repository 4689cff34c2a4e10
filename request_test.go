package refetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_Valid(t *testing.T) {
	req, err := NewRequest("https://example.com/health")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/health", req.URL())
	assert.Empty(t, req.Method())
	assert.Equal(t, defaultRequestTimeout, req.Timeout())
}

func TestNewRequest_RejectsMissingScheme(t *testing.T) {
	_, err := NewRequest("example.com/health")
	assert.Error(t, err)
}

func TestNewRequest_RejectsNonHTTPScheme(t *testing.T) {
	_, err := NewRequest("ftp://example.com/file")
	assert.Error(t, err)
}

func TestNewRequest_Options(t *testing.T) {
	req, err := NewRequest("https://example.com",
		WithMethod("HEAD"),
		WithTimeout(5*time.Second),
		WithHeaders("Authorization", "Bearer x", "Accept", "application/json"),
	)
	require.NoError(t, err)
	assert.Equal(t, "HEAD", req.Method())
	assert.Equal(t, 5*time.Second, req.Timeout())
	assert.Equal(t, map[string]string{
		"Authorization": "Bearer x",
		"Accept":        "application/json",
	}, req.Headers())
}

func TestWithHeaders_OddArguments(t *testing.T) {
	_, err := NewRequest("https://example.com", WithHeaders("only-a-key"))
	assert.Error(t, err)
}

func TestWithTimeout_RejectsNonPositive(t *testing.T) {
	_, err := NewRequest("https://example.com", WithTimeout(0))
	assert.Error(t, err)
}

func TestWithMethod_RejectsUnsupported(t *testing.T) {
	_, err := NewRequest("https://example.com", WithMethod("DELETE"))
	assert.Error(t, err)
}

func TestRequest_HeadersCopied(t *testing.T) {
	req, err := NewRequest("https://example.com", WithHeaders("X-A", "1"))
	require.NoError(t, err)

	h := req.Headers()
	h["X-A"] = "mutated"
	assert.Equal(t, "1", req.Headers()["X-A"], "Headers must return a copy")
}
