package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), Spec{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("ok"), resp.Body)
	assert.Greater(t, resp.Latency, time.Duration(0))
}

func TestClient_DefaultsToGET(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Do(context.Background(), Spec{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestClient_SendsHeaders(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Custom")
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Do(context.Background(), Spec{
		URL:     server.URL,
		Headers: map[string]string{"X-Custom": "value"},
	})
	require.NoError(t, err)
	assert.Equal(t, "value", gotHeader)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Do(context.Background(), Spec{
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "expected deadline error, got %v", err)
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewClient()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := client.Do(ctx, Spec{URL: server.URL})
		done <- err
	}()

	cancel()
	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "expected cancellation error, got %v", err)
}

func TestClient_BodySizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBodySize+1024)))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), Spec{URL: server.URL})
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxResponseBodySize)
}

func TestClient_InvalidURL(t *testing.T) {
	client := NewClient()
	_, err := client.Do(context.Background(), Spec{URL: "http://\x7f"})
	assert.Error(t, err)
}

// TestClient_ConnectionReuse verifies that sequential requests to the same
// host reuse pooled connections.
func TestClient_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5
	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		_, err := client.Do(ctx, Spec{URL: server.URL, Timeout: 5 * time.Second})
		require.NoError(t, err, "request %d", i)
	}

	// allow some tolerance: everything after the first should reuse
	assert.GreaterOrEqual(t, reusedCount, numRequests-2)
}

func TestClient_Close(t *testing.T) {
	client := NewClient()

	// safe and idempotent, including on a nil receiver
	client.Close()
	client.Close()

	var nilClient *Client
	nilClient.Close()
}

func TestClient_UsableAfterClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.Do(context.Background(), Spec{URL: server.URL})
	require.NoError(t, err)

	client.Close()

	resp, err := client.Do(context.Background(), Spec{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
