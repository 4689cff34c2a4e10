package refetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestJSONFetchFunc_DecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "title": "delectus aut autem"}`))
	}))
	defer server.Close()

	req, err := NewRequest(server.URL)
	require.NoError(t, err)

	fn := JSONFetchFunc[todo](req)
	got, err := fn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, todo{ID: 1, Title: "delectus aut autem"}, got)
}

func TestJSONFetchFunc_SendsHeaders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	req, err := NewRequest(server.URL, WithHeaders("Authorization", "Bearer token"))
	require.NoError(t, err)

	_, err = JSONFetchFunc[todo](req)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token", gotAuth)
}

func TestJSONFetchFunc_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("try later"))
	}))
	defer server.Close()

	req, err := NewRequest(server.URL)
	require.NoError(t, err)

	_, err = JSONFetchFunc[todo](req)(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, []byte("try later\n"), statusErr.Body)
}

func TestJSONFetchFunc_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	req, err := NewRequest(server.URL)
	require.NoError(t, err)

	_, err = JSONFetchFunc[todo](req)(context.Background())
	assert.Error(t, err)
}

func TestJSONFetchFunc_HonoursCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	req, err := NewRequest(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	fn := JSONFetchFunc[todo](req)

	done := make(chan error, 1)
	go func() {
		_, err := fn(ctx)
		done <- err
	}()

	cancel()
	err = <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "cancellation must surface as context.Canceled, got %v", err)
}

func TestBytesFetchFunc_ReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw payload"))
	}))
	defer server.Close()

	req, err := NewRequest(server.URL)
	require.NoError(t, err)

	body, err := BytesFetchFunc(req)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("raw payload"), body)
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Code: 404}
	assert.Equal(t, "unexpected status 404", err.Error())
}
