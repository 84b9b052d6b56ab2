package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"value":"42"}`))
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewJSONClient(srv.URL+"/", time.Second, zap.NewNop(), WithHeader("X-Api-Key", "secret"))
	assert.Equal(t, srv.URL, c.BaseURL())

	var out struct {
		Value string `json:"value"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/ok", &out))
	assert.Equal(t, "42", out.Value)

	err := c.GetJSON(context.Background(), "/missing", &out)
	assert.ErrorIs(t, err, ErrNotFound)

	err = c.GetJSON(context.Background(), "/broken", &out)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Body)
}

func TestJSONClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewJSONClient(srv.URL, 50*time.Millisecond, zap.NewNop())
	_, err := c.Get(context.Background(), "/slow")
	assert.Error(t, err)
}

func TestJSONClient_RateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewJSONClient(srv.URL, time.Second, zap.NewNop(), WithRateLimit(1, 1))
	_, err := c.Get(context.Background(), "/")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, "/")
	assert.Error(t, err, "second call must wait for a token longer than the context allows")
	assert.Equal(t, int32(1), calls.Load())
}
