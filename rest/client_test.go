package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(baseURL, "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	// Backoff is not the subject of most tests; skip the waiting but keep
	// the schedule observable.
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		_, err := NewClient("", "key", zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base URL is required")
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c, err := NewClient("http://localhost:5050/", "key", zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5050", c.BaseURL())
	})
}

func TestDoHeaders(t *testing.T) {
	var captured http.Header
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		method = r.Method
		path = r.URL.Path
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, WithUserAgent("anchor-go/9.9.9"))

	t.Run("bodyless GET", func(t *testing.T) {
		out, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/agents/a1"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ok": true}, out)
		assert.Equal(t, http.MethodGet, method)
		assert.Equal(t, "/v1/agents/a1", path)
		assert.Equal(t, "anchor-go/9.9.9", captured.Get("User-Agent"))
		assert.Equal(t, "test-key", captured.Get("X-Api-Key"))
		assert.NotEmpty(t, captured.Get("X-Request-ID"))
		assert.Empty(t, captured.Get("Content-Type"))
	})

	t.Run("POST with body", func(t *testing.T) {
		_, err := c.Do(context.Background(), Request{
			Method: http.MethodPost,
			Path:   "/v1/agents",
			Body:   map[string]any{"name": "support-bot"},
		})
		require.NoError(t, err)
		assert.Equal(t, "application/json", captured.Get("Content-Type"))
	})

	t.Run("no auth header without key", func(t *testing.T) {
		anon, err := NewClient(server.URL, "", zerolog.Nop())
		require.NoError(t, err)
		_, err = anon.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/agents"})
		require.NoError(t, err)
		_, ok := captured["X-Api-Key"]
		assert.False(t, ok)
	})
}

func TestDoStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{400, KindValidation},
		{401, KindAuthentication},
		{403, KindAuthorization},
		{404, KindNotFound},
		{429, KindRateLimit},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			}))
			defer server.Close()

			c := newTestClient(t, server.URL)
			_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/x"})
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestDoRetriesRateLimitThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"message":"slow down","retry_after":1}`)
			return
		}
		fmt.Fprint(w, `{"value":"ok"}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	out, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out["value"])
	assert.Equal(t, int32(2), attempts.Load())
}

func TestDoNoRetryOnValidation(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"name is required","field":"name"}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v1/agents", Body: map[string]any{}})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, "name", apiErr.Field)
}

func TestDoPolicyViolationOverridesStatus(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"write blocked","blocked_by":"pii_filter"}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/v1/x", Body: map[string]any{}})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindPolicyViolation, apiErr.Kind)
	assert.Equal(t, "pii_filter", apiErr.Policy)
	assert.True(t, IsPolicyViolation(err))
}

// failingTransport counts attempts and always fails at the transport level.
type failingTransport struct {
	attempts atomic.Int32
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.attempts.Add(1)
	return nil, errors.New("connection refused")
}

func TestDoNetworkErrorExhaustsAttempts(t *testing.T) {
	transport := &failingTransport{}
	c := newTestClient(t, "http://localhost:5050",
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRetryAttempts(3),
	)

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/x"})
	require.Error(t, err)
	assert.Equal(t, int32(4), transport.attempts.Load())

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.False(t, apiErr.Timeout)
	assert.Contains(t, apiErr.Error(), "network error")
}

func TestDoBackoffSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL,
		WithRetryAttempts(3),
		WithRetryBaseDelay(100*time.Millisecond),
	)
	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/x"})
	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}, delays)
}

func TestDoPerAttemptTimeout(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, WithRetryAttempts(1), WithTimeout(20*time.Millisecond))
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/slow"})
	require.Error(t, err)
	assert.Equal(t, int32(2), attempts.Load())

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.True(t, apiErr.Timeout)
	assert.Contains(t, apiErr.Error(), "timed out")
}

func TestDoEmptyBodySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	out, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/v1/x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestDoQueryParams(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	req := Request{Method: http.MethodGet, Path: "/v1/agents"}.
		WithParam("status", "active").
		WithParam("cursor", nil).
		WithParam("limit", 0).
		WithParam("archived", false)

	_, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "status=active&limit=0&archived=false", rawQuery)
}

func TestDoUndecodableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "<html>Bad Gateway</html>")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, WithRetryAttempts(0))
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/x"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, "<html>Bad Gateway</html>", apiErr.Message)
}

type recordingTelemetry struct {
	calls chan string
}

func (r *recordingTelemetry) RecordCall(method, path string, statusCode, attempts int, elapsed time.Duration) {
	r.calls <- fmt.Sprintf("%s %s %d attempts=%d", method, path, statusCode, attempts)
}

func TestDoTelemetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "a1"})
	}))
	defer server.Close()

	rec := &recordingTelemetry{calls: make(chan string, 1)}
	c := newTestClient(t, server.URL, WithTelemetry(rec))

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/agents/a1"})
	require.NoError(t, err)

	select {
	case call := <-rec.calls:
		assert.Equal(t, "GET /v1/agents/a1 200 attempts=1", call)
	case <-time.After(time.Second):
		t.Fatal("telemetry was never recorded")
	}
}
