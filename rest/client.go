package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client issues logical API calls against one Anchor server. It is safe for
// concurrent use; configuration is immutable after construction.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	retry      RetryPolicy
	httpClient *http.Client
	logger     zerolog.Logger
	telemetry  Telemetry

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a pipeline client for the given base URL.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("anchor base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: o.userAgent,
		timeout:   o.timeout,
		retry:     o.retry,
		logger:    logger,
		telemetry: o.telemetry,
		sleep:     sleep,
	}
	if o.httpClient != nil {
		c.httpClient = o.httpClient
	} else {
		// Per-attempt deadlines come from the request context, so the
		// underlying client carries no timeout of its own.
		c.httpClient = &http.Client{}
	}
	return c, nil
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string { return c.baseURL }

// Do executes one logical call: it retries retryable failures under the
// client's policy and returns the decoded response body on success, or the
// last classified error once the attempt budget is spent.
func (c *Client) Do(ctx context.Context, req Request) (map[string]any, error) {
	targetURL := c.buildURL(req)

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	started := time.Now()

	var lastErr *Error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.retry.Backoff(attempt - 1)
			c.logger.Debug().
				Str("request_id", requestID).
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Msg("Retrying request")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, c.finish(req, requestID, lastErr, attempt, started)
			}
		}

		env, err := c.send(ctx, req, targetURL, body, requestID)
		if err != nil {
			lastErr = transportError(err)
			c.logger.Debug().
				Str("request_id", requestID).
				Err(err).
				Bool("timeout", lastErr.Timeout).
				Msg("Transport attempt failed")
			continue
		}

		if env.OK() {
			c.record(req.Method, req.Path, env.StatusCode, attempt+1, time.Since(started))
			return env.JSON(), nil
		}

		lastErr = Classify(env.StatusCode, env.JSON())
		lastErr.Body = env.Body
		if !lastErr.Retryable() {
			return nil, c.finish(req, requestID, lastErr, attempt+1, started)
		}
	}

	return nil, c.finish(req, requestID, lastErr, c.retry.MaxAttempts, started)
}

// finish logs and reports the terminal error, then returns it.
func (c *Client) finish(req Request, requestID string, apiErr *Error, attempts int, started time.Time) *Error {
	if apiErr == nil {
		// Sleep interrupted before any attempt classified an error.
		apiErr = &Error{Kind: KindNetwork, Message: "request cancelled"}
	}
	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("attempts", attempts).
		Str("kind", apiErr.Kind.String()).
		Msg("Request failed")
	c.record(req.Method, req.Path, apiErr.StatusCode, attempts, time.Since(started))
	return apiErr
}

// send performs a single HTTP attempt bound to the per-attempt timeout.
func (c *Client) send(ctx context.Context, req Request, targetURL string, body []byte, requestID string) (Envelope, error) {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, targetURL, reader)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return Envelope{StatusCode: resp.StatusCode, Body: string(raw)}, nil
}

func (c *Client) buildURL(req Request) string {
	target := c.baseURL + req.Path
	if query := encodeQuery(req.Query); query != "" {
		target += "?" + query
	}
	return target
}

// transportError wraps a failure that never produced a status code.
func transportError(err error) *Error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	if !timeout {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			timeout = true
		}
	}
	return &Error{
		Kind:    KindNetwork,
		Message: err.Error(),
		Timeout: timeout,
		Err:     err,
	}
}
