package rest

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds each individual attempt unless overridden.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	retry      RetryPolicy
	userAgent  string
	httpClient *http.Client
	telemetry  Telemetry
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:   DefaultTimeout,
		retry:     DefaultRetryPolicy(),
		userAgent: "anchor-go",
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetryAttempts sets how many retries follow the initial attempt.
func WithRetryAttempts(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.retry.MaxAttempts = retries + 1
		}
	}
}

// WithRetryBaseDelay sets the delay before the first retry.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(o *clientOptions) {
		if delay > 0 {
			o.retry.BaseDelay = delay
		}
	}
}

// WithUserAgent sets the client-identifying header value.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithTelemetry attaches an optional call recorder. A nil recorder leaves
// the pipeline's behavior unchanged.
func WithTelemetry(t Telemetry) Option {
	return func(o *clientOptions) {
		o.telemetry = t
	}
}
