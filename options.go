package anchor

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/rest"
)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL        string
	timeout        time.Duration
	retryAttempts  int
	retryBaseDelay time.Duration
	httpClient     *http.Client
	logger         zerolog.Logger
	telemetry      rest.Telemetry
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		baseURL:        DefaultBaseURL,
		timeout:        rest.DefaultTimeout,
		retryAttempts:  rest.DefaultRetryAttempts,
		retryBaseDelay: rest.DefaultRetryBaseDelay,
		logger:         zerolog.Nop(),
	}
}

// WithBaseURL points the client at a different server, e.g. a local
// development instance.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetryAttempts sets how many retries follow a failed attempt.
func WithRetryAttempts(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.retryAttempts = retries
		}
	}
}

// WithRetryBaseDelay sets the delay before the first retry; each later
// retry doubles it.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(o *clientOptions) {
		if delay > 0 {
			o.retryBaseDelay = delay
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTelemetry attaches an optional call recorder.
func WithTelemetry(t rest.Telemetry) Option {
	return func(o *clientOptions) {
		o.telemetry = t
	}
}
