// Package anchor is a Go client for the Anchor state-governance API. It
// exposes five namespaces — agent registry, versioned config, governed
// key-value data, checkpoints, and the hash-chained audit trail — over a
// shared retrying HTTP pipeline.
package anchor

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/agents"
	"github.com/anchorhq/anchor-go/audit"
	"github.com/anchorhq/anchor-go/checkpoints"
	"github.com/anchorhq/anchor-go/config"
	"github.com/anchorhq/anchor-go/configs"
	"github.com/anchorhq/anchor-go/data"
	"github.com/anchorhq/anchor-go/rest"
)

// Version is the SDK release, sent in the User-Agent header.
const Version = "0.3.0"

// DefaultBaseURL is the hosted Anchor API.
const DefaultBaseURL = "https://api.anchor.dev"

// EnvAPIKey is read when no API key is passed to New.
const EnvAPIKey = "ANCHOR_API_KEY"

// Client is an Anchor API client. All namespaces share one request
// pipeline and one immutable configuration; a Client is safe for
// concurrent use.
type Client struct {
	Agents      *agents.Service
	Config      *configs.Service
	Data        *data.Service
	Checkpoints *checkpoints.Service
	Audit       *audit.Service

	rest   *rest.Client
	logger zerolog.Logger
}

// New creates a client. An empty apiKey falls back to the ANCHOR_API_KEY
// environment variable.
func New(apiKey string, opts ...Option) (*Client, error) {
	o := defaultClientOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anchor API key is required (pass one or set %s)", EnvAPIKey)
	}

	restOpts := []rest.Option{
		rest.WithUserAgent("anchor-go/" + Version),
		rest.WithTimeout(o.timeout),
		rest.WithRetryAttempts(o.retryAttempts),
		rest.WithRetryBaseDelay(o.retryBaseDelay),
	}
	if o.httpClient != nil {
		restOpts = append(restOpts, rest.WithHTTPClient(o.httpClient))
	}
	if o.telemetry != nil {
		restOpts = append(restOpts, rest.WithTelemetry(o.telemetry))
	}

	rc, err := rest.NewClient(o.baseURL, apiKey, o.logger, restOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		Agents:      agents.NewService(rc, o.logger),
		Config:      configs.NewService(rc, o.logger),
		Data:        data.NewService(rc, o.logger),
		Checkpoints: checkpoints.NewService(rc, o.logger),
		Audit:       audit.NewService(rc, o.logger),
		rest:        rc,
		logger:      o.logger,
	}, nil
}

// NewFromSettings creates a client from loaded settings. Explicit options
// still apply on top.
func NewFromSettings(settings *config.Settings, opts ...Option) (*Client, error) {
	fromSettings := []Option{
		WithBaseURL(settings.BaseURL),
		WithTimeout(settings.Timeout),
		WithRetryAttempts(settings.RetryAttempts),
		WithRetryBaseDelay(settings.RetryBaseDelay),
	}
	return New(settings.APIKey, append(fromSettings, opts...)...)
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string { return c.rest.BaseURL() }
