package audit

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/rest"
	"github.com/anchorhq/anchor-go/wire"
)

// Service exposes the audit trail namespace.
type Service struct {
	rest   *rest.Client
	logger zerolog.Logger
}

// NewService creates the audit facade over an existing pipeline client.
func NewService(rc *rest.Client, logger zerolog.Logger) *Service {
	return &Service{rest: rc, logger: logger}
}

// QueryOptions filters Query. Zero values mean "no filter".
type QueryOptions struct {
	Operations []string
	Result     string
	Limit      int
	Since      time.Time
	Until      time.Time
}

// ExportOptions configures Export.
type ExportOptions struct {
	Format              string
	IncludeVerification bool
}

// Query returns audit events for the agent, newest first.
func (s *Service) Query(ctx context.Context, agentID string, opts QueryOptions) ([]AuditEvent, error) {
	req := rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID),
	}
	if len(opts.Operations) > 0 {
		req = req.WithParam("operations", strings.Join(opts.Operations, ","))
	}
	if opts.Result != "" {
		req = req.WithParam("result", opts.Result)
	}
	if opts.Limit > 0 {
		req = req.WithParam("limit", opts.Limit)
	}
	if !opts.Since.IsZero() {
		req = req.WithParam("since", opts.Since)
	}
	if !opts.Until.IsZero() {
		req = req.WithParam("until", opts.Until)
	}

	out, err := s.rest.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	items := wire.List(out, "events")
	events := make([]AuditEvent, 0, len(items))
	for _, item := range items {
		events = append(events, eventFromJSON(item))
	}
	return events, nil
}

// Verify asks the server to walk the agent's hash chain.
func (s *Service) Verify(ctx context.Context, agentID string) (*Verification, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID) + "/verify",
	})
	if err != nil {
		return nil, err
	}

	v := verificationFromJSON(out)
	s.logger.Debug().
		Str("agent_id", agentID).
		Bool("valid", v.Valid).
		Int("events_checked", v.EventsChecked).
		Msg("Verified audit chain")
	return &v, nil
}

// Export prepares a compliance export and returns where to download it.
// Format defaults to "json" server-side.
func (s *Service) Export(ctx context.Context, agentID string, opts ExportOptions) (*ExportResult, error) {
	body := map[string]any{
		"include_verification": opts.IncludeVerification,
	}
	if opts.Format != "" {
		body["format"] = opts.Format
	}

	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID) + "/export",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	result := exportResultFromJSON(out)
	return &result, nil
}

func (s *Service) path(agentID string) string {
	return "/v1/agents/" + url.PathEscape(agentID) + "/audit"
}
