package agents

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/rest"
	"github.com/anchorhq/anchor-go/wire"
)

// Service exposes the agent registry namespace.
type Service struct {
	rest   *rest.Client
	logger zerolog.Logger
}

// NewService creates the agents facade over an existing pipeline client.
func NewService(rc *rest.Client, logger zerolog.Logger) *Service {
	return &Service{rest: rc, logger: logger}
}

// ListOptions filters List. Zero values mean "no filter".
type ListOptions struct {
	Status string
	Limit  int
}

// Create registers a new agent. Metadata may be nil.
func (s *Service) Create(ctx context.Context, name string, metadata map[string]any) (*Agent, error) {
	body := map[string]any{"name": name}
	if metadata != nil {
		body["metadata"] = metadata
	}

	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "/v1/agents",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	agent := agentFromJSON(out)
	s.logger.Debug().Str("agent_id", agent.ID).Str("name", name).Msg("Created agent")
	return &agent, nil
}

// Get fetches one agent. It returns (nil, nil) when the agent does not
// exist; every other failure is returned as-is.
func (s *Service) Get(ctx context.Context, agentID string) (*Agent, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   "/v1/agents/" + url.PathEscape(agentID),
	})
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	agent := agentFromJSON(out)
	return &agent, nil
}

// List returns agents matching the given filters.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Agent, error) {
	req := rest.Request{
		Method: http.MethodGet,
		Path:   "/v1/agents",
	}
	if opts.Status != "" {
		req = req.WithParam("status", opts.Status)
	}
	if opts.Limit > 0 {
		req = req.WithParam("limit", opts.Limit)
	}

	out, err := s.rest.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	items := wire.List(out, "agents")
	agents := make([]Agent, 0, len(items))
	for _, item := range items {
		agents = append(agents, agentFromJSON(item))
	}
	return agents, nil
}

// Update replaces the agent's metadata.
func (s *Service) Update(ctx context.Context, agentID string, metadata map[string]any) (*Agent, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPatch,
		Path:   "/v1/agents/" + url.PathEscape(agentID),
		Body:   map[string]any{"metadata": metadata},
	})
	if err != nil {
		return nil, err
	}

	agent := agentFromJSON(out)
	return &agent, nil
}

// Suspend pauses the agent; writes are rejected until it is activated again.
func (s *Service) Suspend(ctx context.Context, agentID string) (*Agent, error) {
	return s.transition(ctx, agentID, "suspend")
}

// Activate resumes a suspended agent.
func (s *Service) Activate(ctx context.Context, agentID string) (*Agent, error) {
	return s.transition(ctx, agentID, "activate")
}

// Delete removes the agent and all data stored under it.
func (s *Service) Delete(ctx context.Context, agentID string) error {
	_, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "/v1/agents/" + url.PathEscape(agentID),
	})
	return err
}

func (s *Service) transition(ctx context.Context, agentID, action string) (*Agent, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "/v1/agents/" + url.PathEscape(agentID) + "/" + action,
	})
	if err != nil {
		return nil, err
	}

	agent := agentFromJSON(out)
	s.logger.Debug().Str("agent_id", agentID).Str("action", action).Msg("Agent lifecycle transition")
	return &agent, nil
}
