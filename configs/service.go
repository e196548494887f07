package configs

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/rest"
	"github.com/anchorhq/anchor-go/wire"
)

// Service exposes the agent configuration namespace.
type Service struct {
	rest   *rest.Client
	logger zerolog.Logger
}

// NewService creates the configs facade over an existing pipeline client.
func NewService(rc *rest.Client, logger zerolog.Logger) *Service {
	return &Service{rest: rc, logger: logger}
}

// Update stores a new config document and returns the resulting version.
func (s *Service) Update(ctx context.Context, agentID string, config map[string]any) (*Config, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   s.path(agentID),
		Body:   map[string]any{"config": config},
	})
	if err != nil {
		return nil, err
	}

	cfg := configFromJSON(out)
	s.logger.Debug().Str("agent_id", agentID).Str("version", cfg.Version).Msg("Updated agent config")
	return &cfg, nil
}

// Get fetches the agent's current config. It returns (nil, nil) when the
// agent has no config yet.
func (s *Service) Get(ctx context.Context, agentID string) (*Config, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID),
	})
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg := configFromJSON(out)
	return &cfg, nil
}

// Versions lists the agent's config history, newest first.
func (s *Service) Versions(ctx context.Context, agentID string) ([]ConfigVersion, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID) + "/versions",
	})
	if err != nil {
		return nil, err
	}

	items := wire.List(out, "versions")
	versions := make([]ConfigVersion, 0, len(items))
	for _, item := range items {
		versions = append(versions, versionFromJSON(item))
	}
	return versions, nil
}

// Rollback makes a previous version current again and returns it.
func (s *Service) Rollback(ctx context.Context, agentID, version string) (*Config, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID) + "/rollback",
		Body:   map[string]any{"version": version},
	})
	if err != nil {
		return nil, err
	}

	cfg := configFromJSON(out)
	s.logger.Debug().Str("agent_id", agentID).Str("version", version).Msg("Rolled back agent config")
	return &cfg, nil
}

func (s *Service) path(agentID string) string {
	return "/v1/agents/" + url.PathEscape(agentID) + "/config"
}
