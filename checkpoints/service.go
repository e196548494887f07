package checkpoints

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/rest"
	"github.com/anchorhq/anchor-go/wire"
)

// Service exposes the checkpoint namespace.
type Service struct {
	rest   *rest.Client
	logger zerolog.Logger
}

// NewService creates the checkpoints facade over an existing pipeline client.
func NewService(rc *rest.Client, logger zerolog.Logger) *Service {
	return &Service{rest: rc, logger: logger}
}

// Create snapshots the agent's current state. Description may be empty.
func (s *Service) Create(ctx context.Context, agentID, label, description string) (*Checkpoint, error) {
	body := map[string]any{"label": label}
	if description != "" {
		body["description"] = description
	}

	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	cp := checkpointFromJSON(out)
	s.logger.Debug().Str("agent_id", agentID).Str("checkpoint_id", cp.ID).Msg("Created checkpoint")
	return &cp, nil
}

// List returns the agent's checkpoints, newest first.
func (s *Service) List(ctx context.Context, agentID string) ([]Checkpoint, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID),
	})
	if err != nil {
		return nil, err
	}

	items := wire.List(out, "checkpoints")
	cps := make([]Checkpoint, 0, len(items))
	for _, item := range items {
		cps = append(cps, checkpointFromJSON(item))
	}
	return cps, nil
}

// Get fetches one checkpoint, or (nil, nil) when it does not exist.
func (s *Service) Get(ctx context.Context, agentID, checkpointID string) (*Checkpoint, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID) + "/" + url.PathEscape(checkpointID),
	})
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	cp := checkpointFromJSON(out)
	return &cp, nil
}

// Restore rolls the agent's state back to the checkpoint. The call blocks
// until the server finishes the restore.
func (s *Service) Restore(ctx context.Context, agentID, checkpointID string) (*RestoreResult, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID) + "/" + url.PathEscape(checkpointID) + "/restore",
	})
	if err != nil {
		return nil, err
	}

	result := restoreResultFromJSON(out)
	s.logger.Debug().
		Str("agent_id", agentID).
		Str("checkpoint_id", checkpointID).
		Int("keys_restored", result.DataKeysRestored).
		Msg("Restored checkpoint")
	return &result, nil
}

// Delete removes a checkpoint.
func (s *Service) Delete(ctx context.Context, agentID, checkpointID string) error {
	_, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   s.path(agentID) + "/" + url.PathEscape(checkpointID),
	})
	return err
}

func (s *Service) path(agentID string) string {
	return "/v1/agents/" + url.PathEscape(agentID) + "/checkpoints"
}
