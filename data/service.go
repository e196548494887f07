package data

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/rest"
	"github.com/anchorhq/anchor-go/wire"
)

// Service exposes the governed data namespace.
type Service struct {
	rest   *rest.Client
	logger zerolog.Logger
}

// NewService creates the data facade over an existing pipeline client.
func NewService(rc *rest.Client, logger zerolog.Logger) *Service {
	return &Service{rest: rc, logger: logger}
}

// Write stores one value under key. Metadata may be nil. A policy-blocked
// write returns a *rest.Error with KindPolicyViolation, not a WriteResult.
func (s *Service) Write(ctx context.Context, agentID, key, value string, metadata map[string]any) (*WriteResult, error) {
	body := map[string]any{"key": key, "value": value}
	if metadata != nil {
		body["metadata"] = metadata
	}

	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	result := writeResultFromJSON(out)
	s.logger.Debug().
		Str("agent_id", agentID).
		Str("key", key).
		Bool("allowed", result.Allowed).
		Msg("Wrote data entry")
	return &result, nil
}

// WriteBatch stores several values in one call and returns one result per
// item, in the server's response order.
func (s *Service) WriteBatch(ctx context.Context, agentID string, items map[string]string) ([]WriteResult, error) {
	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID) + "/batch",
		Body:   map[string]any{"items": items},
	})
	if err != nil {
		return nil, err
	}

	raw := wire.List(out, "results")
	results := make([]WriteResult, 0, len(raw))
	for _, item := range raw {
		results = append(results, writeResultFromJSON(item))
	}
	return results, nil
}

// Read returns the stored value for key. The second return is false when
// the key does not exist.
func (s *Service) Read(ctx context.Context, agentID, key string) (string, bool, error) {
	entry, err := s.ReadFull(ctx, agentID, key)
	if err != nil || entry == nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// ReadFull returns the full entry with its annotations, or (nil, nil) when
// the key does not exist.
func (s *Service) ReadFull(ctx context.Context, agentID, key string) (*DataEntry, error) {
	req := rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID) + "/entry",
	}.WithParam("key", key)

	out, err := s.rest.Do(ctx, req)
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	entry := entryFromJSON(out)
	return &entry, nil
}

// List returns the agent's keys, optionally filtered by prefix. A limit of
// 0 means the server default.
func (s *Service) List(ctx context.Context, agentID, prefix string, limit int) ([]string, error) {
	req := rest.Request{
		Method: http.MethodGet,
		Path:   s.path(agentID),
	}
	if prefix != "" {
		req = req.WithParam("prefix", prefix)
	}
	if limit > 0 {
		req = req.WithParam("limit", limit)
	}

	out, err := s.rest.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return wire.Strings(out, "keys"), nil
}

// Search runs a semantic search over the agent's data.
func (s *Service) Search(ctx context.Context, agentID, query string, limit int) ([]SearchResult, error) {
	body := map[string]any{"query": query}
	if limit > 0 {
		body["limit"] = limit
	}

	out, err := s.rest.Do(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   s.path(agentID) + "/search",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	raw := wire.List(out, "results")
	results := make([]SearchResult, 0, len(raw))
	for _, item := range raw {
		results = append(results, searchResultFromJSON(item))
	}
	return results, nil
}

// Delete removes one key. Deleting a missing key is an error; use List to
// check first if that matters.
func (s *Service) Delete(ctx context.Context, agentID, key string) error {
	req := rest.Request{
		Method: http.MethodDelete,
		Path:   s.path(agentID),
	}.WithParam("key", key)

	_, err := s.rest.Do(ctx, req)
	return err
}

// DeletePrefix removes every key under prefix and returns how many were
// deleted.
func (s *Service) DeletePrefix(ctx context.Context, agentID, prefix string) (int, error) {
	req := rest.Request{
		Method: http.MethodDelete,
		Path:   s.path(agentID),
	}.WithParam("prefix", prefix)

	out, err := s.rest.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	return wire.Int(out, "deleted"), nil
}

func (s *Service) path(agentID string) string {
	return "/v1/agents/" + url.PathEscape(agentID) + "/data"
}
