// Package memory is a chat-memory adapter over the governed data
// namespace: one key per conversation turn, so every stored message passes
// through the agent's write policies and lands in the audit trail.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anchorhq/anchor-go/data"
)

// Message is one conversation turn.
type Message struct {
	Role    string
	Content string
	At      *time.Time
}

// Chat stores a session's conversation history for one agent. Keys are
// "session:<session>:msg:<nanos>-<uuid>" so lexicographic key order is
// chronological order.
type Chat struct {
	data      *data.Service
	agentID   string
	sessionID string
	logger    zerolog.Logger
}

// NewChat creates a chat memory bound to one agent and session.
func NewChat(svc *data.Service, agentID, sessionID string, logger zerolog.Logger) *Chat {
	return &Chat{data: svc, agentID: agentID, sessionID: sessionID, logger: logger}
}

// Append stores one message. The returned result carries the server's
// policy verdict; a blocked message surfaces as a policy violation error
// from the pipeline.
func (c *Chat) Append(ctx context.Context, role, content string) (*data.WriteResult, error) {
	key := fmt.Sprintf("%smsg:%020d-%s", c.prefix(), time.Now().UnixNano(), uuid.NewString()[:8])
	result, err := c.data.Write(ctx, c.agentID, key, content, map[string]any{"role": role})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("agent_id", c.agentID).
		Str("session_id", c.sessionID).
		Str("role", role).
		Bool("allowed", result.Allowed).
		Msg("Appended chat message")
	return result, nil
}

// History returns the session's messages in the order they were stored.
func (c *Chat) History(ctx context.Context) ([]Message, error) {
	keys, err := c.data.List(ctx, c.agentID, c.prefix(), 0)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	entries, err := c.data.ReadMany(ctx, c.agentID, keys)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(keys))
	for _, key := range keys {
		entry, ok := entries[key]
		if !ok {
			// Deleted between List and ReadMany.
			continue
		}
		role, _ := entry.Metadata["role"].(string)
		messages = append(messages, Message{
			Role:    role,
			Content: entry.Value,
			At:      entry.CreatedAt,
		})
	}
	return messages, nil
}

// Clear deletes the session's messages and returns how many were removed.
func (c *Chat) Clear(ctx context.Context) (int, error) {
	return c.data.DeletePrefix(ctx, c.agentID, c.prefix())
}

func (c *Chat) prefix() string {
	return "session:" + c.sessionID + ":"
}
