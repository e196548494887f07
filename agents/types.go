package agents

import (
	"time"

	"github.com/anchorhq/anchor-go/wire"
)

// Agent statuses reported by the registry.
const (
	StatusActive     = "active"
	StatusSuspended  = "suspended"
	StatusTerminated = "terminated"
)

// Agent is a registered agent. Optional pointer fields stay nil when the
// server never reported them.
type Agent struct {
	ID              string
	Name            string
	Status          string
	Metadata        map[string]any
	ConfigVersion   *string
	DataCount       int
	CheckpointCount int
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

// IsActive reports whether the agent can currently write data.
func (a Agent) IsActive() bool {
	return a.Status == StatusActive
}

func agentFromJSON(m map[string]any) Agent {
	return Agent{
		ID:              wire.String(m, "id"),
		Name:            wire.String(m, "name"),
		Status:          wire.StringDefault(m, "status", StatusActive),
		Metadata:        wire.Map(m, "metadata"),
		ConfigVersion:   wire.OptString(m, "config_version"),
		DataCount:       wire.Int(m, "data_count"),
		CheckpointCount: wire.Int(m, "checkpoint_count"),
		CreatedAt:       wire.Time(m, "created_at"),
		UpdatedAt:       wire.Time(m, "updated_at"),
	}
}
