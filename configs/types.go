package configs

import (
	"time"

	"github.com/anchorhq/anchor-go/wire"
)

// Config is one stored configuration document for an agent.
type Config struct {
	AgentID   string
	Version   string
	Config    map[string]any
	CreatedAt *time.Time
	CreatedBy *string
}

// Policies returns the governance section of the document, or an empty map
// when none was set.
func (c Config) Policies() map[string]any {
	if p, ok := c.Config["policies"].(map[string]any); ok && p != nil {
		return p
	}
	return map[string]any{}
}

// ConfigVersion is one entry in an agent's config history.
type ConfigVersion struct {
	Version   string
	Current   bool
	CreatedAt *time.Time
	CreatedBy *string
}

func configFromJSON(m map[string]any) Config {
	return Config{
		AgentID:   wire.String(m, "agent_id"),
		Version:   wire.String(m, "version"),
		Config:    wire.Map(m, "config"),
		CreatedAt: wire.Time(m, "created_at"),
		CreatedBy: wire.OptString(m, "created_by"),
	}
}

func versionFromJSON(m map[string]any) ConfigVersion {
	return ConfigVersion{
		Version:   wire.String(m, "version"),
		Current:   wire.Bool(m, "current"),
		CreatedAt: wire.Time(m, "created_at"),
		CreatedBy: wire.OptString(m, "created_by"),
	}
}
