package checkpoints

import (
	"time"

	"github.com/anchorhq/anchor-go/wire"
)

// Checkpoint is one stored snapshot of an agent's state.
type Checkpoint struct {
	ID          string
	AgentID     string
	Label       string
	Description string
	Snapshot    DataSnapshot
	CreatedAt   *time.Time
}

// DataSnapshot summarizes what a checkpoint captured. It is always present
// on a Checkpoint; a payload without one yields zero counts.
type DataSnapshot struct {
	DataCount     int
	ConfigVersion *string
}

// RestoreResult reports a completed rollback.
type RestoreResult struct {
	RestoredFrom     string
	DataKeysRestored int
	ConfigRestored   bool
	RestoredAt       *time.Time
}

func checkpointFromJSON(m map[string]any) Checkpoint {
	cp := Checkpoint{
		ID:          wire.String(m, "id"),
		AgentID:     wire.String(m, "agent_id"),
		Label:       wire.String(m, "label"),
		Description: wire.String(m, "description"),
		CreatedAt:   wire.Time(m, "created_at"),
	}
	if snap := wire.OptMap(m, "snapshot"); snap != nil {
		cp.Snapshot = snapshotFromJSON(snap)
	}
	return cp
}

func snapshotFromJSON(m map[string]any) DataSnapshot {
	return DataSnapshot{
		DataCount:     wire.Int(m, "data_count"),
		ConfigVersion: wire.OptString(m, "config_version"),
	}
}

func restoreResultFromJSON(m map[string]any) RestoreResult {
	return RestoreResult{
		RestoredFrom:     wire.String(m, "restored_from"),
		DataKeysRestored: wire.Int(m, "data_keys_restored"),
		ConfigRestored:   wire.Bool(m, "config_restored"),
		RestoredAt:       wire.Time(m, "restored_at"),
	}
}
