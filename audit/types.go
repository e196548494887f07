package audit

import (
	"time"

	"github.com/anchorhq/anchor-go/wire"
)

// AuditEvent is one entry in an agent's audit trail. PreviousHash is nil
// only for the first event of a chain.
type AuditEvent struct {
	ID           string
	AgentID      string
	Operation    string
	Resource     string
	Result       string
	Hash         string
	PreviousHash *string
	Metadata     map[string]any
	Timestamp    *time.Time
}

// Verification is the server's verdict on chain integrity.
type Verification struct {
	Valid          bool
	EventsChecked  int
	FirstInvalidID *string
}

// ExportResult describes a prepared compliance export.
type ExportResult struct {
	DownloadURL  string
	Format       string
	EventCount   int
	ExpiresAt    *time.Time
	Verification *Verification
}

func eventFromJSON(m map[string]any) AuditEvent {
	return AuditEvent{
		ID:           wire.String(m, "id"),
		AgentID:      wire.String(m, "agent_id"),
		Operation:    wire.String(m, "operation"),
		Resource:     wire.String(m, "resource"),
		Result:       wire.String(m, "result"),
		Hash:         wire.String(m, "hash"),
		PreviousHash: wire.OptString(m, "previous_hash"),
		Metadata:     wire.Map(m, "metadata"),
		Timestamp:    wire.Time(m, "timestamp"),
	}
}

func verificationFromJSON(m map[string]any) Verification {
	return Verification{
		Valid:          wire.Bool(m, "valid"),
		EventsChecked:  wire.Int(m, "events_checked"),
		FirstInvalidID: wire.OptString(m, "first_invalid_id"),
	}
}

func exportResultFromJSON(m map[string]any) ExportResult {
	result := ExportResult{
		DownloadURL: wire.String(m, "download_url"),
		Format:      wire.String(m, "format"),
		EventCount:  wire.Int(m, "event_count"),
		ExpiresAt:   wire.Time(m, "expires_at"),
	}
	if v := wire.OptMap(m, "verification"); v != nil {
		verification := verificationFromJSON(v)
		result.Verification = &verification
	}
	return result
}
