package data

import (
	"time"

	"github.com/anchorhq/anchor-go/wire"
)

// WriteResult is the server's verdict on one write. BlockedBy and Reason
// are only present when the write was denied.
type WriteResult struct {
	Key       string
	Allowed   bool
	AuditID   string
	BlockedBy *string
	Reason    *string
}

// DataEntry is one stored key-value pair with its annotations.
type DataEntry struct {
	Key       string
	Value     string
	Metadata  map[string]any
	CreatedAt *time.Time
	UpdatedAt *time.Time
	ExpiresAt *time.Time
}

// SearchResult is one semantic-search hit. Similarity is the server's
// score; the client does not recompute it.
type SearchResult struct {
	Key        string
	Value      string
	Similarity float64
}

func writeResultFromJSON(m map[string]any) WriteResult {
	return WriteResult{
		Key:       wire.String(m, "key"),
		Allowed:   wire.Bool(m, "allowed"),
		AuditID:   wire.String(m, "audit_id"),
		BlockedBy: wire.OptString(m, "blocked_by"),
		Reason:    wire.OptString(m, "reason"),
	}
}

func entryFromJSON(m map[string]any) DataEntry {
	return DataEntry{
		Key:       wire.String(m, "key"),
		Value:     wire.String(m, "value"),
		Metadata:  wire.Map(m, "metadata"),
		CreatedAt: wire.Time(m, "created_at"),
		UpdatedAt: wire.Time(m, "updated_at"),
		ExpiresAt: wire.Time(m, "expires_at"),
	}
}

func searchResultFromJSON(m map[string]any) SearchResult {
	return SearchResult{
		Key:        wire.String(m, "key"),
		Value:      wire.String(m, "value"),
		Similarity: wire.Float(m, "similarity"),
	}
}
