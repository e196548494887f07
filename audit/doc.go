// Package audit reads the hash-chained audit trail: querying events,
// server-side chain verification, and compliance exports. Hash values are
// opaque to the client; chain construction and verification are server
// responsibilities.
package audit
