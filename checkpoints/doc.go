// Package checkpoints covers state snapshots and rollback. Snapshotting
// and restoration happen server-side; a restore blocks the call until the
// server answers.
package checkpoints
