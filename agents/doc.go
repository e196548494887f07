// Package agents covers the agent registry: creation, lookup, lifecycle
// transitions, and metadata updates.
package agents
