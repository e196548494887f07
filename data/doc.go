// Package data is the governed key-value namespace. Every write is checked
// against the agent's policies server-side and audit-logged; the client
// only surfaces the verdict.
package data
