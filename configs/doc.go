// Package configs manages versioned agent configuration. Config documents
// are schema-less: the server stores whatever fields the caller sends and
// enforces only the "policies" section on data writes.
package configs
