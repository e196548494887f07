// Package wire decodes the loosely-shaped JSON maps returned by the Anchor
// API into Go values. The loose map form stops at the normalizer boundary:
// entity packages use these helpers to build their typed structs and never
// expose map[string]any to callers.
package wire

import "time"

// Timestamp layouts accepted from the server, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// String returns the named field, or "" when absent or not a string.
func String(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// StringDefault returns the named field, or def when absent.
func StringDefault(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

// OptString returns a pointer to the named field, or nil when the field is
// missing. Absence is preserved so callers can tell "never set" from "".
func OptString(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

// Int returns the named numeric field as an int, defaulting to 0.
func Int(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Float returns the named numeric field, defaulting to 0.
func Float(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the named field, defaulting to false.
func Bool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Map returns the named object field, defaulting to an empty map so
// metadata-style fields are never nil.
func Map(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok && v != nil {
		return v
	}
	return map[string]any{}
}

// OptMap returns the named object field, or nil when absent.
func OptMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// List returns the named array field as a slice of objects. Missing fields
// and non-object elements yield an empty slice, never nil.
func List(m map[string]any, key string) []map[string]any {
	out := []map[string]any{}
	raw, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Strings returns the named array field as a string slice, skipping
// non-string elements. Missing fields yield an empty slice.
func Strings(m map[string]any, key string) []string {
	out := []string{}
	raw, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Time parses the named ISO-8601 field. Absent or unparseable values
// return nil; a raw string never leaks through.
func Time(m map[string]any, key string) *time.Time {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
