package rest

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one member of the closed API error taxonomy.
type ErrorKind int

const (
	// KindAPI covers non-2xx statuses with no more specific mapping.
	KindAPI ErrorKind = iota
	// KindValidation is a 400 without a policy indicator.
	KindValidation
	// KindAuthentication is a 401.
	KindAuthentication
	// KindAuthorization is a 403 without a policy indicator.
	KindAuthorization
	// KindNotFound is a 404.
	KindNotFound
	// KindPolicyViolation is any status whose body names a blocking policy.
	KindPolicyViolation
	// KindRateLimit is a 429.
	KindRateLimit
	// KindServer is any status >= 500.
	KindServer
	// KindNetwork is a transport failure or per-attempt timeout.
	KindNetwork
)

// String returns the kind's canonical name.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindPolicyViolation:
		return "policy_violation"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "api"
	}
}

// Error is the typed failure surfaced by the pipeline. Kind-specific fields
// are populated only for the kinds that define them.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Body       string

	// Field is the offending field for validation errors.
	Field string
	// Policy is the blocking policy name for policy violations.
	Policy string
	// RequiredPermission is set on authorization errors when the server
	// names the missing permission.
	RequiredPermission string
	// RetryAfter is the server's rate-limit hint in seconds.
	RetryAfter int

	// Timeout distinguishes a per-attempt deadline from a connect failure.
	Timeout bool
	// Err holds the underlying transport error for network failures.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		if e.Timeout {
			return fmt.Sprintf("anchor: request timed out: %s", e.Message)
		}
		return fmt.Sprintf("anchor: network error: %s", e.Message)
	case KindPolicyViolation:
		return fmt.Sprintf("anchor: blocked by policy %q: %s", e.Policy, e.Message)
	default:
		return fmt.Sprintf("anchor: %s error: status %d: %s", e.Kind, e.StatusCode, e.Message)
	}
}

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the retry controller may try again after this
// error: rate limits, server errors, and transport failures only.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServer, KindNetwork:
		return true
	default:
		return false
	}
}

// Classify maps one non-2xx response to its error kind. A policy-blocking
// indicator in the body wins over the status-code mapping.
func Classify(statusCode int, body map[string]any) *Error {
	e := &Error{
		StatusCode: statusCode,
		Message:    messageField(statusCode, body),
	}

	if policy := stringField(body, "blocked_by", "policy_name"); policy != "" {
		e.Kind = KindPolicyViolation
		e.Policy = policy
		return e
	}

	switch {
	case statusCode == 400:
		e.Kind = KindValidation
		e.Field = stringField(body, "field")
	case statusCode == 401:
		e.Kind = KindAuthentication
	case statusCode == 403:
		e.Kind = KindAuthorization
		e.RequiredPermission = stringField(body, "required_permission")
	case statusCode == 404:
		e.Kind = KindNotFound
	case statusCode == 429:
		e.Kind = KindRateLimit
		e.RetryAfter = intField(body, "retry_after")
	case statusCode >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindAPI
	}
	return e
}

func messageField(statusCode int, body map[string]any) string {
	if msg := stringField(body, "message", "error"); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

func stringField(body map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(body map[string]any, key string) int {
	switch v := body[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// AsError unwraps err into the pipeline's typed error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a not-found API error.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNotFound
}

// IsPolicyViolation reports whether err is a policy violation.
func IsPolicyViolation(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindPolicyViolation
}

// IsRateLimit reports whether err is a rate-limit error.
func IsRateLimit(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindRateLimit
}
