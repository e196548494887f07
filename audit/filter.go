package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled expression evaluated client-side against fetched
// audit events. Compiled filters are safe for concurrent use.
//
// Expressions see the event fields (Operation, Resource, Result, Hash,
// PreviousHash, Metadata, Timestamp) plus string and date helpers:
//
//	Operation == "data.write" && Result == "allowed"
//	startsWith(Resource, "user:") && daysSince(Timestamp) < 7
type Filter struct {
	expression string
	program    *vm.Program
}

// CompileFilter compiles an event filter expression.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", expression, err)
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the original expression text.
func (f *Filter) Expression() string { return f.expression }

// Match evaluates the filter against one event.
func (f *Filter) Match(event AuditEvent) (bool, error) {
	result, err := expr.Run(f.program, eventEnvironment(event))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.expression, err)
	}
	return result.(bool), nil
}

// Apply returns the events matching the filter, preserving order.
func (f *Filter) Apply(events []AuditEvent) ([]AuditEvent, error) {
	matched := make([]AuditEvent, 0, len(events))
	for _, event := range events {
		ok, err := f.Match(event)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

func eventEnvironment(event AuditEvent) map[string]any {
	env := helperFunctions()
	env["ID"] = event.ID
	env["AgentID"] = event.AgentID
	env["Operation"] = event.Operation
	env["Resource"] = event.Resource
	env["Result"] = event.Result
	env["Hash"] = event.Hash
	env["Metadata"] = event.Metadata

	previousHash := ""
	if event.PreviousHash != nil {
		previousHash = *event.PreviousHash
	}
	env["PreviousHash"] = previousHash

	var ts time.Time
	if event.Timestamp != nil {
		ts = *event.Timestamp
	}
	env["Timestamp"] = ts

	return env
}

func helperFunctions() map[string]any {
	return map[string]any{
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"now": time.Now,
	}
}
