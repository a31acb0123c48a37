package registry

import (
	"fmt"
	"strings"

	"github.com/blockbridge-dev/blockbridge/schema"
)

// DuplicateToolError indicates a Register call reused an existing tool name.
// Registration is a startup-time programming error, not a runtime condition.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("registry: tool %q is already registered", e.Name)
}

// UnknownToolError indicates an Invoke call named a tool that was never
// registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("registry: unknown tool %q", e.Name)
}

// ValidationError carries the per-parameter diagnostics produced when raw
// arguments do not satisfy a tool's input schema.
type ValidationError struct {
	ToolName    string
	Diagnostics []schema.Diagnostic
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		if d.Severity == schema.SeverityError {
			msgs = append(msgs, d.Message)
		}
	}
	return fmt.Sprintf("registry: invalid arguments for %q: %s", e.ToolName, strings.Join(msgs, "; "))
}

// ToolExecutionError wraps any failure raised by a tool handler. Handler
// errors never propagate raw to the caller.
type ToolExecutionError struct {
	ToolName string
	Cause    error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("registry: tool %q failed: %v", e.ToolName, e.Cause)
}

// Unwrap exposes the handler failure for errors.Is/errors.As.
func (e *ToolExecutionError) Unwrap() error {
	return e.Cause
}
