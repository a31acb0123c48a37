// Package schema defines the input parameter contract for registered tools
// and validates raw argument objects against it, applying declared defaults.
package schema

import "slices"

// Type literals for parameter declarations.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

var validTypes = map[string]struct{}{
	TypeString:  {},
	TypeInteger: {},
	TypeFloat:   {},
	TypeBoolean: {},
	TypeArray:   {},
	TypeObject:  {},
}

// ParamSpec declares one named tool parameter.
type ParamSpec struct {
	Type        string     `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Description string     `json:"description,omitempty"`
	Default     any        `json:"default,omitempty"`
	Enum        []string   `json:"enum,omitempty"`
	Items       *ParamSpec `json:"items,omitempty"`
}

// Object is a parameter-name -> spec mapping describing a tool's full input.
type Object map[string]ParamSpec

// ParamNames returns declared parameter names in deterministic order.
func (o Object) ParamNames() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Severity classifies a validation diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one structured validation finding for a parameter.
type Diagnostic struct {
	Param    string   `json:"param,omitempty"`
	Code     string   `json:"code,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result aggregates diagnostics from one validation pass.
type Result struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// HasErrors reports whether any error-severity diagnostic exists.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func isValidType(name string) bool {
	_, ok := validTypes[name]
	return ok
}
