// Package registry maps tool names to schema-validated, asynchronously
// invokable handlers. It is the single dispatch point between an external
// agent and the editor: arguments are validated against the tool's declared
// schema (defaults applied), the handler runs against the injected host
// service, and all failures surface as one of the typed errors in this
// package. Invocations are strictly serialized; no two handlers interleave.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/blockbridge-dev/blockbridge/schema"
)

// Status tags the stability of a registered tool.
type Status string

const (
	StatusStable       Status = "stable"
	StatusExperimental Status = "experimental"
	StatusDeprecated   Status = "deprecated"
)

// Annotations is human-readable tool metadata surfaced to the agent.
type Annotations struct {
	Title       string `json:"title"`
	ReadOnly    bool   `json:"read_only,omitempty"`
	Destructive bool   `json:"destructive,omitempty"`
	OpenWorld   bool   `json:"open_world,omitempty"`
}

// Handler executes one tool invocation with validated arguments and returns
// a plain string result for the agent.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// ToolDescriptor is the registered record for a tool. Descriptors are created
// at startup and never mutated afterwards.
type ToolDescriptor struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	InputSchema schema.Object `json:"input_schema"`
	Annotations Annotations   `json:"annotations"`
	Status      Status        `json:"status"`
	Handler     Handler       `json:"-"`
}

// Observation is one completed invocation, reported to observers.
type Observation struct {
	ToolName string
	Success  bool
	ErrKind  string
	Duration time.Duration
}

// Observer receives invocation results for metrics/tracing/history sinks.
type Observer interface {
	ObserveInvoke(ctx context.Context, obs Observation)
}

// Registry is the process-wide tool table.
type Registry struct {
	mu        sync.Mutex
	tools     map[string]ToolDescriptor
	observers []Observer

	// invokeMu serializes handler execution; concurrent Invoke calls queue
	// here and run strictly one at a time.
	invokeMu sync.Mutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tools: make(map[string]ToolDescriptor)}
}

// AddObserver attaches an invocation observer. Observers run after the
// handler returns, in registration order.
func (r *Registry) AddObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, obs)
}

// Register adds a tool descriptor. It fails with DuplicateToolError when the
// name is taken and never partially mutates the table.
func (r *Registry) Register(desc ToolDescriptor) error {
	if desc.Name == "" {
		return fmt.Errorf("registry: tool name is required")
	}
	if desc.Handler == nil {
		return fmt.Errorf("registry: tool %q has no handler", desc.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[desc.Name]; exists {
		return &DuplicateToolError{Name: desc.Name}
	}
	if desc.Status == "" {
		desc.Status = StatusStable
	}
	r.tools[desc.Name] = desc
	return nil
}

// Get returns a descriptor by name.
func (r *Registry) Get(name string) (ToolDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc, ok := r.tools[name]
	return desc, ok
}

// List returns all descriptors sorted by name.
func (r *Registry) List() []ToolDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolDescriptor, 0, len(r.tools))
	for _, desc := range r.tools {
		out = append(out, desc)
	}
	slices.SortFunc(out, func(a, b ToolDescriptor) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Invoke validates rawArgs against the named tool's schema and runs its
// handler. The handler's string result is returned unchanged. Failures are
// always one of UnknownToolError, ValidationError, or ToolExecutionError;
// handler panics are recovered into the latter.
func (r *Registry) Invoke(ctx context.Context, name string, rawArgs map[string]any) (string, error) {
	r.mu.Lock()
	desc, ok := r.tools[name]
	r.mu.Unlock()
	if !ok {
		return "", &UnknownToolError{Name: name}
	}

	if rawArgs == nil {
		rawArgs = map[string]any{}
	}
	validated, result := schema.Validate(desc.InputSchema, rawArgs)
	if result.HasErrors() {
		return "", &ValidationError{ToolName: name, Diagnostics: result.Diagnostics}
	}

	r.invokeMu.Lock()
	defer r.invokeMu.Unlock()

	start := time.Now()
	out, err := r.runHandler(ctx, desc, validated)
	r.notify(ctx, Observation{
		ToolName: name,
		Success:  err == nil,
		ErrKind:  errKind(err),
		Duration: time.Since(start),
	})
	if err != nil {
		return "", &ToolExecutionError{ToolName: name, Cause: err}
	}
	return out, nil
}

func (r *Registry) runHandler(ctx context.Context, desc ToolDescriptor, args map[string]any) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return desc.Handler(ctx, args)
}

func (r *Registry) notify(ctx context.Context, obs Observation) {
	r.mu.Lock()
	observers := slices.Clone(r.observers)
	r.mu.Unlock()
	for _, o := range observers {
		o.ObserveInvoke(ctx, obs)
	}
}

func errKind(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T", err)
}
