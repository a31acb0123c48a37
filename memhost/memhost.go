// Package memhost is an in-memory implementation of the host.Service
// contract. It models just enough of the editor (open-project set, active
// project, format/codec catalogs, geometry compilation) for tests, examples,
// and offline CLI runs against a fake editor.
package memhost

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/blockbridge-dev/blockbridge/host"
)

// Option configures an Editor.
type Option func(*Editor)

// WithoutCodecs removes codecs from the catalog, simulating an editor build
// that lacks optional capabilities (the legacy OptiFine codecs in practice).
func WithoutCodecs(ids ...string) Option {
	return func(e *Editor) {
		e.codecs = slices.DeleteFunc(e.codecs, func(c host.Codec) bool {
			return slices.Contains(ids, c.ID)
		})
	}
}

type project struct {
	host.Project
	model map[string]any
}

// Editor is an in-memory editor. It satisfies host.Service.
type Editor struct {
	mu       sync.Mutex
	formats  []host.Format
	codecs   []host.Codec
	projects []*project
	active   int // index into projects, -1 when none
}

// New creates an editor with the default format and codec catalogs and no
// open projects.
func New(opts ...Option) *Editor {
	e := &Editor{
		formats: defaultFormats(),
		codecs:  defaultCodecs(),
		active:  -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ActiveProject returns the active project, or false when none is open.
func (e *Editor) ActiveProject(ctx context.Context) (host.Project, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active < 0 {
		return host.Project{}, false, nil
	}
	return e.projects[e.active].Project, true, nil
}

// ListProjects returns open projects in open order.
func (e *Editor) ListProjects(ctx context.Context) ([]host.Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]host.Project, len(e.projects))
	for i, p := range e.projects {
		out[i] = p.Project
	}
	return out, nil
}

// ListFormats returns the format catalog.
func (e *Editor) ListFormats(ctx context.Context) ([]host.Format, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.formats), nil
}

// Format looks up a format by id.
func (e *Editor) Format(ctx context.Context, id string) (host.Format, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.formats {
		if f.ID == id {
			return f, true, nil
		}
	}
	return host.Format{}, false, nil
}

// ListCodecs returns the codec catalog.
func (e *Editor) ListCodecs(ctx context.Context) ([]host.Codec, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.codecs), nil
}

// Codec looks up a codec by id.
func (e *Editor) Codec(ctx context.Context, id string) (host.Codec, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.codecs {
		if c.ID == id {
			return c, true, nil
		}
	}
	return host.Codec{}, false, nil
}

// NewProject opens a fresh project of the given format and makes it active.
func (e *Editor) NewProject(ctx context.Context, name, formatID string) (host.Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasFormat(formatID) {
		return host.Project{}, fmt.Errorf("%w: %q", host.ErrUnknownFormat, formatID)
	}
	p := &project{Project: host.Project{
		UUID:     uuid.NewString(),
		Name:     name,
		FormatID: formatID,
		Saved:    true,
	}}
	e.projects = append(e.projects, p)
	e.active = len(e.projects) - 1
	return p.Project, nil
}

// SetActiveProject switches the active project by UUID.
func (e *Editor) SetActiveProject(ctx context.Context, id string) (host.Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, p := range e.projects {
		if p.UUID == id {
			e.active = i
			return p.Project, nil
		}
	}
	return host.Project{}, fmt.Errorf("%w: %q", host.ErrProjectNotFound, id)
}

// CloseProject closes an open project. When the active project is closed, the
// most recently opened remaining project becomes active.
func (e *Editor) CloseProject(ctx context.Context, id string, force bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, p := range e.projects {
		if p.UUID != id {
			continue
		}
		if !p.Saved && !force {
			return fmt.Errorf("%w: %q", host.ErrUnsavedChanges, p.Name)
		}
		e.projects = slices.Delete(e.projects, i, i+1)
		switch {
		case len(e.projects) == 0:
			e.active = -1
		case e.active >= len(e.projects):
			e.active = len(e.projects) - 1
		case e.active > i:
			e.active--
		}
		return nil
	}
	return fmt.Errorf("%w: %q", host.ErrProjectNotFound, id)
}

// LoadModel parses raw model data into the given project. The codec must be
// cataloged; parse failures leave the project empty but open.
func (e *Editor) LoadModel(ctx context.Context, projectUUID, codecID string, raw []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasCodec(codecID) {
		return &host.CapabilityUnavailableError{Capability: "codec " + codecID}
	}
	p := e.find(projectUUID)
	if p == nil {
		return fmt.Errorf("%w: %q", host.ErrProjectNotFound, projectUUID)
	}
	var model map[string]any
	if err := json.Unmarshal(raw, &model); err != nil {
		return fmt.Errorf("memhost: parse model: %w", err)
	}
	p.model = model
	p.Saved = false
	return nil
}

// CompileGeometry compiles the active project into a bedrock geometry value.
// The result is structured; serialization happens at the caller's boundary.
func (e *Editor) CompileGeometry(ctx context.Context, pretty bool) (host.GeometryOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active < 0 {
		return host.GeometryOutput{}, host.ErrNoActiveProject
	}
	p := e.projects[e.active]
	geo := map[string]any{
		"format_version": "1.21.0",
		"minecraft:geometry": []any{
			map[string]any{
				"description": map[string]any{
					"identifier":           "geometry." + p.Name,
					"texture_width":        16,
					"texture_height":       16,
					"visible_bounds_width": 2,
				},
				"bones": bonesFromModel(p.model),
			},
		},
	}
	return host.StructuredOutput(geo), nil
}

// ConvertActive converts the active project to another cataloged format.
func (e *Editor) ConvertActive(ctx context.Context, formatID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active < 0 {
		return host.ErrNoActiveProject
	}
	if !e.hasFormat(formatID) {
		return fmt.Errorf("%w: %q", host.ErrUnknownFormat, formatID)
	}
	p := e.projects[e.active]
	p.FormatID = formatID
	p.Saved = false
	return nil
}

func (e *Editor) find(id string) *project {
	for _, p := range e.projects {
		if p.UUID == id {
			return p
		}
	}
	return nil
}

func (e *Editor) hasFormat(id string) bool {
	for _, f := range e.formats {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (e *Editor) hasCodec(id string) bool {
	for _, c := range e.codecs {
		if c.ID == id {
			return true
		}
	}
	return false
}

func bonesFromModel(model map[string]any) []any {
	if model == nil {
		return []any{}
	}
	if bones, ok := model["bones"].([]any); ok {
		return bones
	}
	// Java block models carry elements instead of bones; wrap them in a
	// single root bone so the compiled geometry is never empty.
	if elements, ok := model["elements"].([]any); ok {
		return []any{map[string]any{"name": "root", "pivot": []any{0, 0, 0}, "cubes": elements}}
	}
	return []any{}
}
