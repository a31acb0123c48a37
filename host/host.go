// Package host defines the service contract for the external model editor.
// The editor owns all mutable project state (the open-project set, the active
// project, format and codec catalogs); this package only names the operations
// the tool layer calls on it. Implementations live elsewhere: memhost provides
// the in-memory reference editor used by tests and offline CLI runs.
package host

import "context"

// Project is an open editor project, referenced by opaque identifier.
type Project struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	FormatID string `json:"format_id"`
	Saved    bool   `json:"saved"`
	Path     string `json:"path,omitempty"`
}

// Format is a named capability profile the editor associates with a project.
type Format struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`

	// Capability flags, reported verbatim by get_current_format.
	SingleTexture   bool `json:"single_texture"`
	BoxUV           bool `json:"box_uv"`
	Rotation        bool `json:"rotation"`
	AnimationMode   bool `json:"animation_mode"`
	BoneRig         bool `json:"bone_rig"`
	CenteredGrid    bool `json:"centered_grid"`
	DisplayMode     bool `json:"display_mode"`
	TextureMeshes   bool `json:"texture_meshes"`
	MeshesSupported bool `json:"meshes"`
}

// Codec identifies an editor serializer for one on-disk file format.
type Codec struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// Service is the injected surface over the editor. All methods operate on
// editor-owned state; the tool layer never holds project state of its own.
//
// Mutating methods must leave the editor consistent before returning: a
// freshly created project becomes the active project, closing the active
// project promotes another open project (or none).
type Service interface {
	// ActiveProject returns the active project, or false when none is open.
	ActiveProject(ctx context.Context) (Project, bool, error)

	// ListProjects returns all open projects in stable (open) order.
	ListProjects(ctx context.Context) ([]Project, error)

	// ListFormats returns the format catalog.
	ListFormats(ctx context.Context) ([]Format, error)

	// Format looks up one format by id.
	Format(ctx context.Context, id string) (Format, bool, error)

	// ListCodecs returns the codecs this editor build exposes.
	ListCodecs(ctx context.Context) ([]Codec, error)

	// Codec looks up one codec by id. Legacy codecs (OptiFine entity/part)
	// may be absent depending on the editor build.
	Codec(ctx context.Context, id string) (Codec, bool, error)

	// NewProject opens a fresh, isolated project of the given format and
	// makes it active. ErrUnknownFormat when the format id is not cataloged.
	NewProject(ctx context.Context, name, formatID string) (Project, error)

	// SetActiveProject switches the active project by UUID.
	// ErrProjectNotFound when no open project has that UUID.
	SetActiveProject(ctx context.Context, uuid string) (Project, error)

	// CloseProject closes an open project. Unless force is set, closing a
	// project with unsaved changes fails with ErrUnsavedChanges.
	CloseProject(ctx context.Context, uuid string, force bool) error

	// LoadModel delegates parsing of raw model data into the given project
	// using the named codec.
	LoadModel(ctx context.Context, projectUUID, codecID string, raw []byte) error

	// CompileGeometry compiles the active project through the bedrock
	// geometry codec. The result shape depends on the editor build, so it is
	// normalized into a tagged GeometryOutput at this boundary.
	CompileGeometry(ctx context.Context, pretty bool) (GeometryOutput, error)

	// ConvertActive converts the active project to another format in place.
	ConvertActive(ctx context.Context, formatID string) error
}
