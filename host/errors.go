package host

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveProject indicates an operation needs an active project and
	// none is open.
	ErrNoActiveProject = errors.New("host: no active project")
	// ErrProjectNotFound indicates a project UUID does not match any open
	// project.
	ErrProjectNotFound = errors.New("host: project not found")
	// ErrUnknownFormat indicates a format id is not in the catalog.
	ErrUnknownFormat = errors.New("host: unknown format")
	// ErrUnsavedChanges indicates a close was refused because the project has
	// unsaved changes and force was not set.
	ErrUnsavedChanges = errors.New("host: project has unsaved changes")
)

// CapabilityUnavailableError indicates a required editor capability (usually
// a legacy codec) is absent from this editor build. It is reported to the
// caller verbatim; there is no safe fallback and nothing is retried.
type CapabilityUnavailableError struct {
	Capability string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("host: capability %q is not available in this editor", e.Capability)
}
