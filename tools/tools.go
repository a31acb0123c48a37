// Package tools declares the agent-callable tool set over an editor host:
// geometry compilation and export, format introspection and conversion, and
// project lifecycle (create, open, batch open, switch, close). Each tool is a
// shallow adapter: validated arguments in, host calls, plain string out.
package tools

import (
	"context"
	"fmt"

	"github.com/blockbridge-dev/blockbridge/host"
	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/resolve"
)

// DefaultExtensions is the extension set open_projects_from_folder scans for
// when the caller does not narrow it.
var DefaultExtensions = []string{".bbmodel", ".json", ".geo.json", ".mcmodel", ".jem", ".jpm"}

// Service binds tool handlers to one editor host.
type Service struct {
	host host.Service
}

// NewService creates the tool service for an editor host.
func NewService(h host.Service) *Service {
	return &Service{host: h}
}

// RegisterAll registers every blockbridge tool on the registry. The host is
// queried once for its format catalog to build the create_project enum.
func (s *Service) RegisterAll(ctx context.Context, reg *registry.Registry) error {
	formats, err := s.host.ListFormats(ctx)
	if err != nil {
		return fmt.Errorf("tools: list formats: %w", err)
	}
	formatIDs := make([]string, 0, len(formats))
	for _, f := range formats {
		formatIDs = append(formatIDs, f.ID)
	}

	descriptors := []registry.ToolDescriptor{
		s.toGeoJSON(),
		s.exportGeoJSON(),
		s.convertFormat(),
		s.listFormats(),
		s.getCurrentFormat(),
		s.createProject(formatIDs),
		s.openProject(),
		s.openProjectsFromFolder(),
		s.listOpenProjects(),
		s.switchProject(),
		s.closeProject(),
	}
	for _, desc := range descriptors {
		if err := reg.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

// newResolver builds a format resolver over the codecs this editor exposes.
func (s *Service) newResolver(ctx context.Context) (*resolve.Resolver, error) {
	codecs, err := s.host.ListCodecs(ctx)
	if err != nil {
		return nil, fmt.Errorf("tools: list codecs: %w", err)
	}
	ids := make([]string, 0, len(codecs))
	for _, c := range codecs {
		ids = append(ids, c.ID)
	}
	return resolve.New(ids...), nil
}

// requireActive returns the active project or a caller-facing error.
func (s *Service) requireActive(ctx context.Context) (host.Project, error) {
	p, ok, err := s.host.ActiveProject(ctx)
	if err != nil {
		return host.Project{}, err
	}
	if !ok {
		return host.Project{}, host.ErrNoActiveProject
	}
	return p, nil
}
