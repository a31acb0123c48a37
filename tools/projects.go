package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blockbridge-dev/blockbridge/host"
	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/schema"
)

func (s *Service) createProject(formatIDs []string) registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "create_project",
		Description: "Create a new project of the given format and make it active",
		InputSchema: schema.Object{
			"name":   {Type: schema.TypeString, Required: true},
			"format": {Type: schema.TypeString, Enum: formatIDs, Default: "bedrock_block"},
		},
		Annotations: registry.Annotations{Title: "Create project"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			project, err := s.host.NewProject(ctx, args["name"].(string), args["format"].(string))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Created project %q (%s) with format %s; it is now active", project.Name, project.UUID, project.FormatID), nil
		},
	}
}

func (s *Service) openProject() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "open_project",
		Description: "Open a model file as a new project, resolving its format from path and content",
		InputSchema: schema.Object{
			"path": {Type: schema.TypeString, Required: true},
		},
		Annotations: registry.Annotations{Title: "Open project", OpenWorld: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			path := args["path"].(string)
			raw, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", path, err)
			}

			resolver, err := s.newResolver(ctx)
			if err != nil {
				return "", err
			}
			binding, err := resolver.Resolve(path, parseContent(raw))
			if err != nil {
				return "", err
			}

			project, err := s.host.NewProject(ctx, projectName(path), binding.FormatID)
			if err != nil {
				return "", err
			}
			if err := s.host.LoadModel(ctx, project.UUID, binding.CodecID, raw); err != nil {
				// Drop the half-open project so a load failure leaves the
				// editor as it was.
				_ = s.host.CloseProject(ctx, project.UUID, true)
				return "", fmt.Errorf("load %s: %w", path, err)
			}
			return fmt.Sprintf("Opened %q as project %s (format %s, codec %s)", path, project.UUID, binding.FormatID, binding.CodecID), nil
		},
	}
}

func (s *Service) listOpenProjects() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "list_open_projects",
		Description: "List open projects, marking the active one",
		InputSchema: schema.Object{},
		Annotations: registry.Annotations{Title: "List open projects", ReadOnly: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			projects, err := s.host.ListProjects(ctx)
			if err != nil {
				return "", err
			}
			if len(projects) == 0 {
				return "No projects are open", nil
			}
			active, _, err := s.host.ActiveProject(ctx)
			if err != nil {
				return "", err
			}

			var b strings.Builder
			for i, p := range projects {
				marker := " "
				if p.UUID == active.UUID {
					marker = "*"
				}
				fmt.Fprintf(&b, "%s %d. %s (%s) [%s]\n", marker, i+1, p.Name, p.UUID, p.FormatID)
			}
			return b.String(), nil
		},
	}
}

func (s *Service) switchProject() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "switch_project",
		Description: "Switch the active project by UUID or 1-based list index",
		InputSchema: schema.Object{
			"identifier": {Type: schema.TypeString, Required: true},
		},
		Annotations: registry.Annotations{Title: "Switch project"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			target, err := s.findProject(ctx, args["identifier"].(string))
			if err != nil {
				return "", err
			}
			project, err := s.host.SetActiveProject(ctx, target.UUID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Switched to project %q (%s)", project.Name, project.UUID), nil
		},
	}
}

func (s *Service) closeProject() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "close_project",
		Description: "Close a project by UUID, or the active project when omitted",
		InputSchema: schema.Object{
			"uuid":  {Type: schema.TypeString},
			"force": {Type: schema.TypeBoolean, Default: false, Description: "Discard unsaved changes"},
		},
		Annotations: registry.Annotations{Title: "Close project", Destructive: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			force := args["force"].(bool)

			var target host.Project
			if id, ok := args["uuid"].(string); ok && id != "" {
				var err error
				target, err = s.findProject(ctx, id)
				if err != nil {
					return "", err
				}
			} else {
				var err error
				target, err = s.requireActive(ctx)
				if err != nil {
					return "", err
				}
			}

			if err := s.host.CloseProject(ctx, target.UUID, force); err != nil {
				return "", err
			}
			return fmt.Sprintf("Closed project %q (%s)", target.Name, target.UUID), nil
		},
	}
}

// findProject resolves a project by exact UUID or 1-based index without
// mutating anything; callers switch or close only after the target is known.
func (s *Service) findProject(ctx context.Context, identifier string) (host.Project, error) {
	projects, err := s.host.ListProjects(ctx)
	if err != nil {
		return host.Project{}, err
	}
	for _, p := range projects {
		if p.UUID == identifier {
			return p, nil
		}
	}
	if index, err := strconv.Atoi(identifier); err == nil {
		if index < 1 || index > len(projects) {
			return host.Project{}, fmt.Errorf("project index %d is out of range; %d project(s) open", index, len(projects))
		}
		return projects[index-1], nil
	}
	return host.Project{}, fmt.Errorf("no open project matches %q; use a UUID or a 1-based index", identifier)
}

// parseContent attempts to parse file bytes as a JSON object. A nil map means
// the resolver only has the path to go on.
func parseContent(raw []byte) map[string]any {
	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil
	}
	return content
}

// projectName derives a project name from a file path, compound suffix aware.
func projectName(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".geo.json") {
		return name[:len(name)-len(".geo.json")]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
