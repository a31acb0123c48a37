package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/resolve"
	"github.com/blockbridge-dev/blockbridge/scan"
	"github.com/blockbridge-dev/blockbridge/schema"
)

func (s *Service) openProjectsFromFolder() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "open_projects_from_folder",
		Description: "Open every matching model file under a folder as its own project",
		InputSchema: schema.Object{
			"folder":    {Type: schema.TypeString, Required: true},
			"recursive": {Type: schema.TypeBoolean, Default: false},
			"extensions": {
				Type:        schema.TypeArray,
				Items:       &schema.ParamSpec{Type: schema.TypeString},
				Description: "Extension allowlist; defaults to the known model suffixes",
			},
		},
		Annotations: registry.Annotations{Title: "Open projects from folder", OpenWorld: true},
		Status:      registry.StatusExperimental,
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			folder := args["folder"].(string)
			recursive := args["recursive"].(bool)

			extensions := DefaultExtensions
			if raw, ok := args["extensions"].([]any); ok && len(raw) > 0 {
				extensions = make([]string, len(raw))
				for i, ext := range raw {
					extensions[i] = ext.(string)
				}
			}

			files, err := scan.Scan(folder, recursive, extensions)
			if err != nil {
				return "", err
			}
			if len(files) == 0 {
				return fmt.Sprintf("No matching files found in %s", folder), nil
			}

			resolver, err := s.newResolver(ctx)
			if err != nil {
				return "", err
			}

			// One file's failure never aborts the rest of the batch.
			var opened []string
			var failed []string
			for _, file := range files {
				if err := s.openOne(ctx, resolver, file); err != nil {
					failed = append(failed, fmt.Sprintf("%s: %v", file.Path, err))
					continue
				}
				opened = append(opened, filepath.Base(file.Path))
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Opened %d of %d file(s) from %s (%d failed)\n", len(opened), len(files), folder, len(failed))
			for _, name := range opened {
				fmt.Fprintf(&b, "  opened: %s\n", name)
			}
			for _, failure := range failed {
				fmt.Fprintf(&b, "  failed: %s\n", failure)
			}
			return b.String(), nil
		},
	}
}

// openOne opens a single discovered file as a fresh project. Parse, resolve,
// and load failures are returned for per-file accounting; a load failure also
// closes the half-open project it would otherwise leave behind.
func (s *Service) openOne(ctx context.Context, resolver *resolve.Resolver, file scan.File) error {
	raw, err := os.ReadFile(file.Path)
	if err != nil {
		return err
	}

	content := parseContent(raw)
	if content == nil {
		return fmt.Errorf("invalid JSON")
	}

	binding, err := resolver.Resolve(file.Path, content)
	if err != nil {
		return err
	}

	project, err := s.host.NewProject(ctx, projectName(file.Path), binding.FormatID)
	if err != nil {
		return err
	}
	if err := s.host.LoadModel(ctx, project.UUID, binding.CodecID, raw); err != nil {
		_ = s.host.CloseProject(ctx, project.UUID, true)
		return err
	}
	return nil
}
