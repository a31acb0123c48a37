package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/resolve"
	"github.com/blockbridge-dev/blockbridge/schema"
)

func (s *Service) toGeoJSON() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "to_geo_json",
		Description: "Compile the active project into Bedrock geo.json and return it",
		InputSchema: schema.Object{
			"pretty": {Type: schema.TypeBoolean, Default: true, Description: "Pretty-print the JSON output"},
		},
		Annotations: registry.Annotations{Title: "Compile to geo.json", ReadOnly: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if _, err := s.requireActive(ctx); err != nil {
				return "", err
			}
			pretty := args["pretty"].(bool)
			out, err := s.host.CompileGeometry(ctx, pretty)
			if err != nil {
				return "", err
			}
			return out.Render(pretty)
		},
	}
}

func (s *Service) exportGeoJSON() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "export_geo_json",
		Description: "Compile the active project and write it to a .geo.json file",
		InputSchema: schema.Object{
			"path":   {Type: schema.TypeString, Required: true, Description: "Target file path; normalized to end in .geo.json"},
			"pretty": {Type: schema.TypeBoolean, Default: true},
		},
		Annotations: registry.Annotations{Title: "Export geo.json"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			project, err := s.requireActive(ctx)
			if err != nil {
				return "", err
			}
			pretty := args["pretty"].(bool)

			out, err := s.host.CompileGeometry(ctx, pretty)
			if err != nil {
				return "", err
			}
			text, err := out.Render(pretty)
			if err != nil {
				return "", err
			}

			path := NormalizeGeoPath(args["path"].(string))
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return "", fmt.Errorf("create directories for %s: %w", path, err)
				}
			}
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}

			status := fmt.Sprintf("Exported %s (%d bytes)", path, len(text))
			if !isBedrockFormat(project.FormatID) {
				status += fmt.Sprintf("\nwarning: active project format %q is not a Bedrock format; geometry was compiled through the Bedrock codec anyway and may be lossy", project.FormatID)
			}
			return status, nil
		},
	}
}

// NormalizeGeoPath forces the geometry-export suffix onto a target path:
// a bare name or a plain .json suffix becomes .geo.json, an existing
// .geo.json suffix is left alone.
func NormalizeGeoPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, resolve.SuffixGeometry) {
		return path
	}
	if strings.HasSuffix(lower, resolve.SuffixJSON) {
		path = path[:len(path)-len(resolve.SuffixJSON)]
	}
	return path + resolve.SuffixGeometry
}

func isBedrockFormat(formatID string) bool {
	return strings.HasPrefix(formatID, "bedrock")
}
