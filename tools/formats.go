package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/blockbridge-dev/blockbridge/host"
	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/schema"
)

func (s *Service) convertFormat() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "convert_format",
		Description: "Convert the active project to another format in place",
		InputSchema: schema.Object{
			"format": {Type: schema.TypeString, Default: "bedrock", Description: "Target format id"},
		},
		Annotations: registry.Annotations{Title: "Convert project format"},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			project, err := s.requireActive(ctx)
			if err != nil {
				return "", err
			}
			formatID := args["format"].(string)

			target, ok, err := s.host.Format(ctx, formatID)
			if err != nil {
				return "", err
			}
			if !ok {
				ids, err := s.formatIDs(ctx)
				if err != nil {
					return "", err
				}
				return "", fmt.Errorf("unknown format %q; available formats: %s", formatID, strings.Join(ids, ", "))
			}

			if err := s.host.ConvertActive(ctx, formatID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Converted %q from %s to %s (%s)", project.Name, project.FormatID, target.ID, target.Name), nil
		},
	}
}

func (s *Service) listFormats() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "list_formats",
		Description: "List supported model formats grouped by category",
		InputSchema: schema.Object{},
		Annotations: registry.Annotations{Title: "List formats", ReadOnly: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			formats, err := s.host.ListFormats(ctx)
			if err != nil {
				return "", err
			}
			slices.SortFunc(formats, func(a, b host.Format) int {
				if c := strings.Compare(a.Category, b.Category); c != 0 {
					return c
				}
				return strings.Compare(a.Name, b.Name)
			})

			var b strings.Builder
			category := ""
			for _, f := range formats {
				if f.Category != category {
					if category != "" {
						b.WriteString("\n")
					}
					category = f.Category
					fmt.Fprintf(&b, "%s:\n", category)
				}
				fmt.Fprintf(&b, "  %s — %s\n", f.ID, f.Name)
			}
			return b.String(), nil
		},
	}
}

func (s *Service) getCurrentFormat() registry.ToolDescriptor {
	return registry.ToolDescriptor{
		Name:        "get_current_format",
		Description: "Report the active project's format capability flags as JSON",
		InputSchema: schema.Object{},
		Annotations: registry.Annotations{Title: "Current format", ReadOnly: true},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			project, err := s.requireActive(ctx)
			if err != nil {
				return "", err
			}
			format, ok, err := s.host.Format(ctx, project.FormatID)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", fmt.Errorf("%w: %q", host.ErrUnknownFormat, project.FormatID)
			}
			data, err := json.MarshalIndent(format, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}

func (s *Service) formatIDs(ctx context.Context) ([]string, error) {
	formats, err := s.host.ListFormats(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(formats))
	for _, f := range formats {
		ids = append(ids, f.ID)
	}
	slices.Sort(ids)
	return ids, nil
}
