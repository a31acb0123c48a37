package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blockbridge-dev/blockbridge/memhost"
)

func writeModel(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenProjectsFromFolderPartialFailure(t *testing.T) {
	reg, editor := newRig(t)
	folder := t.TempDir()

	writeModel(t, filepath.Join(folder, "cow.geo.json"), `{"format_version":"1.21.0","minecraft:geometry":[]}`)
	writeModel(t, filepath.Join(folder, "stone.json"), `{"elements":[]}`)
	writeModel(t, filepath.Join(folder, "broken.json"), `{not valid json`)

	out := invoke(t, reg, "open_projects_from_folder", map[string]any{"folder": folder})

	if !strings.Contains(out, "Opened 2 of 3 file(s)") {
		t.Errorf("report header wrong:\n%s", out)
	}
	if !strings.Contains(out, "(1 failed)") {
		t.Errorf("report missing failure count:\n%s", out)
	}
	if !strings.Contains(out, "failed: ") || !strings.Contains(out, "broken.json") {
		t.Errorf("report missing failed file:\n%s", out)
	}

	projects, _ := editor.ListProjects(context.Background())
	if len(projects) != 2 {
		t.Errorf("open projects = %d, want 2", len(projects))
	}
}

func TestOpenProjectsFromFolderNonRecursive(t *testing.T) {
	reg, editor := newRig(t)
	folder := t.TempDir()

	writeModel(t, filepath.Join(folder, "top.geo.json"), `{"minecraft:geometry":[]}`)
	writeModel(t, filepath.Join(folder, "sub", "nested.geo.json"), `{"minecraft:geometry":[]}`)

	invoke(t, reg, "open_projects_from_folder", map[string]any{"folder": folder})
	projects, _ := editor.ListProjects(context.Background())
	if len(projects) != 1 {
		t.Fatalf("non-recursive opened %d projects, want 1", len(projects))
	}

	invoke(t, reg, "open_projects_from_folder", map[string]any{"folder": folder, "recursive": true})
	projects, _ = editor.ListProjects(context.Background())
	if len(projects) != 3 {
		t.Errorf("recursive opened %d total projects, want 3", len(projects))
	}
}

func TestOpenProjectsFromFolderExtensionFilter(t *testing.T) {
	reg, editor := newRig(t)
	folder := t.TempDir()

	writeModel(t, filepath.Join(folder, "keep.bbmodel"), `{"meta":{"model_format":"bedrock"}}`)
	writeModel(t, filepath.Join(folder, "skip.geo.json"), `{"minecraft:geometry":[]}`)

	out := invoke(t, reg, "open_projects_from_folder", map[string]any{
		"folder":     folder,
		"extensions": []any{".bbmodel"},
	})
	if !strings.Contains(out, "Opened 1 of 1 file(s)") {
		t.Errorf("report:\n%s", out)
	}

	projects, _ := editor.ListProjects(context.Background())
	if len(projects) != 1 || projects[0].FormatID != "bedrock" {
		t.Errorf("projects = %+v, want one bedrock project", projects)
	}
}

func TestOpenProjectsFromFolderMissingRoot(t *testing.T) {
	reg, _ := newRig(t)
	_, err := reg.Invoke(context.Background(), "open_projects_from_folder", map[string]any{
		"folder": filepath.Join(t.TempDir(), "nope"),
	})
	if err == nil {
		t.Fatal("open_projects_from_folder succeeded for missing folder")
	}
}

func TestOpenProjectsFromFolderLegacyWithoutCodec(t *testing.T) {
	reg, editor := newRig(t, memhost.WithoutCodecs(memhost.CodecOptiFineEnt, memhost.CodecOptiFinePart))
	folder := t.TempDir()

	writeModel(t, filepath.Join(folder, "creeper.jem"), `{"models":[]}`)
	writeModel(t, filepath.Join(folder, "cow.geo.json"), `{"minecraft:geometry":[]}`)

	out := invoke(t, reg, "open_projects_from_folder", map[string]any{"folder": folder})
	if !strings.Contains(out, "Opened 1 of 2 file(s)") {
		t.Errorf("report:\n%s", out)
	}
	if !strings.Contains(out, "creeper.jem") || !strings.Contains(out, "optifine_entity") {
		t.Errorf("report does not explain missing codec:\n%s", out)
	}

	projects, _ := editor.ListProjects(context.Background())
	if len(projects) != 1 {
		t.Errorf("open projects = %d, want 1", len(projects))
	}
}
