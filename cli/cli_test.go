package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToolsListShowsAllTools(t *testing.T) {
	out, err := execute(t, NewToolsCmd(), "list")
	if err != nil {
		t.Fatalf("tools list: %v", err)
	}
	for _, name := range []string{
		"to_geo_json", "export_geo_json", "convert_format", "list_formats",
		"get_current_format", "create_project", "open_project",
		"open_projects_from_folder", "list_open_projects", "switch_project",
		"close_project",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing tool %q:\n%s", name, out)
		}
	}
}

func TestToolsDescribeUnknownTool(t *testing.T) {
	_, err := execute(t, NewToolsCmd(), "describe", "no_such_tool")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want ExitError with validation code", err)
	}
}

func TestToolsDescribeShowsParams(t *testing.T) {
	out, err := execute(t, NewToolsCmd(), "describe", "create_project")
	if err != nil {
		t.Fatalf("tools describe: %v", err)
	}
	if !strings.Contains(out, "format") || !strings.Contains(out, "one of") {
		t.Errorf("describe output missing enum parameter:\n%s", out)
	}
}

func TestToolsCallCreateProject(t *testing.T) {
	out, err := execute(t, NewToolsCmd(),
		"call", "create_project", "--args", `{"name": "steve", "format": "bedrock"}`)
	if err != nil {
		t.Fatalf("tools call: %v", err)
	}
	if !strings.Contains(out, "steve") {
		t.Errorf("output = %q, want project name", out)
	}
}

func TestToolsCallBadArgsJSON(t *testing.T) {
	_, err := execute(t, NewToolsCmd(), "call", "list_formats", "--args", "{not json")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitInputParse {
		t.Fatalf("err = %v, want input parse exit error", err)
	}
}

func TestToolsCallValidationFailure(t *testing.T) {
	_, err := execute(t, NewToolsCmd(),
		"call", "create_project", "--args", `{"name": "steve", "format": "not_a_format"}`)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("err = %v, want validation exit error", err)
	}
}

func TestResolveCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creeper.geo.json")
	model := map[string]any{"format_version": "1.21.0"}
	data, _ := json.Marshal(model)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, NewResolveCmd(), path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "format: bedrock") || !strings.Contains(out, "codec: bedrock") {
		t.Errorf("resolve output = %q", out)
	}
}

func TestResolveCommandMissingFile(t *testing.T) {
	_, err := execute(t, NewResolveCmd(), filepath.Join(t.TempDir(), "missing.json"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitFileNotFound {
		t.Fatalf("err = %v, want file-not-found exit error", err)
	}
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bbmodel", "b.geo.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, NewScanCmd(), dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "a.bbmodel") || !strings.Contains(out, "b.geo.json") {
		t.Errorf("scan output missing model files:\n%s", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("scan output includes non-model file:\n%s", out)
	}
	if !strings.Contains(out, "2 file(s)") {
		t.Errorf("scan output missing count:\n%s", out)
	}
}

func TestScanCommandInvalidDirectory(t *testing.T) {
	_, err := execute(t, NewScanCmd(), filepath.Join(t.TempDir(), "nope"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitFileNotFound {
		t.Fatalf("err = %v, want file-not-found exit error", err)
	}
}

func TestHistoryRecentEmptyStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	out, err := execute(t, NewHistoryCmd(), "recent", "--db", db)
	if err != nil {
		t.Fatalf("history recent: %v", err)
	}
	if !strings.Contains(out, "no invocations recorded") {
		t.Errorf("output = %q", out)
	}
}
