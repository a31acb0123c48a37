package memhost

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/blockbridge-dev/blockbridge/host"
)

func TestNewProjectBecomesActive(t *testing.T) {
	e := New()
	ctx := context.Background()

	first, err := e.NewProject(ctx, "first", FormatBedrockBlock)
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	second, err := e.NewProject(ctx, "second", FormatJavaBlock)
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}

	active, ok, err := e.ActiveProject(ctx)
	if err != nil || !ok {
		t.Fatalf("ActiveProject() = %v, %v, %v", active, ok, err)
	}
	if active.UUID != second.UUID {
		t.Errorf("active = %q, want %q", active.UUID, second.UUID)
	}

	if _, err := e.SetActiveProject(ctx, first.UUID); err != nil {
		t.Fatalf("SetActiveProject() error = %v", err)
	}
	active, _, _ = e.ActiveProject(ctx)
	if active.UUID != first.UUID {
		t.Errorf("active after switch = %q, want %q", active.UUID, first.UUID)
	}
}

func TestNewProjectUnknownFormat(t *testing.T) {
	e := New()
	_, err := e.NewProject(context.Background(), "x", "no_such_format")
	if !errors.Is(err, host.ErrUnknownFormat) {
		t.Fatalf("NewProject() error = %v, want ErrUnknownFormat", err)
	}
}

func TestCloseProjectAdjustsActive(t *testing.T) {
	e := New()
	ctx := context.Background()

	a, _ := e.NewProject(ctx, "a", FormatBedrockBlock)
	b, _ := e.NewProject(ctx, "b", FormatBedrockBlock)

	if err := e.CloseProject(ctx, b.UUID, false); err != nil {
		t.Fatalf("CloseProject() error = %v", err)
	}
	active, ok, _ := e.ActiveProject(ctx)
	if !ok || active.UUID != a.UUID {
		t.Errorf("active after close = %v (ok=%v), want %q", active.UUID, ok, a.UUID)
	}

	if err := e.CloseProject(ctx, a.UUID, false); err != nil {
		t.Fatalf("CloseProject() error = %v", err)
	}
	if _, ok, _ := e.ActiveProject(ctx); ok {
		t.Error("ActiveProject() ok = true after closing all projects")
	}
}

func TestCloseProjectUnsavedChanges(t *testing.T) {
	e := New()
	ctx := context.Background()

	p, _ := e.NewProject(ctx, "dirty", FormatBedrockBlock)
	if err := e.LoadModel(ctx, p.UUID, CodecBedrock, []byte(`{"bones":[]}`)); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	if err := e.CloseProject(ctx, p.UUID, false); !errors.Is(err, host.ErrUnsavedChanges) {
		t.Fatalf("CloseProject() error = %v, want ErrUnsavedChanges", err)
	}
	if err := e.CloseProject(ctx, p.UUID, true); err != nil {
		t.Fatalf("CloseProject(force) error = %v", err)
	}
}

func TestLoadModelBadJSON(t *testing.T) {
	e := New()
	ctx := context.Background()
	p, _ := e.NewProject(ctx, "p", FormatBedrockBlock)

	if err := e.LoadModel(ctx, p.UUID, CodecBedrock, []byte("{not json")); err == nil {
		t.Fatal("LoadModel() error = nil for invalid JSON")
	}
}

func TestWithoutCodecs(t *testing.T) {
	e := New(WithoutCodecs(CodecOptiFineEnt, CodecOptiFinePart))
	ctx := context.Background()

	if _, ok, _ := e.Codec(ctx, CodecOptiFineEnt); ok {
		t.Error("Codec(optifine_entity) present after WithoutCodecs")
	}
	if _, ok, _ := e.Codec(ctx, CodecBedrock); !ok {
		t.Error("Codec(bedrock) missing, want present")
	}

	p, _ := e.NewProject(ctx, "p", FormatBedrockBlock)
	err := e.LoadModel(ctx, p.UUID, CodecOptiFineEnt, []byte("{}"))
	var capErr *host.CapabilityUnavailableError
	if !errors.As(err, &capErr) {
		t.Fatalf("LoadModel() error = %v, want CapabilityUnavailableError", err)
	}
}

func TestCompileGeometry(t *testing.T) {
	e := New()
	ctx := context.Background()

	if _, err := e.CompileGeometry(ctx, true); !errors.Is(err, host.ErrNoActiveProject) {
		t.Fatalf("CompileGeometry() error = %v, want ErrNoActiveProject", err)
	}

	p, _ := e.NewProject(ctx, "cow", FormatBedrockEntity)
	if err := e.LoadModel(ctx, p.UUID, CodecBedrock, []byte(`{"bones":[{"name":"body"}]}`)); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	out, err := e.CompileGeometry(ctx, true)
	if err != nil {
		t.Fatalf("CompileGeometry() error = %v", err)
	}
	if out.Kind != host.GeometryStructured {
		t.Fatalf("output kind = %q, want structured", out.Kind)
	}
	text, err := out.Render(false)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := `"identifier":"geometry.cow"`; !strings.Contains(text, want) {
		t.Errorf("rendered geometry missing %s:\n%s", want, text)
	}
}
