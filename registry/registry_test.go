package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blockbridge-dev/blockbridge/schema"
)

func echoTool(name string) ToolDescriptor {
	return ToolDescriptor{
		Name: name,
		InputSchema: schema.Object{
			"text": {Type: schema.TypeString, Default: "hello"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		},
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := r.Register(echoTool("echo"))
	var dup *DuplicateToolError
	if !errors.As(err, &dup) {
		t.Fatalf("Register() error = %v, want DuplicateToolError", err)
	}
	if dup.Name != "echo" {
		t.Errorf("dup.Name = %q, want echo", dup.Name)
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	r := New()
	_, err := r.Invoke(context.Background(), "missing", nil)
	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("Invoke() error = %v, want UnknownToolError", err)
	}
}

func TestInvokeAppliesDefaults(t *testing.T) {
	r := New()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	out, err := r.Invoke(context.Background(), "echo", map[string]any{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Invoke() = %q, want hello", out)
	}
}

func TestInvokeValidationError(t *testing.T) {
	r := New()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := r.Invoke(context.Background(), "echo", map[string]any{"text": 12.0})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Invoke() error = %v, want ValidationError", err)
	}
	if len(verr.Diagnostics) == 0 {
		t.Error("ValidationError carries no diagnostics")
	}
}

func TestInvokeWrapsHandlerFailure(t *testing.T) {
	r := New()
	cause := errors.New("editor exploded")
	err := r.Register(ToolDescriptor{
		Name:        "boom",
		InputSchema: schema.Object{},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "", cause
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = r.Invoke(context.Background(), "boom", nil)
	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Invoke() error = %v, want ToolExecutionError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ToolExecutionError does not unwrap to the handler cause")
	}
}

func TestInvokeRecoversHandlerPanic(t *testing.T) {
	r := New()
	err := r.Register(ToolDescriptor{
		Name:        "panic",
		InputSchema: schema.Object{},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			panic("unexpected editor state")
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = r.Invoke(context.Background(), "panic", nil)
	var execErr *ToolExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Invoke() error = %v, want ToolExecutionError", err)
	}
}

func TestInvokeSerializesHandlers(t *testing.T) {
	r := New()
	var inFlight, maxInFlight int
	var mu sync.Mutex

	err := r.Register(ToolDescriptor{
		Name:        "slow",
		InputSchema: schema.Object{},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return "done", nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Invoke(context.Background(), "slow", nil); err != nil {
				t.Errorf("Invoke() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Errorf("max in-flight handlers = %d, want 1", maxInFlight)
	}
}

type captureObserver struct {
	mu  sync.Mutex
	obs []Observation
}

func (c *captureObserver) ObserveInvoke(ctx context.Context, obs Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.obs = append(c.obs, obs)
}

func TestObserverSeesOutcomes(t *testing.T) {
	r := New()
	capture := &captureObserver{}
	r.AddObserver(capture)

	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(ToolDescriptor{
		Name:        "boom",
		InputSchema: schema.Object{},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "", errors.New("nope")
		},
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, _ = r.Invoke(context.Background(), "echo", nil)
	_, _ = r.Invoke(context.Background(), "boom", nil)

	if len(capture.obs) != 2 {
		t.Fatalf("observations = %d, want 2", len(capture.obs))
	}
	if !capture.obs[0].Success || capture.obs[1].Success {
		t.Errorf("observation success flags = %v, %v", capture.obs[0].Success, capture.obs[1].Success)
	}
}

func TestListSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(echoTool(name)); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	list := r.List()
	want := []string{"alpha", "mid", "zeta"}
	for i, desc := range list {
		if desc.Name != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, desc.Name, want[i])
		}
	}
}
