package hook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/inputmask/internal/mask"
)

var cfg = Config{Mask: "aa-99", Placeholder: "_"}

func TestChain(t *testing.T) {
	upper := func(next, _ mask.State, _ string, _ Config) mask.State {
		next.Value = strings.ToUpper(next.Value)
		return next
	}
	cursorEnd := func(next, _ mask.State, _ string, _ Config) mask.State {
		next.Selection = mask.Cursor(next.Len())
		return next
	}

	h := Chain(upper, nil, cursorEnd)
	got := h(mask.State{Value: "ab-__", Selection: mask.Cursor(2)}, mask.State{}, "b", cfg)
	if got.Value != "AB-__" || got.Selection != mask.Cursor(5) {
		t.Errorf("unexpected state %+v", got)
	}
}

const upperScript = `
function before_masked_state_change(next, previous, entered, config)
  if config.mask ~= "aa-99" then
    return nil
  end
  return { value = string.upper(next.value), selection = next.selection }
end
`

func TestLuaHookOverridesValue(t *testing.T) {
	h, err := NewLuaHook(upperScript)
	if err != nil {
		t.Fatalf("NewLuaHook failed: %v", err)
	}
	defer h.Close()

	next := mask.State{Value: "ab-__", Selection: mask.Cursor(3)}
	got, err := h.Call(context.Background(), next, mask.State{}, "b", cfg)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got.Value != "AB-__" || got.Selection != mask.Cursor(3) {
		t.Errorf("unexpected state %+v", got)
	}

	got, err = h.Call(context.Background(), next, mask.State{}, "b", Config{Mask: "999"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != next {
		t.Errorf("nil result should keep next, got %+v", got)
	}
}

func TestLuaHookSelection(t *testing.T) {
	h, err := NewLuaHook(`
function before_masked_state_change(next, previous, entered, config)
  if entered == "" then
    return { selection = { start = previous.selection.start, ["end"] = previous.selection["end"] } }
  end
end
`)
	if err != nil {
		t.Fatalf("NewLuaHook failed: %v", err)
	}
	defer h.Close()

	next := mask.State{Value: "1_", Selection: mask.Cursor(1)}
	prev := mask.State{Value: "12", Selection: mask.Selection{Start: 0, End: 2}}
	got, err := h.Call(context.Background(), next, prev, "", cfg)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got.Value != "1_" || got.Selection != prev.Selection {
		t.Errorf("unexpected state %+v", got)
	}
}

func TestLuaHookMissingFunction(t *testing.T) {
	_, err := NewLuaHook(`x = 1`)
	if !errors.Is(err, ErrNoFunction) {
		t.Errorf("expected ErrNoFunction, got %v", err)
	}
}

func TestLuaHookSyntaxError(t *testing.T) {
	if _, err := NewLuaHook(`function (`); err == nil {
		t.Error("expected a compile error")
	}
}

func TestLuaHookBadResult(t *testing.T) {
	h, err := NewLuaHook(`function before_masked_state_change() return 42 end`)
	if err != nil {
		t.Fatalf("NewLuaHook failed: %v", err)
	}
	defer h.Close()

	next := mask.State{Value: "1"}
	got, err := h.Call(context.Background(), next, mask.State{}, "", cfg)
	if !errors.Is(err, ErrBadResult) {
		t.Errorf("expected ErrBadResult, got %v", err)
	}
	if got != next {
		t.Errorf("failed call should return next, got %+v", got)
	}
}

func TestLuaHookTimeout(t *testing.T) {
	h, err := NewLuaHook(`function before_masked_state_change() while true do end end`,
		WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewLuaHook failed: %v", err)
	}
	defer h.Close()

	if _, err := h.Call(context.Background(), mask.State{}, mask.State{}, "", cfg); err == nil {
		t.Error("expected the runaway hook to be stopped")
	}
}

func TestLuaHookSandbox(t *testing.T) {
	h, err := NewLuaHook(`
function before_masked_state_change(next)
  return { value = tostring(os == nil and io == nil and dofile == nil and require == nil) }
end
`)
	if err != nil {
		t.Fatalf("NewLuaHook failed: %v", err)
	}
	defer h.Close()

	got, err := h.Call(context.Background(), mask.State{}, mask.State{}, "", cfg)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got.Value != "true" {
		t.Error("unsafe globals are reachable from the hook")
	}
}

func TestLuaHookFuncLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h, err := NewLuaHook(`
function before_masked_state_change(next, previous, entered)
  print("entered", entered)
  error("boom")
end
`, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("NewLuaHook failed: %v", err)
	}
	defer h.Close()

	next := mask.State{Value: "7_", Selection: mask.Cursor(1)}
	if got := h.Func()(next, mask.State{}, "7", cfg); got != next {
		t.Errorf("failing hook should keep next, got %+v", got)
	}
	if logs.FilterMessage("hook print").Len() != 1 {
		t.Error("expected print to reach the logger")
	}
	if logs.FilterMessage("before change hook failed").Len() != 1 {
		t.Error("expected the failure to be logged")
	}
}

func TestLoadLuaHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upper.lua")
	if err := os.WriteFile(path, []byte(upperScript), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := LoadLuaHook(path)
	if err != nil {
		t.Fatalf("LoadLuaHook failed: %v", err)
	}
	h.Close()

	if _, err := h.Call(context.Background(), mask.State{}, mask.State{}, "", cfg); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := LoadLuaHook(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
