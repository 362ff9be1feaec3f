package hook

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/mask"
)

// FunctionName is the global a hook script must define.
const FunctionName = "before_masked_state_change"

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 100 * time.Millisecond

// LuaHook runs before_masked_state_change from a sandboxed Lua script.
//
// The function receives next and previous as tables of the form
// {value = "...", selection = {start = n, ["end"] = n}}, the entered
// string, and a config table {mask, placeholder, always_show_mask}.
// Returning nil keeps next; returning a table replaces it. Missing keys
// in the returned table fall back to next. Selections are 0-based rune
// offsets.
//
// gopher-lua states are not goroutine-safe; calls are serialized.
type LuaHook struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	logger  *zap.Logger
	closed  bool
}

// LuaOption configures a LuaHook.
type LuaOption func(*LuaHook)

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) LuaOption {
	return func(h *LuaHook) { h.timeout = d }
}

// WithLogger receives print output and call failures.
func WithLogger(l *zap.Logger) LuaOption {
	return func(h *LuaHook) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewLuaHook compiles and runs script in a fresh sandbox. The script must
// define FunctionName.
func NewLuaHook(script string, opts ...LuaOption) (*LuaHook, error) {
	return newLuaHook(func(L *lua.LState) error { return L.DoString(script) }, opts)
}

// LoadLuaHook is NewLuaHook for a script file.
func LoadLuaHook(path string, opts ...LuaOption) (*LuaHook, error) {
	h, err := newLuaHook(func(L *lua.LState) error { return L.DoFile(path) }, opts)
	if err != nil {
		return nil, fmt.Errorf("load hook %s: %w", path, err)
	}
	return h, nil
}

func newLuaHook(load func(*lua.LState) error, opts []LuaOption) (*LuaHook, error) {
	h := &LuaHook{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	h.sandbox()

	if err := load(h.L); err != nil {
		h.L.Close()
		return nil, err
	}
	if fn := h.L.GetGlobal(FunctionName); fn.Type() != lua.LTFunction {
		h.L.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoFunction, FunctionName)
	}
	return h, nil
}

// sandbox opens the safe standard libraries only and routes print to the
// logger.
func (h *LuaHook) sandbox() {
	L := h.L
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		h.logger.Info("hook print", zap.String("message", strings.Join(parts, "\t")))
		return 0
	}))
}

// Call invokes the hook function.
func (h *LuaHook) Call(ctx context.Context, next, previous mask.State, entered string, cfg Config) (mask.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return next, ErrClosed
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	L := h.L
	top := L.GetTop()
	err := h.protect(func() error {
		return L.CallByParam(lua.P{
			Fn:      L.GetGlobal(FunctionName),
			NRet:    1,
			Protect: true,
		}, stateTable(L, next), stateTable(L, previous), lua.LString(entered), configTable(L, cfg))
	})
	if err != nil {
		L.SetTop(top)
		return next, err
	}

	ret := L.Get(-1)
	L.SetTop(top)

	switch v := ret.(type) {
	case *lua.LNilType:
		return next, nil
	case *lua.LTable:
		return tableState(v, next), nil
	default:
		return next, fmt.Errorf("%w: got %s", ErrBadResult, ret.Type())
	}
}

func (h *LuaHook) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Func adapts the hook to a BeforeChangeFunc. Failures are logged and the
// engine's state is committed unchanged.
func (h *LuaHook) Func() BeforeChangeFunc {
	return func(next, previous mask.State, entered string, cfg Config) mask.State {
		st, err := h.Call(context.Background(), next, previous, entered, cfg)
		if err != nil {
			h.logger.Warn("before change hook failed", zap.Error(err))
			return next
		}
		return st
	}
}

// Close releases the Lua state.
func (h *LuaHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.L.Close()
}

func stateTable(L *lua.LState, st mask.State) *lua.LTable {
	sel := L.NewTable()
	sel.RawSetString("start", lua.LNumber(st.Selection.Start))
	sel.RawSetString("end", lua.LNumber(st.Selection.End))

	t := L.NewTable()
	t.RawSetString("value", lua.LString(st.Value))
	t.RawSetString("selection", sel)
	return t
}

func configTable(L *lua.LState, cfg Config) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("mask", lua.LString(cfg.Mask))
	t.RawSetString("placeholder", lua.LString(cfg.Placeholder))
	t.RawSetString("always_show_mask", lua.LBool(cfg.AlwaysShowMask))
	return t
}

func tableState(t *lua.LTable, fallback mask.State) mask.State {
	st := fallback
	if v, ok := t.RawGetString("value").(lua.LString); ok {
		st.Value = string(v)
	}
	if sel, ok := t.RawGetString("selection").(*lua.LTable); ok {
		if n, ok := sel.RawGetString("start").(lua.LNumber); ok {
			st.Selection.Start = int(n)
		}
		if n, ok := sel.RawGetString("end").(lua.LNumber); ok {
			st.Selection.End = int(n)
		}
	}
	return st
}
