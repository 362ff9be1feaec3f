// Package field hosts the mask engine behind a text field.
//
// A Field owns the committed value and selection, focus, the
// before-change hook, autofill detection and deferred selection
// reapplication. The engine in package mask stays pure; every edit is
// reconciled against the state the Field last committed.
package field

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/hook"
	"github.com/dshills/inputmask/internal/mask"
	"github.com/dshills/inputmask/internal/schedule"
)

// Field is a masked text field.
//
// Methods are safe for concurrent use. Callbacks (the before-change hook,
// onChange and the surface writer) must not call back into the Field
// synchronously, except through the Scheduler.
type Field struct {
	mu sync.Mutex

	name       string
	cfg        MaskConfig
	m          *mask.Mask
	state      mask.State
	focused    bool
	controlled bool
	maxLength  int
	warnings   []string

	beforeChange hook.BeforeChangeFunc
	onChange     func(string)
	autofill     AutofillHeuristic
	scheduler    schedule.Scheduler
	pending      schedule.Handle
	writer       func(mask.State)
	logger       *zap.Logger
}

// New creates a field. Invalid masks and conflicting value options are
// configuration errors.
func New(opts ...Option) (*Field, error) {
	o := fieldOptions{
		autofill:  DesktopAutofill{},
		scheduler: schedule.Immediate{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.value != nil && o.defaultValue != nil {
		return nil, ErrControlledConflict
	}

	m, err := compile(o.mask)
	if err != nil {
		return nil, err
	}

	f := &Field{
		name:         o.name,
		cfg:          o.mask,
		m:            m,
		maxLength:    o.maxLength,
		beforeChange: o.beforeChange,
		onChange:     o.onChange,
		autofill:     o.autofill,
		scheduler:    o.scheduler,
		logger:       o.logger.With(zap.String("field", o.name)),
	}
	f.checkMaxLength()

	var initial string
	switch {
	case o.value != nil:
		initial = *o.value
		f.controlled = true
	case o.defaultValue != nil:
		initial = *o.defaultValue
	}
	if m.Enabled() && (f.cfg.AlwaysShowMask || initial != "") {
		initial = m.Format(initial)
	}
	f.state = mask.State{Value: initial, Selection: mask.Cursor(len([]rune(initial)))}
	return f, nil
}

func compile(mc MaskConfig) (*mask.Mask, error) {
	m, err := mask.Compile(mc.Source,
		mask.WithPlaceholder(mc.Placeholder),
		mask.WithDefinitions(mc.Definitions))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMask, err)
	}
	return m, nil
}

func (f *Field) checkMaxLength() {
	if f.maxLength <= 0 || !f.m.Enabled() {
		return
	}
	w := fmt.Sprintf("maxLength %d is ignored while mask %q is set; the mask bounds the value to %d characters",
		f.maxLength, f.m.Source(), f.m.Len())
	f.warnings = append(f.warnings, w)
	f.logger.Warn("maxLength ignored with an active mask",
		zap.Int("maxLength", f.maxLength),
		zap.String("mask", f.m.Source()))
}

// commit is the outcome of a state change, applied after the lock is
// released.
type commit struct {
	state   mask.State
	changed bool
	reapply bool
}

// commitLocked runs the hook and stores next. f.mu must be held.
func (f *Field) commitLocked(next, prev mask.State, entered string) commit {
	if f.beforeChange != nil {
		next = f.beforeChange(next, prev, entered, f.hookConfig())
	}
	next.Selection = next.Selection.Normalize().Clamp(next.Len())

	f.state = next
	f.logger.Debug("state committed",
		zap.String("value", next.Value),
		zap.Stringer("selection", next.Selection),
		zap.String("entered", entered))

	return commit{
		state:   next,
		changed: next.Value != prev.Value,
		reapply: f.focused,
	}
}

func (f *Field) hookConfig() hook.Config {
	return hook.Config{
		Mask:           f.m.Source(),
		Placeholder:    f.cfg.Placeholder,
		AlwaysShowMask: f.cfg.AlwaysShowMask,
	}
}

// finish schedules selection reapplication and notifies onChange.
func (f *Field) finish(c commit, notify bool) {
	if c.reapply {
		f.deferSelection(c.state.Selection)
	}
	if notify && c.changed && f.onChange != nil {
		f.onChange(c.state.Value)
	}
}

func (f *Field) deferSelection(sel mask.Selection) {
	f.mu.Lock()
	old := f.pending
	f.pending = nil
	hasWriter := f.writer != nil
	f.mu.Unlock()

	if old != nil {
		old.Cancel()
	}
	if !hasWriter {
		return
	}

	h := f.scheduler.Schedule(func() { f.reapply(sel) })

	f.mu.Lock()
	f.pending = h
	f.mu.Unlock()
}

// reapply writes the committed state back to the surface if sel is still
// current.
func (f *Field) reapply(sel mask.Selection) {
	f.mu.Lock()
	st := f.state
	w := f.writer
	ok := f.focused && st.Selection == sel
	f.mu.Unlock()

	if ok && w != nil {
		w(st)
	}
}

func (f *Field) cancelPendingLocked() {
	if f.pending != nil {
		f.pending.Cancel()
		f.pending = nil
	}
}

// canonicalLocked returns prev formatted through the current mask.
func (f *Field) canonicalLocked(prev mask.State) mask.State {
	if v := f.m.Format(prev.Value); v != prev.Value {
		prev.Value = v
		prev.Selection = prev.Selection.Clamp(len([]rune(v)))
	}
	return prev
}

// Input reconciles a raw surface state, as left by a native edit, with
// the committed state and commits the result.
func (f *Field) Input(raw mask.State) mask.State {
	f.mu.Lock()
	prev := f.state
	raw.Selection = raw.Selection.Normalize().Clamp(raw.Len())

	var next mask.State
	var entered string
	if f.m.Enabled() {
		base := f.canonicalLocked(prev)
		if f.autofill.IsAutofill(raw, base, f.focused) {
			f.logger.Debug("autofill detected", zap.String("raw", raw.Value))
			base = mask.State{Value: f.m.EmptyValue()}
		}
		res := f.m.ProcessChange(raw, base)
		next, entered = res.State(), res.Entered
		if !f.focused && !f.cfg.AlwaysShowMask && f.m.IsValueEmpty(next.Value) {
			next = mask.State{}
		}
	} else {
		res := f.m.ProcessChange(raw, prev)
		next, entered = res.State(), res.Entered
		if f.maxLength > 0 && next.Len() > f.maxLength {
			next.Value = string([]rune(next.Value)[:f.maxLength])
		}
	}

	c := f.commitLocked(next, prev, entered)
	f.mu.Unlock()

	f.finish(c, true)
	return c.state
}

// Focus marks the field focused. An unfilled value is formatted and the
// cursor moved to the first unfilled slot.
func (f *Field) Focus() mask.State {
	f.mu.Lock()
	f.focused = true
	prev := f.state
	if !f.m.Enabled() || f.m.IsValueFilled(prev.Value) {
		f.mu.Unlock()
		return prev
	}

	v := f.m.Format(prev.Value)
	c := f.commitLocked(mask.State{Value: v, Selection: f.m.DefaultSelection(v)}, prev, "")
	f.mu.Unlock()

	f.finish(c, true)
	return c.state
}

// Blur marks the field unfocused. Unless the mask is always shown, an
// empty value is cleared to "".
func (f *Field) Blur() mask.State {
	f.mu.Lock()
	f.focused = false
	f.cancelPendingLocked()
	prev := f.state
	if !f.m.Enabled() || f.cfg.AlwaysShowMask || prev.Value == "" || !f.m.IsValueEmpty(prev.Value) {
		f.mu.Unlock()
		return prev
	}

	c := f.commitLocked(mask.State{}, prev, "")
	f.mu.Unlock()

	f.finish(c, true)
	return c.state
}

// Select records a selection change made on the surface.
func (f *Field) Select(sel mask.Selection) mask.State {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cancelPendingLocked()
	f.state.Selection = sel.Normalize().Clamp(f.state.Len())
	return f.state
}

// SetValue replaces the value programmatically. The value is formatted
// through the mask; onChange is not called.
func (f *Field) SetValue(v string) mask.State {
	f.mu.Lock()
	prev := f.state
	if f.m.Enabled() && (f.focused || f.cfg.AlwaysShowMask || v != "") {
		v = f.m.Format(v)
	}
	if !f.m.Enabled() && f.maxLength > 0 && len([]rune(v)) > f.maxLength {
		v = string([]rune(v)[:f.maxLength])
	}

	sel := mask.Cursor(len([]rune(v)))
	if f.focused && f.m.Enabled() {
		sel = f.m.DefaultSelection(v)
	}
	c := f.commitLocked(mask.State{Value: v, Selection: sel}, prev, "")
	f.mu.Unlock()

	f.finish(c, false)
	return c.state
}

// SetMask recompiles the field with a new template, keeping the other
// mask settings.
func (f *Field) SetMask(template string) error {
	mc := f.MaskConfig()
	mc.Source = mask.FromString(template)
	return f.SetMaskConfig(mc)
}

// SetMaskConfig recompiles the mask and re-formats the existing value into
// it. Characters compatible with the new template are kept.
func (f *Field) SetMaskConfig(mc MaskConfig) error {
	m, err := compile(mc)
	if err != nil {
		return err
	}

	f.mu.Lock()
	prev := f.state
	f.cfg = mc
	f.m = m
	f.warnings = nil
	f.checkMaxLength()

	v := prev.Value
	if m.Enabled() {
		if f.focused || mc.AlwaysShowMask || v != "" {
			v = m.Format(v)
		}
		if !f.focused && !mc.AlwaysShowMask && m.IsValueEmpty(v) {
			v = ""
		}
	}

	sel := prev.Selection.Clamp(len([]rune(v)))
	if f.focused && m.Enabled() && !m.IsValueFilled(v) {
		sel = m.DefaultSelection(v)
	}
	c := f.commitLocked(mask.State{Value: v, Selection: sel}, prev, "")
	f.mu.Unlock()

	f.finish(c, false)
	return nil
}

// Close cancels pending selection reapplication and detaches the surface.
func (f *Field) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelPendingLocked()
	f.writer = nil
}

func (f *Field) setWriter(w func(mask.State)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writer = w
}

// State returns the committed value and selection.
func (f *Field) State() mask.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Value returns the committed value.
func (f *Field) Value() string {
	return f.State().Value
}

// Selection returns the committed selection.
func (f *Field) Selection() mask.Selection {
	return f.State().Selection
}

// Focused reports whether the field has focus.
func (f *Field) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// Mask returns the compiled mask.
func (f *Field) Mask() *mask.Mask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m
}

// MaskConfig returns the current mask configuration.
func (f *Field) MaskConfig() MaskConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Controlled reports whether the field was created with WithValue.
func (f *Field) Controlled() bool { return f.controlled }

// MaxLength returns the bound enforced on an unmasked field, or 0.
func (f *Field) MaxLength() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.m.Enabled() {
		return 0
	}
	return f.maxLength
}

// Warnings returns advisory configuration warnings.
func (f *Field) Warnings() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.warnings...)
}
