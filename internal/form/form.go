// Package form groups masked fields built from a form definition.
//
// Fields never interact: each owns its state and mask. The form adds
// stable ids, focus traversal and live reconfiguration.
package form

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/config"
	"github.com/dshills/inputmask/internal/field"
	"github.com/dshills/inputmask/internal/hook"
	"github.com/dshills/inputmask/internal/mask"
	"github.com/dshills/inputmask/internal/schedule"
)

// Entry is one field of a form.
type Entry struct {
	ID      uuid.UUID
	Spec    config.FieldSpec
	Field   *field.Field
	Surface *field.Surface
}

// Label returns the display label.
func (e *Entry) Label() string { return e.Spec.DisplayLabel() }

type options struct {
	logger       *zap.Logger
	scheduler    schedule.Scheduler
	autofill     field.AutofillHeuristic
	beforeChange hook.BeforeChangeFunc
	onChange     func(e *Entry, value string)
}

// Option configures a Form.
type Option func(*options)

// WithLogger sets the logger shared by the form's fields.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScheduler sets the scheduler for deferred selection reapplication.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithAutofill overrides the heuristic selected by the document's
// platform.
func WithAutofill(h field.AutofillHeuristic) Option {
	return func(o *options) { o.autofill = h }
}

// WithBeforeChange installs a hook that runs before the document's Lua
// hook.
func WithBeforeChange(fn hook.BeforeChangeFunc) Option {
	return func(o *options) { o.beforeChange = fn }
}

// WithOnChange is called after a user edit changes a field's value.
func WithOnChange(fn func(e *Entry, value string)) Option {
	return func(o *options) { o.onChange = fn }
}

// Form is an ordered set of fields.
type Form struct {
	mu      sync.Mutex
	opts    options
	doc     *config.Document
	entries []*Entry
	byID    map[uuid.UUID]*Entry
	focus   int

	lua atomic.Pointer[hook.LuaHook]
}

// New builds a form from doc. The document's Lua hook, if any, is loaded.
func New(doc *config.Document, opts ...Option) (*Form, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	f := &Form{
		opts:  o,
		byID:  make(map[uuid.UUID]*Entry),
		focus: -1,
	}
	if err := f.loadHook(doc); err != nil {
		return nil, err
	}

	for _, spec := range doc.Fields {
		e, err := f.newEntry(doc, spec)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.entries = append(f.entries, e)
		f.byID[e.ID] = e
	}
	f.doc = doc
	return f, nil
}

func (f *Form) loadHook(doc *config.Document) error {
	path := doc.HookPath()
	if path == "" {
		if old := f.lua.Swap(nil); old != nil {
			old.Close()
		}
		return nil
	}
	if f.doc != nil && f.doc.HookPath() == path && f.lua.Load() != nil {
		return nil
	}

	h, err := hook.LoadLuaHook(path, hook.WithLogger(f.opts.logger))
	if err != nil {
		return err
	}
	if old := f.lua.Swap(h); old != nil {
		old.Close()
	}
	f.opts.logger.Info("hook loaded", zap.String("path", path))
	return nil
}

// beforeChange runs the caller's hook, then the Lua hook.
func (f *Form) beforeChange(next, previous mask.State, entered string, cfg hook.Config) mask.State {
	if f.opts.beforeChange != nil {
		next = f.opts.beforeChange(next, previous, entered, cfg)
	}
	if h := f.lua.Load(); h != nil {
		next = h.Func()(next, previous, entered, cfg)
	}
	return next
}

func (f *Form) newEntry(doc *config.Document, spec config.FieldSpec) (*Entry, error) {
	fopts, err := spec.Options()
	if err != nil {
		return nil, err
	}

	autofill := f.opts.autofill
	if autofill == nil {
		autofill = field.HeuristicFor(doc.UI.Platform)
	}

	e := &Entry{ID: uuid.New(), Spec: spec}
	fopts = append(fopts,
		field.WithLogger(f.opts.logger),
		field.WithAutofill(autofill),
		field.WithScheduler(f.opts.scheduler),
		field.WithBeforeChange(f.beforeChange),
		field.WithOnChange(func(v string) {
			if f.opts.onChange != nil {
				f.opts.onChange(e, v)
			}
		}),
	)

	fld, err := field.New(fopts...)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", spec.Name, err)
	}
	e.Field = fld
	e.Surface = field.NewSurface(fld)
	return e, nil
}

// Entries returns the fields in document order.
func (f *Form) Entries() []*Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Entry(nil), f.entries...)
}

// Lookup returns the field with id.
func (f *Form) Lookup(id uuid.UUID) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoField, id)
	}
	return e, nil
}

// ByName returns the field named name.
func (f *Form) ByName(name string) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.Spec.Name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoField, name)
}

// Focused returns the focused field, or nil.
func (f *Form) Focused() *Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.focus < 0 {
		return nil
	}
	return f.entries[f.focus]
}

// Focus moves focus to the field with id, blurring the previous one.
func (f *Form) Focus(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.focusLocked(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoField, id)
}

// FocusNext moves focus forward, wrapping around.
func (f *Form) FocusNext() (*Entry, error) {
	return f.step(1)
}

// FocusPrev moves focus backward, wrapping around.
func (f *Form) FocusPrev() (*Entry, error) {
	return f.step(-1)
}

func (f *Form) step(delta int) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.entries)
	if n == 0 {
		return nil, ErrEmptyForm
	}
	i := 0
	switch {
	case f.focus >= 0:
		i = ((f.focus+delta)%n + n) % n
	case delta < 0:
		i = n - 1
	}
	f.focusLocked(i)
	return f.entries[i], nil
}

func (f *Form) focusLocked(i int) {
	if f.focus == i {
		return
	}
	if f.focus >= 0 {
		f.entries[f.focus].Surface.Blur()
	}
	f.focus = i
	f.entries[i].Surface.Focus()
}

// Blur removes focus from the form.
func (f *Form) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.focus >= 0 {
		f.entries[f.focus].Surface.Blur()
		f.focus = -1
	}
}

// Values returns every field value keyed by name.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make(map[string]string, len(f.entries))
	for _, e := range f.entries {
		values[e.Spec.Name] = e.Field.Value()
	}
	return values
}

// Apply reconfigures the form from a reloaded document. Fields are
// matched by name and keep their ids and values, re-formatted into any
// new mask. New fields are added, missing ones removed. On error the
// form is left unchanged.
func (f *Form) Apply(doc *config.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := make(map[string]*Entry, len(f.entries))
	for _, e := range f.entries {
		current[e.Spec.Name] = e
	}

	type update struct {
		e    *Entry
		spec config.FieldSpec
		mc   field.MaskConfig
	}
	var updates []update
	var added []*Entry
	discard := func() {
		for _, e := range added {
			e.Field.Close()
		}
	}

	next := make([]*Entry, 0, len(doc.Fields))
	for _, spec := range doc.Fields {
		if e, ok := current[spec.Name]; ok {
			if _, err := spec.Compile(); err != nil {
				discard()
				return err
			}
			mc, _ := spec.MaskConfig()
			updates = append(updates, update{e: e, spec: spec, mc: mc})
			next = append(next, e)
			continue
		}
		e, err := f.newEntry(doc, spec)
		if err != nil {
			discard()
			return err
		}
		added = append(added, e)
		next = append(next, e)
	}

	if err := f.loadHook(doc); err != nil {
		discard()
		return err
	}

	for _, u := range updates {
		if err := u.e.Field.SetMaskConfig(u.mc); err != nil {
			return err
		}
		u.e.Spec = u.spec
	}

	var focused *Entry
	if f.focus >= 0 {
		focused = f.entries[f.focus]
	}
	f.focus = -1
	f.byID = make(map[uuid.UUID]*Entry, len(next))
	for i, e := range next {
		f.byID[e.ID] = e
		if e == focused {
			f.focus = i
		}
	}
	for _, e := range f.entries {
		if _, ok := f.byID[e.ID]; !ok {
			e.Field.Close()
		}
	}

	f.entries = next
	f.doc = doc
	f.opts.logger.Info("form reloaded", zap.Int("fields", len(next)))
	return nil
}

// Close releases the fields and the Lua hook.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		e.Field.Close()
	}
	if h := f.lua.Swap(nil); h != nil {
		h.Close()
	}
}
