package field

import (
	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/hook"
	"github.com/dshills/inputmask/internal/mask"
	"github.com/dshills/inputmask/internal/schedule"
)

// MaskConfig is the part of a field's configuration that determines its
// compiled mask and display.
type MaskConfig struct {
	Source         mask.Source
	Placeholder    string
	Definitions    mask.Definitions
	AlwaysShowMask bool
}

type fieldOptions struct {
	name         string
	mask         MaskConfig
	value        *string
	defaultValue *string
	maxLength    int
	beforeChange hook.BeforeChangeFunc
	onChange     func(string)
	autofill     AutofillHeuristic
	scheduler    schedule.Scheduler
	logger       *zap.Logger
}

// Option configures a Field.
type Option func(*fieldOptions)

// WithName names the field in logs and hook configuration.
func WithName(name string) Option {
	return func(o *fieldOptions) { o.name = name }
}

// WithMask sets the mask template string.
func WithMask(template string) Option {
	return func(o *fieldOptions) { o.mask.Source = mask.FromString(template) }
}

// WithMaskSource sets the mask from a template string or entry list.
func WithMaskSource(src mask.Source) Option {
	return func(o *fieldOptions) { o.mask.Source = src }
}

// WithPlaceholder sets the placeholder. Empty selects compact mode.
func WithPlaceholder(placeholder string) Option {
	return func(o *fieldOptions) { o.mask.Placeholder = placeholder }
}

// WithMaskChar is the older name of WithPlaceholder.
func WithMaskChar(maskChar string) Option {
	return WithPlaceholder(maskChar)
}

// WithDefinitions replaces the template tokens.
func WithDefinitions(defs mask.Definitions) Option {
	return func(o *fieldOptions) { o.mask.Definitions = defs }
}

// WithAlwaysShowMask keeps the placeholder-filled value visible while the
// field is unfocused and empty.
func WithAlwaysShowMask(show bool) Option {
	return func(o *fieldOptions) { o.mask.AlwaysShowMask = show }
}

// WithValue makes the field controlled with an initial value.
func WithValue(v string) Option {
	return func(o *fieldOptions) { o.value = &v }
}

// WithDefaultValue sets the initial value of an uncontrolled field.
func WithDefaultValue(v string) Option {
	return func(o *fieldOptions) { o.defaultValue = &v }
}

// WithMaxLength bounds unmasked fields. It is ignored with a warning when
// a mask is active.
func WithMaxLength(n int) Option {
	return func(o *fieldOptions) { o.maxLength = n }
}

// WithBeforeChange installs the hook run before every commit.
func WithBeforeChange(fn hook.BeforeChangeFunc) Option {
	return func(o *fieldOptions) { o.beforeChange = fn }
}

// WithOnChange is called with the new value after each committed edit
// that changed it.
func WithOnChange(fn func(string)) Option {
	return func(o *fieldOptions) { o.onChange = fn }
}

// WithAutofill selects the autofill heuristic.
func WithAutofill(h AutofillHeuristic) Option {
	return func(o *fieldOptions) {
		if h != nil {
			o.autofill = h
		}
	}
}

// WithScheduler sets the scheduler used for deferred selection
// reapplication.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *fieldOptions) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *fieldOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
