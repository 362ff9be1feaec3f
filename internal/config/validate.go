package config

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/inputmask/internal/mask"
)

var errNegative = errors.New("must not be negative")

// Validate checks every setting. The first configuration error is
// returned as a *ValidationError.
func (d *Document) Validate() error {
	if _, err := zapcore.ParseLevel(d.Logging.Level); err != nil {
		return &ValidationError{Setting: "logging.level", Err: fmt.Errorf("%w: %q", ErrInvalidLogLevel, d.Logging.Level)}
	}

	colors := []struct {
		setting, value string
	}{
		{"ui.theme.label", d.UI.Theme.Label},
		{"ui.theme.field", d.UI.Theme.Field},
		{"ui.theme.placeholder", d.UI.Theme.Placeholder},
		{"ui.theme.focus", d.UI.Theme.Focus},
	}
	for _, c := range colors {
		if c.value == "" {
			continue
		}
		if _, err := colorful.Hex(c.value); err != nil {
			return &ValidationError{Setting: c.setting, Err: fmt.Errorf("%w: %q", ErrInvalidColor, c.value)}
		}
	}

	if len(d.Fields) == 0 {
		return &ValidationError{Setting: "fields", Err: ErrNoFields}
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		if f.Name == "" {
			return &ValidationError{Setting: fmt.Sprintf("fields[%d].name", i), Err: ErrMissingName}
		}
		if seen[f.Name] {
			return &ValidationError{Field: f.Name, Setting: "name", Err: ErrDuplicateName}
		}
		seen[f.Name] = true

		if f.MaxLength < 0 {
			return &ValidationError{Field: f.Name, Setting: "maxLength", Err: errNegative}
		}
		if _, err := f.Compile(); err != nil {
			return err
		}
	}
	return nil
}

// Compile compiles the field's mask.
func (s FieldSpec) Compile() (*mask.Mask, error) {
	mc, err := s.MaskConfig()
	if err != nil {
		return nil, err
	}
	m, err := mask.Compile(mc.Source, mask.WithPlaceholder(mc.Placeholder), mask.WithDefinitions(mc.Definitions))
	if err != nil {
		return nil, &ValidationError{Field: s.Name, Setting: "mask", Err: err}
	}
	return m, nil
}

// Warnings returns advisory problems that do not prevent loading.
func (d *Document) Warnings() []string {
	var warnings []string
	for _, f := range d.Fields {
		m, err := f.Compile()
		if err != nil || !m.Enabled() {
			continue
		}
		if f.MaxLength > 0 {
			warnings = append(warnings, fmt.Sprintf("field %q: maxLength %d is ignored because mask %q bounds the value to %d characters",
				f.Name, f.MaxLength, f.Mask, m.Len()))
		}
		if f.DefaultValue != "" && m.IsValueEmpty(m.Format(f.DefaultValue)) {
			warnings = append(warnings, fmt.Sprintf("field %q: defaultValue %q has no characters accepted by mask %q",
				f.Name, f.DefaultValue, f.Mask))
		}
	}
	return warnings
}
