package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/inputmask/internal/field"
	"github.com/dshills/inputmask/internal/mask"
)

// Document is a form definition.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string `toml:"-" yaml:"-"`

	Logging Logging     `toml:"logging" yaml:"logging"`
	UI      UI          `toml:"ui" yaml:"ui"`
	Fields  []FieldSpec `toml:"fields" yaml:"fields"`
}

// Logging configures the logger.
type Logging struct {
	Level string `toml:"level" yaml:"level"`
}

// UI configures the interactive host.
type UI struct {
	Theme Theme `toml:"theme" yaml:"theme"`
	// Hook is a Lua script defining before_masked_state_change. Relative
	// paths resolve against the document's directory.
	Hook string `toml:"hook" yaml:"hook"`
	// Platform selects the autofill heuristic.
	Platform string `toml:"platform" yaml:"platform"`
}

// Theme holds hex colors.
type Theme struct {
	Label       string `toml:"label" yaml:"label"`
	Field       string `toml:"field" yaml:"field"`
	Placeholder string `toml:"placeholder" yaml:"placeholder"`
	Focus       string `toml:"focus" yaml:"focus"`
}

// FieldSpec defines one masked field.
type FieldSpec struct {
	Name  string `toml:"name" yaml:"name"`
	Label string `toml:"label" yaml:"label"`
	Mask  string `toml:"mask" yaml:"mask"`

	// MaskPlaceholder is a single character or a string as long as the
	// mask. Nil or empty selects compact mode.
	MaskPlaceholder *string `toml:"maskPlaceholder" yaml:"maskPlaceholder"`
	// MaskChar is the older name of MaskPlaceholder.
	MaskChar *string `toml:"maskChar" yaml:"maskChar"`

	AlwaysShowMask bool              `toml:"alwaysShowMask" yaml:"alwaysShowMask"`
	DefaultValue   string            `toml:"defaultValue" yaml:"defaultValue"`
	MaxLength      int               `toml:"maxLength" yaml:"maxLength"`
	Definitions    map[string]string `toml:"definitions" yaml:"definitions"`
}

// Defaults returns the built-in settings layer.
func Defaults() Document {
	return Document{
		Logging: Logging{Level: "info"},
		UI: UI{
			Theme: Theme{
				Label:       "#a9b1d6",
				Field:       "#c0caf5",
				Placeholder: "#565f89",
				Focus:       "#7aa2f7",
			},
			Platform: "desktop",
		},
	}
}

// Placeholder resolves maskPlaceholder and maskChar.
func (s FieldSpec) Placeholder() (string, error) {
	switch {
	case s.MaskPlaceholder != nil && s.MaskChar != nil && *s.MaskPlaceholder != *s.MaskChar:
		return "", ErrPlaceholderConflict
	case s.MaskPlaceholder != nil:
		return *s.MaskPlaceholder, nil
	case s.MaskChar != nil:
		return *s.MaskChar, nil
	}
	return "", nil
}

// MaskConfig returns the field's mask configuration.
func (s FieldSpec) MaskConfig() (field.MaskConfig, error) {
	placeholder, err := s.Placeholder()
	if err != nil {
		return field.MaskConfig{}, &ValidationError{Field: s.Name, Setting: "maskPlaceholder", Err: err}
	}

	var defs mask.Definitions
	if len(s.Definitions) > 0 {
		parsed, err := mask.ParseDefinitions(s.Definitions)
		if err != nil {
			return field.MaskConfig{}, &ValidationError{Field: s.Name, Setting: "definitions", Err: err}
		}
		defs = parsed
	}

	return field.MaskConfig{
		Source:         mask.FromString(s.Mask),
		Placeholder:    placeholder,
		Definitions:    defs,
		AlwaysShowMask: s.AlwaysShowMask,
	}, nil
}

// Options returns the field options for s. Callers add host options
// such as the logger and scheduler.
func (s FieldSpec) Options() ([]field.Option, error) {
	mc, err := s.MaskConfig()
	if err != nil {
		return nil, err
	}
	opts := []field.Option{
		field.WithName(s.Name),
		field.WithMaskSource(mc.Source),
		field.WithPlaceholder(mc.Placeholder),
		field.WithDefinitions(mc.Definitions),
		field.WithAlwaysShowMask(mc.AlwaysShowMask),
		field.WithMaxLength(s.MaxLength),
	}
	if s.DefaultValue != "" {
		opts = append(opts, field.WithDefaultValue(s.DefaultValue))
	}
	return opts, nil
}

// DisplayLabel returns the label, or the name when no label is set.
func (s FieldSpec) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Field returns the field with the given name.
func (d *Document) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// HookPath returns the hook script path resolved against the document's
// directory, or "" when no hook is configured.
func (d *Document) HookPath() string {
	if d.UI.Hook == "" || filepath.IsAbs(d.UI.Hook) || d.Path == "" {
		return d.UI.Hook
	}
	return filepath.Join(filepath.Dir(d.Path), d.UI.Hook)
}

// Load reads, overlays and validates a form definition from the OS file
// system.
func Load(path string) (*Document, error) {
	return LoadFS(DefaultFS(), path)
}

// LoadFS is Load with a custom file system.
func LoadFS(fsys FileSystem, path string) (*Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(path, format, data)
	if err != nil {
		return nil, err
	}

	ApplyEnv(doc, os.LookupEnv)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Format names a document syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// FileSystem is an abstraction for reading configuration files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// MapFS is an in-memory FileSystem keyed by path.
type MapFS map[string][]byte

// ReadFile returns the contents stored for path.
func (m MapFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}
