package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the form definition file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnknownFormat indicates a file extension with no parser.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrNoFields indicates a form definition without fields.
	ErrNoFields = errors.New("no fields defined")

	// ErrMissingName indicates a field without a name.
	ErrMissingName = errors.New("field name is required")

	// ErrDuplicateName indicates two fields with the same name.
	ErrDuplicateName = errors.New("duplicate field name")

	// ErrPlaceholderConflict indicates both maskPlaceholder and the older
	// maskChar were given with different values.
	ErrPlaceholderConflict = errors.New("maskPlaceholder and maskChar differ")

	// ErrInvalidColor indicates a theme color that is not a hex color.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidLogLevel indicates an unknown logging level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// ParseError represents an error while parsing a form definition.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	// Field is the field name, empty for form-level settings.
	Field string
	// Setting is the offending key.
	Setting string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Setting, e.Err)
	}
	return fmt.Sprintf("field %q: %s: %v", e.Field, e.Setting, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
