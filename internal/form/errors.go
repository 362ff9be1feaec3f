package form

import "errors"

var (
	// ErrNoField is returned when a field id or name does not exist.
	ErrNoField = errors.New("no such field")

	// ErrEmptyForm is returned when focus traversal runs on a form with
	// no fields.
	ErrEmptyForm = errors.New("form has no fields")
)
