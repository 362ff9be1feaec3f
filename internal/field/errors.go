package field

import "errors"

var (
	// ErrControlledConflict is returned when a field is given both a
	// controlled value and a default value.
	ErrControlledConflict = errors.New("field has both value and defaultValue")

	// ErrInvalidMask wraps mask compilation failures.
	ErrInvalidMask = errors.New("invalid mask")
)
