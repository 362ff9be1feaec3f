package mask

import (
	"errors"
	"fmt"
)

// Errors returned while compiling a mask.
var (
	// ErrDanglingEscape indicates a template ends with an unpaired escape character.
	ErrDanglingEscape = errors.New("dangling escape at end of mask")

	// ErrPlaceholderLength indicates a placeholder that is neither a single
	// character nor exactly as long as the mask.
	ErrPlaceholderLength = errors.New("placeholder length does not match mask")

	// ErrEmptyEntry indicates an entry list element with neither a literal nor a class.
	ErrEmptyEntry = errors.New("mask entry has no literal or class")

	// ErrInvalidPattern indicates a character class pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid character class pattern")
)

// SyntaxError reports a malformed mask template at a rune position.
type SyntaxError struct {
	Mask string
	Pos  int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("mask %q at position %d: %v", e.Mask, e.Pos, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
