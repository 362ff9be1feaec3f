package hook

import "errors"

var (
	// ErrClosed is returned when calling a closed Lua hook.
	ErrClosed = errors.New("hook is closed")

	// ErrNoFunction is returned when a script does not define the hook
	// function.
	ErrNoFunction = errors.New("hook function not defined")

	// ErrBadResult is returned when the hook function returns something
	// other than a state table or nil.
	ErrBadResult = errors.New("hook returned an invalid state")
)
