// Package hook implements the last step before a masked field commits a
// state: a caller-supplied function that may override the value and
// selection the engine produced.
package hook

import "github.com/dshills/inputmask/internal/mask"

// Config describes the field a hook runs for.
type Config struct {
	Mask           string
	Placeholder    string
	AlwaysShowMask bool
}

// BeforeChangeFunc receives the engine's next state, the previously
// committed state, the text the user entered ("" when nothing was
// inserted) and the field configuration. Its return value is committed
// as is.
type BeforeChangeFunc func(next, previous mask.State, entered string, cfg Config) mask.State

// Chain runs hooks in order, each receiving the state returned by the
// one before it. Nil hooks are skipped.
func Chain(hooks ...BeforeChangeFunc) BeforeChangeFunc {
	return func(next, previous mask.State, entered string, cfg Config) mask.State {
		for _, h := range hooks {
			if h != nil {
				next = h(next, previous, entered, cfg)
			}
		}
		return next
	}
}

// Identity returns next unchanged.
func Identity(next, _ mask.State, _ string, _ Config) mask.State {
	return next
}
