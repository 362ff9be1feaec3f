package mask

// DefaultPlaceholder is the placeholder character used by WithDefaultPlaceholder.
const DefaultPlaceholder = "_"

type options struct {
	definitions Definitions
	placeholder string
}

func defaultOptions() options {
	return options{definitions: DefaultDefinitions()}
}

// Option configures mask compilation.
type Option func(*options)

// WithPlaceholder sets the placeholder: a single character repeated over
// every editable slot, or a string exactly as long as the mask. An empty
// string selects compact mode.
func WithPlaceholder(placeholder string) Option {
	return func(o *options) {
		o.placeholder = placeholder
	}
}

// WithDefaultPlaceholder shows "_" in unfilled slots.
func WithDefaultPlaceholder() Option {
	return WithPlaceholder(DefaultPlaceholder)
}

// WithoutPlaceholder selects compact mode, where unfilled trailing slots are
// omitted.
func WithoutPlaceholder() Option {
	return WithPlaceholder("")
}

// WithDefinitions replaces the token set used to read template strings.
func WithDefinitions(defs Definitions) Option {
	return func(o *options) {
		if defs != nil {
			o.definitions = defs
		}
	}
}
