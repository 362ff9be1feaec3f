package mask

import (
	"fmt"
	"regexp"
	"unicode"
)

// Class decides whether a single character may occupy an editable slot.
type Class interface {
	Match(r rune) bool
	String() string
}

// ClassFunc adapts a predicate to the Class interface.
type ClassFunc struct {
	Name string
	Fn   func(r rune) bool
}

// Match implements Class.
func (c ClassFunc) Match(r rune) bool {
	return c.Fn != nil && c.Fn(r)
}

func (c ClassFunc) String() string {
	return c.Name
}

// Built-in classes bound to the default template tokens.
var (
	// Digit accepts 0-9.
	Digit Class = ClassFunc{Name: "[0-9]", Fn: func(r rune) bool { return r >= '0' && r <= '9' }}

	// Letter accepts any Unicode letter.
	Letter Class = ClassFunc{Name: "[letter]", Fn: unicode.IsLetter}

	// Alnum accepts any Unicode letter or 0-9.
	Alnum Class = ClassFunc{Name: "[letter0-9]", Fn: func(r rune) bool {
		return unicode.IsLetter(r) || (r >= '0' && r <= '9')
	}}
)

// patternClass matches a rune against a compiled regular expression.
type patternClass struct {
	re *regexp.Regexp
}

// Pattern compiles expr into a Class. The expression is anchored so it is
// tested against exactly one character.
func Pattern(expr string) (Class, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, expr, err)
	}
	return patternClass{re: re}, nil
}

// MustPattern is like Pattern but panics on an invalid expression.
func MustPattern(expr string) Class {
	c, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return c
}

func (p patternClass) Match(r rune) bool {
	return p.re.MatchString(string(r))
}

func (p patternClass) String() string {
	return p.re.String()
}

// Definitions maps template tokens to the class they stand for.
type Definitions map[rune]Class

// DefaultDefinitions returns the standard token set: 9, a and *.
func DefaultDefinitions() Definitions {
	return Definitions{
		'9': Digit,
		'a': Letter,
		'*': Alnum,
	}
}

// ParseDefinitions builds Definitions from token → pattern pairs on top of
// the default set. Each token must be a single character.
func ParseDefinitions(patterns map[string]string) (Definitions, error) {
	defs := DefaultDefinitions()
	for token, expr := range patterns {
		runes := []rune(token)
		if len(runes) != 1 {
			return nil, fmt.Errorf("definition token %q must be a single character", token)
		}
		if runes[0] == escapeRune {
			return nil, fmt.Errorf("definition token %q is reserved", token)
		}
		c, err := Pattern(expr)
		if err != nil {
			return nil, err
		}
		defs[runes[0]] = c
	}
	return defs, nil
}
