package mask

import (
	"strings"
	"unicode/utf8"
)

const escapeRune = '\\'

// Entry is one slot of an entry-list mask: a fixed literal or a class.
type Entry struct {
	Literal rune
	Class   Class
}

// Lit returns a literal entry.
func Lit(r rune) Entry {
	return Entry{Literal: r}
}

// Slot returns an editable entry governed by c.
func Slot(c Class) Entry {
	return Entry{Class: c}
}

// Source is the uncompiled form of a mask: a template string using token
// characters, or a prebuilt list of entries. An empty Source disables masking.
type Source struct {
	Template string
	Entries  []Entry
}

// FromString returns a template-string source.
func FromString(template string) Source {
	return Source{Template: template}
}

// FromEntries returns an entry-list source.
func FromEntries(entries ...Entry) Source {
	return Source{Entries: entries}
}

// IsZero reports whether the source describes no mask at all.
func (s Source) IsZero() bool {
	return s.Template == "" && len(s.Entries) == 0
}

type slot struct {
	literal rune
	class   Class
}

// Mask is a compiled mask template. It is immutable after compilation and
// safe for concurrent use; every operation takes and returns explicit values.
type Mask struct {
	source       string
	slots        []slot
	permanent    []bool
	prefix       []rune
	lastEditable int
	placeholder  []rune
}

// Parse compiles a template string.
func Parse(template string, opts ...Option) (*Mask, error) {
	return Compile(FromString(template), opts...)
}

// MustParse is like Parse but panics on error.
func MustParse(template string, opts ...Option) *Mask {
	m, err := Parse(template, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Compile compiles a mask source. An empty source yields a disabled mask,
// which is valid and formats values unchanged.
func Compile(src Source, opts ...Option) (*Mask, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Mask{lastEditable: -1}

	var err error
	switch {
	case len(src.Entries) > 0:
		err = m.compileEntries(src.Entries)
	case src.Template != "":
		err = m.compileTemplate(src.Template, o.definitions)
	default:
		return m, nil
	}
	if err != nil {
		return nil, err
	}

	m.resolvePrefix()
	if err := m.resolvePlaceholder(o.placeholder); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mask) compileTemplate(template string, defs Definitions) error {
	m.source = template
	escaped := false
	for _, r := range []rune(template) {
		if !escaped && r == escapeRune {
			escaped = true
			continue
		}
		class, ok := defs[r]
		if escaped || !ok {
			m.addLiteral(r)
		} else {
			m.addClass(class)
		}
		escaped = false
	}
	if escaped {
		return &SyntaxError{Mask: template, Pos: utf8.RuneCountInString(template) - 1, Err: ErrDanglingEscape}
	}
	return nil
}

func (m *Mask) compileEntries(entries []Entry) error {
	var sb strings.Builder
	for i, e := range entries {
		switch {
		case e.Class != nil:
			m.addClass(e.Class)
			sb.WriteString(e.Class.String())
		case e.Literal != 0:
			m.addLiteral(e.Literal)
			sb.WriteRune(e.Literal)
		default:
			return &SyntaxError{Mask: sb.String(), Pos: i, Err: ErrEmptyEntry}
		}
	}
	m.source = sb.String()
	return nil
}

func (m *Mask) addLiteral(r rune) {
	m.slots = append(m.slots, slot{literal: r})
	m.permanent = append(m.permanent, true)
}

func (m *Mask) addClass(c Class) {
	m.lastEditable = len(m.slots)
	m.slots = append(m.slots, slot{class: c})
	m.permanent = append(m.permanent, false)
}

// resolvePrefix records the literal run anchored at position 0.
func (m *Mask) resolvePrefix() {
	for i, s := range m.slots {
		if !m.permanent[i] {
			break
		}
		m.prefix = append(m.prefix, s.literal)
	}
}

func (m *Mask) resolvePlaceholder(placeholder string) error {
	if placeholder == "" {
		return nil
	}
	src := []rune(placeholder)
	n := len(m.slots)
	switch len(src) {
	case 1:
		m.placeholder = make([]rune, n)
		for i := range m.placeholder {
			m.placeholder[i] = src[0]
		}
	case n:
		m.placeholder = append([]rune(nil), src...)
	default:
		return &SyntaxError{Mask: m.source, Pos: len(src), Err: ErrPlaceholderLength}
	}
	for i, s := range m.slots {
		if m.permanent[i] {
			m.placeholder[i] = s.literal
		}
	}
	return nil
}

// Enabled reports whether the mask has a template. A disabled mask passes
// values through unchanged.
func (m *Mask) Enabled() bool {
	return m != nil && len(m.slots) > 0
}

// Len returns the template length in runes.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return len(m.slots)
}

// Source returns the template the mask was compiled from.
func (m *Mask) Source() string {
	return m.source
}

// Prefix returns the literal run at the start of the template.
func (m *Mask) Prefix() string {
	return string(m.prefix)
}

// PrefixLen returns the prefix length in runes.
func (m *Mask) PrefixLen() int {
	return len(m.prefix)
}

// LastEditablePosition returns the highest editable index, or -1 when the
// template has no editable slot.
func (m *Mask) LastEditablePosition() int {
	return m.lastEditable
}

// HasPlaceholder reports whether unfilled slots are shown (fixed-length mode).
func (m *Mask) HasPlaceholder() bool {
	return m.placeholder != nil
}

// Placeholder returns the fully expanded placeholder, or "" in compact mode.
func (m *Mask) Placeholder() string {
	return string(m.placeholder)
}

// IsPermanent reports whether pos holds a literal.
func (m *Mask) IsPermanent(pos int) bool {
	return pos >= 0 && pos < len(m.slots) && m.permanent[pos]
}

// Literal returns the literal at pos and whether pos is permanent.
func (m *Mask) Literal(pos int) (rune, bool) {
	if !m.IsPermanent(pos) {
		return 0, false
	}
	return m.slots[pos].literal, true
}

// ClassAt returns the class governing pos, or nil for literal or
// out-of-range positions.
func (m *Mask) ClassAt(pos int) Class {
	if pos < 0 || pos >= len(m.slots) {
		return nil
	}
	return m.slots[pos].class
}

// Permanents returns the indices of all literal positions.
func (m *Mask) Permanents() []int {
	var out []int
	for i, p := range m.permanent {
		if p {
			out = append(out, i)
		}
	}
	return out
}

// String returns the source template.
func (m *Mask) String() string {
	if !m.Enabled() {
		return "<no mask>"
	}
	return m.source
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
