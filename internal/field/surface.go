package field

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/inputmask/internal/mask"
)

var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// Surface models a single-line text box bound to a Field. Each native
// edit changes the raw value the way a text box does, then hands the raw
// state to the field for reconciliation and displays what it commits.
//
// Entered text is NFC-normalized so that a base rune and its combining
// marks occupy one slot.
type Surface struct {
	f *Field

	mu    sync.Mutex
	value []rune
	sel   mask.Selection

	// ResetSelectionOnWrite moves the caret to the end whenever the value
	// is written, as some platforms do. The field's deferred reapplication
	// restores the committed selection.
	ResetSelectionOnWrite bool
}

// NewSurface binds a surface to f and loads its committed state.
func NewSurface(f *Field) *Surface {
	s := &Surface{f: f}
	s.load(f.State(), false)
	f.setWriter(func(st mask.State) { s.load(st, false) })
	return s
}

func (s *Surface) load(st mask.State, reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = []rune(st.Value)
	if reset {
		s.sel = mask.Cursor(len(s.value))
	} else {
		s.sel = st.Selection.Clamp(len(s.value))
	}
}

// write displays a committed state.
func (s *Surface) write(st mask.State) mask.State {
	s.load(st, s.ResetSelectionOnWrite)
	return st
}

// State returns what the surface currently shows.
func (s *Surface) State() mask.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mask.State{Value: string(s.value), Selection: s.sel}
}

// Field returns the bound field.
func (s *Surface) Field() *Field { return s.f }

// Focus focuses the field.
func (s *Surface) Focus() mask.State {
	return s.write(s.f.Focus())
}

// Blur unfocuses the field.
func (s *Surface) Blur() mask.State {
	return s.write(s.f.Blur())
}

// Type replaces the selection with text.
func (s *Surface) Type(text string) mask.State {
	text = norm.NFC.String(text)

	s.mu.Lock()
	sel := s.sel.Normalize()
	ins := []rune(text)
	if limit := s.f.MaxLength(); limit > 0 {
		room := limit - (len(s.value) - sel.Len())
		if room < 0 {
			room = 0
		}
		if len(ins) > room {
			ins = ins[:room]
		}
	}
	raw := splice(s.value, sel.Start, sel.End, ins)
	cursor := sel.Start + len(ins)
	s.mu.Unlock()

	return s.input(mask.State{Value: string(raw), Selection: mask.Cursor(cursor)})
}

// Paste inserts clipboard text. Line breaks are dropped.
func (s *Surface) Paste(text string) mask.State {
	return s.Type(lineBreaks.Replace(text))
}

// Backspace deletes the selection, or the rune before the caret.
func (s *Surface) Backspace() mask.State {
	s.mu.Lock()
	sel := s.sel.Normalize()
	if sel.Collapsed() {
		if sel.Start == 0 {
			s.mu.Unlock()
			return s.State()
		}
		sel.Start--
	}
	raw := splice(s.value, sel.Start, sel.End, nil)
	s.mu.Unlock()

	return s.input(mask.State{Value: string(raw), Selection: mask.Cursor(sel.Start)})
}

// Delete deletes the selection, or the rune after the caret.
func (s *Surface) Delete() mask.State {
	s.mu.Lock()
	sel := s.sel.Normalize()
	if sel.Collapsed() {
		if sel.End >= len(s.value) {
			s.mu.Unlock()
			return s.State()
		}
		sel.End++
	}
	raw := splice(s.value, sel.Start, sel.End, nil)
	s.mu.Unlock()

	return s.input(mask.State{Value: string(raw), Selection: mask.Cursor(sel.Start)})
}

// Autofill replaces the whole value the way a browser autofill does,
// leaving the caret at the end.
func (s *Surface) Autofill(text string) mask.State {
	raw := []rune(norm.NFC.String(text))
	return s.input(mask.State{Value: string(raw), Selection: mask.Cursor(len(raw))})
}

func (s *Surface) input(raw mask.State) mask.State {
	return s.write(s.f.Input(raw))
}

// SetSelection selects [sel.Start, sel.End).
func (s *Surface) SetSelection(sel mask.Selection) mask.State {
	s.mu.Lock()
	s.sel = sel.Normalize().Clamp(len(s.value))
	sel = s.sel
	s.mu.Unlock()

	s.f.Select(sel)
	return s.State()
}

// SelectAll selects the whole value.
func (s *Surface) SelectAll() mask.State {
	s.mu.Lock()
	n := len(s.value)
	s.mu.Unlock()
	return s.SetSelection(mask.Selection{Start: 0, End: n})
}

// MoveLeft collapses the selection to its start, or moves the caret left.
func (s *Surface) MoveLeft() mask.State {
	sel := s.State().Selection
	if sel.Collapsed() {
		return s.SetSelection(mask.Cursor(sel.Start - 1))
	}
	return s.SetSelection(mask.Cursor(sel.Start))
}

// MoveRight collapses the selection to its end, or moves the caret right.
func (s *Surface) MoveRight() mask.State {
	sel := s.State().Selection
	if sel.Collapsed() {
		return s.SetSelection(mask.Cursor(sel.End + 1))
	}
	return s.SetSelection(mask.Cursor(sel.End))
}

// Home moves the caret to the start.
func (s *Surface) Home() mask.State {
	return s.SetSelection(mask.Cursor(0))
}

// End moves the caret to the end.
func (s *Surface) End() mask.State {
	return s.SetSelection(mask.Cursor(len(s.State().Value)))
}

func splice(v []rune, start, end int, ins []rune) []rune {
	out := make([]rune, 0, len(v)-(end-start)+len(ins))
	out = append(out, v[:start]...)
	out = append(out, ins...)
	return append(out, v[end:]...)
}
