package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/inputmask/internal/form"
)

const (
	marginLeft = 2
	marginTop  = 1
	rowGap     = 2
	labelGap   = 2
)

const help = "tab next  shift-tab previous  ctrl-a select all  ctrl-c quit"

// valueColumn returns the x coordinate where field values start.
func valueColumn(entries []*form.Entry) int {
	width := 0
	for _, e := range entries {
		width = max(width, uniseg.StringWidth(e.Label()))
	}
	return marginLeft + width + labelGap
}

func (a *App) draw() {
	s := a.screen
	s.Clear()
	s.HideCursor()

	entries := a.form.Entries()
	focused := a.form.Focused()
	col := valueColumn(entries)

	for i, e := range entries {
		y := marginTop + i*rowGap
		style := a.theme.Label
		if e == focused {
			style = a.theme.Focus
		}
		drawString(s, marginLeft, y, e.Label(), style)
		a.drawValue(col, y, e, e == focused)
	}

	_, h := s.Size()
	status := a.status
	if status == "" {
		status = help
	}
	drawString(s, marginLeft, h-1, status, a.theme.Status)
	s.Show()
}

// drawValue draws the surface value of e, styling unfilled editable slots
// with the placeholder color, and places the cursor when e has focus.
func (a *App) drawValue(x, y int, e *form.Entry, focused bool) {
	st := e.Surface.State()
	m := e.Field.Mask()
	sel := st.Selection.Normalize()

	cursor := -1
	value := []rune(st.Value)
	for i, r := range value {
		if i == sel.Start {
			cursor = x
		}
		style := a.theme.Field
		if m.IsPositionEditable(i) && !m.IsCharacterFillingPosition(r, i) {
			style = a.theme.Placeholder
		}
		if focused && sel.Contains(i) {
			style = a.theme.Selection
		}
		x = putRune(a.screen, x, y, r, style)
	}
	if cursor < 0 {
		cursor = x
	}
	if focused {
		a.screen.ShowCursor(cursor, y)
	}
}

func putRune(s tcell.Screen, x, y int, r rune, style tcell.Style) int {
	s.SetContent(x, y, r, nil, style)
	return x + max(uniseg.StringWidth(string(r)), 1)
}

// drawString draws str one grapheme cluster per cell run and returns the
// next free column.
func drawString(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
	return x
}
