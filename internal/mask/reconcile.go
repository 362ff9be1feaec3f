package mask

// Result is the canonical state produced by ProcessChange.
type Result struct {
	Value     string
	Selection Selection

	// Entered is the raw text the edit inserted. Empty means no insertion.
	Entered string
}

// State returns the value and selection as a State.
func (r Result) State() State {
	return State{Value: r.Value, Selection: r.Selection}
}

// ChangeRecord describes what an edit entered and removed.
type ChangeRecord struct {
	Current  State
	Previous State
	Entered  string
	Removed  string
}

// change is the diff between two surface snapshots.
type change struct {
	cursor  int
	entered []rune
	filling int
	removed int
}

// diff infers the entered text and removed length from a raw surface state
// and the last canonical state.
func (m *Mask) diff(value []rune, sel Selection, previous []rune, psel Selection) change {
	c := change{cursor: min(psel.Start, sel.Start)}
	if c.cursor < 0 {
		c.cursor = 0
	}

	switch {
	case sel.End > psel.Start:
		start := clamp(psel.Start, 0, len(value))
		end := clamp(sel.End, start, len(value))
		c.entered = value[start:end]
		c.filling = m.fillingLength(c.entered, c.cursor)
		if c.filling > 0 {
			c.removed = psel.Len()
		}
	case len(value) < len(previous):
		c.removed = len(previous) - len(value)
	}

	// A single character removed without a selection: Delete keeps the
	// cursor in place, Backspace moves it back by one.
	if c.removed == 1 && psel.Len() == 0 {
		if psel.Start == sel.Start {
			c.cursor = m.RightEditablePosition(sel.Start)
		} else {
			c.cursor = m.LeftEditablePosition(sel.Start)
		}
		if c.cursor < 0 {
			c.cursor = clamp(sel.Start, 0, len(previous))
			c.removed = 0
		}
	}
	return c
}

// ProcessChange reconciles a raw surface edit against the last canonical
// state. current is the value and selection the surface reports after the
// native edit; previous is the canonical state before it. The edit is
// replayed on previous.Value, never on the raw value, and the result is
// formatted with the cursor collapsed at the end of the inserted text.
func (m *Mask) ProcessChange(current, previous State) Result {
	if !m.Enabled() {
		return Result{Value: current.Value, Selection: current.Selection, Entered: rawEntered(current, previous)}
	}

	value := []rune(current.Value)
	prev := []rune(previous.Value)
	c := m.diff(value, current.Selection, prev, previous.Selection)

	next := prev
	if c.removed > 0 {
		next = m.clearRange(next, c.cursor, c.removed)
	}
	next = m.insertString(next, c.entered, c.cursor)

	cursor := c.cursor + c.filling
	switch {
	case cursor >= len(m.slots):
		cursor = len(m.slots)
	case cursor < len(m.prefix) && c.filling == 0:
		cursor = len(m.prefix)
	case cursor >= len(m.prefix) && cursor < m.lastEditable && c.filling > 0:
		cursor = m.RightEditablePosition(cursor)
	}

	next = m.format(next)
	if cursor > len(next) {
		cursor = len(next)
	}

	return Result{
		Value:     string(next),
		Selection: Cursor(cursor),
		Entered:   string(c.entered),
	}
}

// Describe returns the entered and removed text ProcessChange would infer
// for the pair of states.
func (m *Mask) Describe(current, previous State) ChangeRecord {
	rec := ChangeRecord{Current: current, Previous: previous}
	if !m.Enabled() {
		rec.Entered = rawEntered(current, previous)
		return rec
	}

	prev := []rune(previous.Value)
	c := m.diff([]rune(current.Value), current.Selection, prev, previous.Selection)
	rec.Entered = string(c.entered)
	if c.removed > 0 {
		start := clamp(c.cursor, 0, len(prev))
		end := clamp(start+c.removed, start, len(prev))
		rec.Removed = string(prev[start:end])
	}
	return rec
}

// rawEntered returns the text between the previous selection start and the
// current selection end, the span a native edit inserts into.
func rawEntered(current, previous State) string {
	value := []rune(current.Value)
	if current.Selection.End <= previous.Selection.Start {
		return ""
	}
	start := clamp(previous.Selection.Start, 0, len(value))
	end := clamp(current.Selection.End, start, len(value))
	return string(value[start:end])
}
