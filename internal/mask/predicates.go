package mask

// IsPositionEditable reports whether pos is inside the template and not a literal.
func (m *Mask) IsPositionEditable(pos int) bool {
	return pos >= 0 && pos < len(m.slots) && !m.permanent[pos]
}

// IsCharacterFillingPosition reports whether r is real content at pos: the
// literal itself for permanent positions, a class match otherwise.
func (m *Mask) IsCharacterFillingPosition(r rune, pos int) bool {
	if pos < 0 || pos >= len(m.slots) {
		return false
	}
	s := m.slots[pos]
	if m.permanent[pos] {
		return r == s.literal
	}
	return s.class.Match(r)
}

// IsCharacterAllowedAtPosition is IsCharacterFillingPosition extended with
// the placeholder character of pos, when a placeholder is configured.
func (m *Mask) IsCharacterAllowedAtPosition(r rune, pos int) bool {
	if m.IsCharacterFillingPosition(r, pos) {
		return true
	}
	return m.placeholder != nil && pos >= 0 && pos < len(m.placeholder) && m.placeholder[pos] == r
}

// IsValueEmpty reports whether no editable position of value holds content.
func (m *Mask) IsValueEmpty(value string) bool {
	return m.filledLength([]rune(value)) == 0
}

// IsValueFilled reports whether every editable position up to the last one
// holds content.
func (m *Mask) IsValueFilled(value string) bool {
	return m.isFilled([]rune(value))
}

// FilledLength returns one past the last editable position holding content,
// or 0 when there is none.
func (m *Mask) FilledLength(value string) int {
	return m.filledLength([]rune(value))
}

// LeftEditablePosition returns the nearest editable position at or before
// pos, or -1.
func (m *Mask) LeftEditablePosition(pos int) int {
	if pos >= len(m.slots) {
		pos = len(m.slots) - 1
	}
	for i := pos; i >= 0; i-- {
		if m.IsPositionEditable(i) {
			return i
		}
	}
	return -1
}

// RightEditablePosition returns the nearest editable position at or after
// pos, or -1.
func (m *Mask) RightEditablePosition(pos int) int {
	if pos < 0 {
		pos = 0
	}
	for i := pos; i < len(m.slots); i++ {
		if m.IsPositionEditable(i) {
			return i
		}
	}
	return -1
}

// DefaultSelection returns the cursor a host should show when focusing a
// field holding value: the first editable position after the content.
func (m *Mask) DefaultSelection(value string) Selection {
	if !m.Enabled() {
		return Cursor(runeCount(value))
	}
	pos := m.RightEditablePosition(m.FilledLength(value))
	if pos < 0 {
		pos = runeCount(value)
	}
	return Cursor(pos)
}

func (m *Mask) filledLength(value []rune) int {
	for i := len(value) - 1; i >= 0; i-- {
		if m.IsPositionEditable(i) && m.IsCharacterFillingPosition(value[i], i) {
			return i + 1
		}
	}
	return 0
}

func (m *Mask) isFilled(value []rune) bool {
	return m.filledLength(value) == m.lastEditable+1
}
