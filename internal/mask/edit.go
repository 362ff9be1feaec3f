package mask

import "strings"

// ClearRange resets the length runes starting at start and returns the
// re-formatted value. Editable positions revert to the placeholder, or are
// removed in compact mode. Literal positions revert to the template in
// placeholder mode. In compact mode literals inside and after the range are
// dropped so that Format regenerates them in their new place.
func (m *Mask) ClearRange(value string, start, length int) string {
	if !m.Enabled() || length <= 0 {
		return value
	}
	return string(m.clearRange([]rune(value), start, length))
}

func (m *Mask) clearRange(value []rune, start, length int) []rune {
	if length <= 0 {
		return value
	}
	end := start + length
	compact := m.placeholder == nil

	cleared := make([]rune, 0, len(value))
	for i, r := range value {
		editable := m.IsPositionEditable(i)
		switch {
		case compact && i >= end && !editable:
			// regenerated by format
		case i < start || i >= end:
			cleared = append(cleared, r)
		case i >= len(m.slots):
			// outside the template
		case !editable && !compact:
			cleared = append(cleared, m.slots[i].literal)
		case !compact:
			cleared = append(cleared, m.placeholder[i])
		}
	}
	return m.format(cleared)
}

// InsertCharacter inserts the single rune r into value at pos. It is
// InsertString with a one-rune string: the rest of value is kept.
func (m *Mask) InsertCharacter(value string, r rune, pos int) string {
	return m.InsertString(value, string(r), pos)
}

// insertCharacter writes r at pos and returns value[:pos] followed by what
// was written. When pos is a literal that r does not match, the literal is
// written and r is retried at the next position, unless r is the placeholder
// of the next editable slot. A character rejected by an editable slot is
// dropped and value is returned unchanged.
func (m *Mask) insertCharacter(value []rune, r rune, pos int) []rune {
	return m.overwriteCharacter(value, nil, r, pos)
}

// overwriteCharacter is insertCharacter over existing content. A
// placeholder typed into a slot that under already fills keeps the
// filled character: the placeholder only moves past the slot.
func (m *Mask) overwriteCharacter(value, under []rune, r rune, pos int) []rune {
	for {
		if pos >= len(m.slots) {
			return value
		}

		allowed := m.IsCharacterAllowedAtPosition(r, pos)
		editable := m.IsPositionEditable(pos)
		next := m.RightEditablePosition(pos)
		nextIsPlaceholder := m.placeholder != nil && next >= 0 && r == m.placeholder[next]

		if allowed || !editable {
			w := r
			switch {
			case !allowed:
				w = m.slots[pos].literal
			case m.keepsFilled(under, r, pos):
				w = under[pos]
			}
			value = append(cloneRunes(value[:min(pos, len(value))]), w)
		}

		if allowed || editable || nextIsPlaceholder {
			return value
		}
		pos++
	}
}

// keepsFilled reports whether r is a placeholder typed over a slot that
// under fills.
func (m *Mask) keepsFilled(under []rune, r rune, pos int) bool {
	return m.placeholder != nil && pos < len(under) &&
		r == m.placeholder[pos] && !m.IsCharacterFillingPosition(r, pos) &&
		m.IsPositionEditable(pos) && m.IsCharacterFillingPosition(under[pos], pos)
}

// InsertString inserts s into value at pos, walking the template: literals
// are written through, characters rejected by a slot are skipped and the
// next character is tried at the same slot. A placeholder moves past a
// filled slot without clearing it. Insertion stops when the template or s
// is exhausted.
//
// Fixed-length values (placeholder mode, or value already filled) are
// overwritten in place. Otherwise the editable characters after pos are
// reflowed behind the inserted text.
func (m *Mask) InsertString(value, s string, pos int) string {
	if !m.Enabled() {
		return value
	}
	return string(m.insertString([]rune(value), []rune(s), pos))
}

func (m *Mask) insertString(value, s []rune, pos int) []rune {
	if len(s) == 0 || pos >= len(m.slots) {
		return value
	}
	if pos > len(value) {
		pos = len(value)
	}
	if pos < 0 {
		pos = 0
	}

	fixedLength := m.placeholder != nil || m.isFilled(value)
	after := cloneRunes(value[pos:])

	out := cloneRunes(value[:pos])
	for _, r := range s {
		out = m.overwriteCharacter(out, value, r, len(out))
	}

	switch {
	case fixedLength:
		if k := len(out) - pos; k < len(after) {
			out = append(out, after[k:]...)
		}
	case m.isFilled(out):
		out = m.appendLiterals(out)
	default:
		out = m.reflow(out, after, pos)
	}
	return out
}

// appendLiterals appends every remaining template literal after value.
func (m *Mask) appendLiterals(value []rune) []rune {
	for i := len(value); i < len(m.slots); i++ {
		if m.permanent[i] {
			value = append(value, m.slots[i].literal)
		}
	}
	return value
}

// reflow re-inserts the editable characters that followed pos behind value.
func (m *Mask) reflow(value, after []rune, pos int) []rune {
	for i, r := range after {
		if !m.IsPositionEditable(pos + i) {
			continue
		}
		next := m.RightEditablePosition(len(value))
		if next < 0 {
			break
		}
		for len(value) < next {
			value = append(value, m.slots[len(value)].literal)
		}
		value = m.insertCharacter(value, r, len(value))
	}
	return value
}

// FillingLength returns how many template positions s would occupy if
// inserted at pos, literals written through included. Nothing is modified.
func (m *Mask) FillingLength(s string, pos int) int {
	if !m.Enabled() {
		return runeCount(s)
	}
	return m.fillingLength([]rune(s), pos)
}

func (m *Mask) fillingLength(s []rune, pos int) int {
	if pos < 0 {
		pos = 0
	}
	scratch := []rune(strings.Repeat(" ", pos))
	for _, r := range s {
		scratch = m.insertCharacter(scratch, r, len(scratch))
	}
	return len(scratch) - pos
}
