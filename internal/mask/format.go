package mask

// Format returns the canonical display form of value.
//
// With a placeholder the result is always exactly Len() runes long: value is
// inserted into the placeholder from position 0. In compact mode the value is
// inserted into an empty string, stale trailing literals beyond the filled
// length are dropped, the prefix is restored if nothing remains, and the
// literal run directly after the content is regenerated.
//
// Format is idempotent. A disabled mask returns value unchanged.
func (m *Mask) Format(value string) string {
	if !m.Enabled() {
		return value
	}
	return string(m.format([]rune(value)))
}

func (m *Mask) format(value []rune) []rune {
	if m.placeholder != nil {
		return m.insertString(cloneRunes(m.placeholder), value, 0)
	}

	out := m.insertString(nil, value, 0)
	out = out[:m.filledLength(out)]
	if len(out) < len(m.prefix) {
		out = cloneRunes(m.prefix)
	}
	return m.appendLiteralRun(out)
}

// appendLiteralRun appends template literals while the next position is permanent.
func (m *Mask) appendLiteralRun(value []rune) []rune {
	for len(value) < len(m.slots) && m.permanent[len(value)] {
		value = append(value, m.slots[len(value)].literal)
	}
	return value
}

// EmptyValue returns the formatted form of "".
func (m *Mask) EmptyValue() string {
	return m.Format("")
}

func cloneRunes(r []rune) []rune {
	if r == nil {
		return nil
	}
	out := make([]rune, len(r))
	copy(out, r)
	return out
}
