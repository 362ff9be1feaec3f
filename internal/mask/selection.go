package mask

import "fmt"

// Selection is a half-open range [Start, End) of rune offsets into a value.
// When Start == End the selection is a plain cursor.
// Selection is an immutable value type.
type Selection struct {
	Start int
	End   int
}

// Cursor returns a collapsed selection at offset.
func Cursor(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Len returns the number of selected runes.
func (s Selection) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Collapsed returns true if the selection has no extent.
func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Normalize returns the selection with Start <= End.
func (s Selection) Normalize() Selection {
	if s.Start <= s.End {
		return s
	}
	return Selection{Start: s.End, End: s.Start}
}

// Clamp returns the selection clamped to [0, max].
func (s Selection) Clamp(max int) Selection {
	return Selection{Start: clamp(s.Start, 0, max), End: clamp(s.End, 0, max)}
}

// Contains returns true if offset lies inside the selection.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.Collapsed() {
		return fmt.Sprintf("Cursor(%d)", s.Start)
	}
	return fmt.Sprintf("Selection(%d:%d)", s.Start, s.End)
}

// State is a snapshot of an editing surface: its value and selection.
type State struct {
	Value     string
	Selection Selection
}

// Len returns the value length in runes.
func (s State) Len() int {
	return runeCount(s.Value)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
