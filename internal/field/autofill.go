package field

import (
	"strings"

	"github.com/dshills/inputmask/internal/mask"
)

// AutofillHeuristic decides whether a raw surface state was produced by
// autofill or another whole-value replacement rather than a native edit.
// Autofilled input is reconciled against the empty formatted value so the
// entire string is treated as freshly entered.
type AutofillHeuristic interface {
	IsAutofill(current, previous mask.State, focused bool) bool
}

// DesktopAutofill treats a change as autofill when the field is not
// focused, or when the caret jumped to the end of a value that no edit at
// the previous selection could have produced.
type DesktopAutofill struct{}

func (DesktopAutofill) IsAutofill(current, previous mask.State, focused bool) bool {
	if current.Value == previous.Value {
		return false
	}
	if !focused {
		return true
	}
	sel := current.Selection
	return sel.Collapsed() && sel.Start == current.Len() && !nativeEdit(current, previous)
}

// MobileAutofill is DesktopAutofill without the caret requirement: mobile
// browsers leave the caret anywhere after filling a field.
type MobileAutofill struct{}

func (MobileAutofill) IsAutofill(current, previous mask.State, focused bool) bool {
	if current.Value == previous.Value {
		return false
	}
	return !focused || !nativeEdit(current, previous)
}

// NoAutofill never reports autofill.
type NoAutofill struct{}

func (NoAutofill) IsAutofill(mask.State, mask.State, bool) bool { return false }

// HeuristicFor returns the heuristic for a platform name.
func HeuristicFor(platform string) AutofillHeuristic {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "android", "ios", "mobile", "windows phone":
		return MobileAutofill{}
	case "none", "off":
		return NoAutofill{}
	default:
		return DesktopAutofill{}
	}
}

// nativeEdit reports whether current can be explained as a single edit
// of previous around its selection: the text before the selection (less
// one rune for Backspace) and after it (less one rune for Delete) survive.
func nativeEdit(current, previous mask.State) bool {
	a, b := []rune(previous.Value), []rune(current.Value)
	n := min(len(a), len(b))

	prefix := 0
	for prefix < n && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	sel := previous.Selection.Normalize()
	return prefix >= sel.Start-1 && suffix >= len(a)-sel.End-1
}
