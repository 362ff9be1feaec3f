// Package mask implements positional input masks: template compilation,
// character-class validation, value formatting, range editing, and the
// reconciler that turns a raw edit into a mask-consistent value and cursor.
//
// # Templates
//
// A template is a string of token and literal characters. By default the
// tokens are:
//
//	9   a digit
//	a   a letter
//	*   a letter or digit
//
// Every other character is a literal. A backslash makes the next character a
// literal even if it is a token:
//
//	m, _ := mask.Parse(`+7 (999) 999 99 99`, mask.WithPlaceholder("_"))
//	m.Format("74953156454") // "+7 (495) 315 64 54"
//
// Masks can also be built from entries, mixing literals and arbitrary classes:
//
//	hex := mask.MustPattern("[0-9a-fA-F]")
//	m, _ := mask.Compile(mask.FromEntries(mask.Lit('#'), mask.Slot(hex), mask.Slot(hex)))
//
// # Modes
//
// With a placeholder, values are always exactly as long as the template and
// unfilled slots show the placeholder character. Without one (compact mode)
// values stop after the last entered character and its trailing literals.
//
// # Reconciling edits
//
// The engine keeps no state. A host passes the raw state reported by the
// editing surface after a native edit together with the last canonical state:
//
//	res := m.ProcessChange(
//		mask.State{Value: raw, Selection: rawSel},
//		mask.State{Value: last, Selection: lastSel},
//	)
//
// The edit is replayed against the last canonical value, so characters the
// template rejects never reach the result.
package mask
