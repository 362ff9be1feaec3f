package mask

import (
	"errors"
	"reflect"
	"testing"
)

const phoneMask = "+7 (999) 999 99 99"

func TestParsePhoneMask(t *testing.T) {
	m, err := Parse(phoneMask, WithPlaceholder("_"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Len() != 18 {
		t.Errorf("expected length 18, got %d", m.Len())
	}
	if m.Prefix() != "+7 (" {
		t.Errorf("expected prefix %q, got %q", "+7 (", m.Prefix())
	}
	if m.LastEditablePosition() != 17 {
		t.Errorf("expected last editable 17, got %d", m.LastEditablePosition())
	}
	if m.Placeholder() != "+7 (___) ___ __ __" {
		t.Errorf("unexpected placeholder %q", m.Placeholder())
	}

	want := []int{0, 1, 2, 3, 7, 8, 12, 15}
	if got := m.Permanents(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected permanents %v, got %v", want, got)
	}
}

func TestParseEscapedTokens(t *testing.T) {
	m := MustParse(`\9\a-99`)

	if m.Len() != 5 {
		t.Fatalf("expected length 5, got %d", m.Len())
	}
	if m.Prefix() != "9a-" {
		t.Errorf("expected prefix %q, got %q", "9a-", m.Prefix())
	}
	if m.LastEditablePosition() != 4 {
		t.Errorf("expected last editable 4, got %d", m.LastEditablePosition())
	}
	if r, ok := m.Literal(0); !ok || r != '9' {
		t.Errorf("expected literal '9' at 0, got %q (%v)", r, ok)
	}
}

func TestParsePrefixStopsAtFirstSlot(t *testing.T) {
	m := MustParse("(9)-9")

	if m.Prefix() != "(" {
		t.Errorf("expected prefix %q, got %q", "(", m.Prefix())
	}
	if !m.IsPermanent(2) || !m.IsPermanent(3) {
		t.Error("literals after the first slot should still be permanent")
	}
}

func TestParseDanglingEscape(t *testing.T) {
	_, err := Parse(`99\`)
	if !errors.Is(err, ErrDanglingEscape) {
		t.Fatalf("expected ErrDanglingEscape, got %v", err)
	}

	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if syn.Pos != 2 {
		t.Errorf("expected position 2, got %d", syn.Pos)
	}
}

func TestParsePlaceholder(t *testing.T) {
	tests := []struct {
		name        string
		placeholder string
		want        string
	}{
		{"single character", "_", "__-__"},
		{"full length overwrites literals", "dd/mm", "dd-mm"},
		{"compact", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse("99-99", WithPlaceholder(tt.placeholder))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if m.Placeholder() != tt.want {
				t.Errorf("expected placeholder %q, got %q", tt.want, m.Placeholder())
			}
			if m.HasPlaceholder() != (tt.want != "") {
				t.Errorf("HasPlaceholder mismatch for %q", tt.placeholder)
			}
		})
	}
}

func TestParsePlaceholderLengthMismatch(t *testing.T) {
	_, err := Parse("99-99", WithPlaceholder("ab"))
	if !errors.Is(err, ErrPlaceholderLength) {
		t.Fatalf("expected ErrPlaceholderLength, got %v", err)
	}
}

func TestParseEmptyMaskDisabled(t *testing.T) {
	m, err := Parse("")
	if err != nil {
		t.Fatalf("empty mask should not fail: %v", err)
	}
	if m.Enabled() {
		t.Error("empty mask should be disabled")
	}
	if got := m.Format("anything"); got != "anything" {
		t.Errorf("disabled mask should pass values through, got %q", got)
	}
	if m.LastEditablePosition() != -1 {
		t.Errorf("expected no editable position, got %d", m.LastEditablePosition())
	}
}

func TestCompileEntries(t *testing.T) {
	hex := MustPattern("[0-9a-fA-F]")
	m, err := Compile(FromEntries(Lit('#'), Slot(hex), Slot(hex)), WithPlaceholder("0"))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if m.Prefix() != "#" {
		t.Errorf("expected prefix %q, got %q", "#", m.Prefix())
	}
	if got := m.Format("fz9"); got != "#f9" {
		t.Errorf("expected %q, got %q", "#f9", got)
	}
}

func TestCompileEmptyEntry(t *testing.T) {
	_, err := Compile(FromEntries(Lit('#'), Entry{}))
	if !errors.Is(err, ErrEmptyEntry) {
		t.Fatalf("expected ErrEmptyEntry, got %v", err)
	}
}

func TestParseDefinitions(t *testing.T) {
	defs, err := ParseDefinitions(map[string]string{"#": "[0-9A-F]"})
	if err != nil {
		t.Fatalf("ParseDefinitions failed: %v", err)
	}

	m := MustParse("##-9", WithDefinitions(defs))
	if got := m.Format("a1F7"); got != "1F-7" {
		t.Errorf("expected %q, got %q", "1F-7", got)
	}
}

func TestParseDefinitionsErrors(t *testing.T) {
	if _, err := ParseDefinitions(map[string]string{"##": "x"}); err == nil {
		t.Error("multi-character token should fail")
	}
	if _, err := ParseDefinitions(map[string]string{`\`: "x"}); err == nil {
		t.Error("escape token should be reserved")
	}
	if _, err := ParseDefinitions(map[string]string{"#": "["}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestSelection(t *testing.T) {
	sel := Selection{Start: 3, End: 7}
	if sel.Len() != 4 {
		t.Errorf("expected length 4, got %d", sel.Len())
	}
	if sel.Collapsed() {
		t.Error("selection should not be collapsed")
	}
	if !sel.Contains(6) || sel.Contains(7) {
		t.Error("Contains should be half-open")
	}
	if got := (Selection{Start: 7, End: 3}).Normalize(); got != sel {
		t.Errorf("expected %v, got %v", sel, got)
	}
	if got := sel.Clamp(5); got != (Selection{Start: 3, End: 5}) {
		t.Errorf("expected clamp to 5, got %v", got)
	}
	if Cursor(2).String() != "Cursor(2)" {
		t.Errorf("unexpected cursor string %q", Cursor(2).String())
	}
}
