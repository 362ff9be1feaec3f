package field

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/inputmask/internal/hook"
	"github.com/dshills/inputmask/internal/mask"
	"github.com/dshills/inputmask/internal/schedule"
)

const phoneMask = "+7 (999) 999 99 99"

func newPhone(t *testing.T, opts ...Option) *Field {
	t.Helper()
	f, err := New(append([]Option{WithMask(phoneMask), WithPlaceholder("_")}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func TestNewInitialValue(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"empty stays empty", nil, ""},
		{"always show mask", []Option{WithAlwaysShowMask(true)}, "+7 (___) ___ __ __"},
		{"default value", []Option{WithDefaultValue("74953156454")}, "+7 (495) 315 64 54"},
		{"controlled value", []Option{WithValue("495")}, "+7 (495) ___ __ __"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPhone(t, tt.opts...)
			if f.Value() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, f.Value())
			}
		})
	}
}

func TestNewMixedMask(t *testing.T) {
	f, err := New(WithMask("+7 (9a9) 999 99 99"), WithMaskChar("_"), WithDefaultValue("749531b6454"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if f.Value() != "+7 (4b6) 454 __ __" {
		t.Errorf("unexpected value %q", f.Value())
	}
}

func TestNewConfigurationErrors(t *testing.T) {
	if _, err := New(WithValue("1"), WithDefaultValue("2")); !errors.Is(err, ErrControlledConflict) {
		t.Errorf("expected ErrControlledConflict, got %v", err)
	}

	_, err := New(WithMask(`99\`))
	if !errors.Is(err, ErrInvalidMask) || !errors.Is(err, mask.ErrDanglingEscape) {
		t.Errorf("expected wrapped ErrDanglingEscape, got %v", err)
	}

	if _, err := New(WithMask("99-99"), WithPlaceholder("abc")); !errors.Is(err, mask.ErrPlaceholderLength) {
		t.Errorf("expected ErrPlaceholderLength, got %v", err)
	}
}

func TestMaxLengthWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f, err := New(WithMask("999"), WithMaxLength(5), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if len(f.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", f.Warnings())
	}
	if logs.Len() != 1 {
		t.Errorf("expected the warning to be logged, got %d entries", logs.Len())
	}
	if f.MaxLength() != 0 {
		t.Errorf("maxLength should not apply with a mask, got %d", f.MaxLength())
	}
}

func TestFocusTypeBlur(t *testing.T) {
	var changes []string
	f := newPhone(t, WithOnChange(func(v string) { changes = append(changes, v) }))
	s := NewSurface(f)

	st := s.Focus()
	if st.Value != "+7 (___) ___ __ __" || st.Selection != mask.Cursor(4) {
		t.Fatalf("unexpected focus state %q %v", st.Value, st.Selection)
	}

	for _, r := range "4953156454" {
		st = s.Type(string(r))
	}
	if st.Value != "+7 (495) 315 64 54" || st.Selection != mask.Cursor(18) {
		t.Errorf("unexpected typed state %q %v", st.Value, st.Selection)
	}
	if len(changes) != 11 || changes[len(changes)-1] != st.Value {
		t.Errorf("expected 11 change notifications ending with the value, got %v", changes)
	}

	if st = s.Blur(); st.Value != "+7 (495) 315 64 54" {
		t.Errorf("blur should keep a non-empty value, got %q", st.Value)
	}
}

func TestBlurClearsEmptyValue(t *testing.T) {
	var last *string
	f := newPhone(t, WithOnChange(func(v string) { last = &v }))
	s := NewSurface(f)

	s.Focus()
	if st := s.Blur(); st.Value != "" {
		t.Errorf("expected empty value after blur, got %q", st.Value)
	}
	if last == nil || *last != "" {
		t.Error("expected onChange with the cleared value")
	}
	if f.Focused() {
		t.Error("field should not be focused")
	}
}

func TestBlurAlwaysShowMask(t *testing.T) {
	f := newPhone(t, WithAlwaysShowMask(true))
	s := NewSurface(f)

	s.Focus()
	if st := s.Blur(); st.Value != "+7 (___) ___ __ __" {
		t.Errorf("alwaysShowMask should keep the placeholder, got %q", st.Value)
	}
}

func TestBackspaceThroughSurface(t *testing.T) {
	f := newPhone(t, WithDefaultValue("74953156454"))
	s := NewSurface(f)
	s.Focus()

	s.SetSelection(mask.Cursor(10))
	st := s.Backspace()
	if st.Value != "+7 (495) _15 64 54" || st.Selection != mask.Cursor(9) {
		t.Errorf("unexpected state %q %v", st.Value, st.Selection)
	}

	s.SetSelection(mask.Selection{Start: 1, End: 10})
	st = s.Backspace()
	if st.Value != "+7 (___) _15 64 54" || st.Selection != mask.Cursor(4) {
		t.Errorf("unexpected state %q %v", st.Value, st.Selection)
	}
}

func TestCompactSurface(t *testing.T) {
	f, err := New(WithMask("99-99"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s := NewSurface(f)
	s.Focus()

	want := []string{"1", "12-", "12-3"}
	for i, r := range "123" {
		if st := s.Type(string(r)); st.Value != want[i] {
			t.Fatalf("after %q: expected %q, got %q", r, want[i], st.Value)
		}
	}
	if st := s.Backspace(); st.Value != "12-" {
		t.Errorf("expected %q, got %q", "12-", st.Value)
	}
	if st := s.Backspace(); st.Value != "1" || st.Selection != mask.Cursor(1) {
		t.Errorf("expected %q at 1, got %q %v", "1", st.Value, st.Selection)
	}
}

func TestAutofill(t *testing.T) {
	f := newPhone(t)
	s := NewSurface(f)
	s.Focus()

	st := s.Autofill("74953156454")
	if st.Value != "+7 (495) 315 64 54" || st.Selection != mask.Cursor(18) {
		t.Errorf("unexpected autofill state %q %v", st.Value, st.Selection)
	}
}

func TestAutofillDisabled(t *testing.T) {
	f := newPhone(t, WithAutofill(NoAutofill{}))
	s := NewSurface(f)
	s.Focus()

	if st := s.Autofill("74953156454"); st.Value == "+7 (495) 315 64 54" {
		t.Error("without a heuristic the value should be diffed against the previous state")
	}
}

func TestAutofillWhileUnfocused(t *testing.T) {
	var changed string
	f := newPhone(t, WithOnChange(func(v string) { changed = v }))
	s := NewSurface(f)

	st := s.Autofill("74953156454")
	if st.Value != "+7 (495) 315 64 54" {
		t.Errorf("unexpected value %q", st.Value)
	}
	if changed != st.Value {
		t.Errorf("expected onChange with %q, got %q", st.Value, changed)
	}
}

func TestBeforeChangeHook(t *testing.T) {
	var gotEntered []string
	var gotPrevious []string
	upper := func(next, previous mask.State, entered string, cfg hook.Config) mask.State {
		if cfg.Mask != "aa-99" {
			t.Errorf("unexpected hook config %+v", cfg)
		}
		gotEntered = append(gotEntered, entered)
		gotPrevious = append(gotPrevious, previous.Value)
		next.Value = strings.ToUpper(next.Value)
		return next
	}

	f, err := New(WithMask("aa-99"), WithPlaceholder("_"), WithBeforeChange(upper))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s := NewSurface(f)
	s.Focus()

	s.Type("a")
	st := s.Type("b")
	if st.Value != "AB-__" || st.Selection != mask.Cursor(3) {
		t.Errorf("unexpected state %q %v", st.Value, st.Selection)
	}

	wantEntered := []string{"", "a", "b"}
	wantPrevious := []string{"", "__-__", "A_-__"}
	for i := range wantEntered {
		if gotEntered[i] != wantEntered[i] || gotPrevious[i] != wantPrevious[i] {
			t.Errorf("call %d: entered %q previous %q", i, gotEntered[i], gotPrevious[i])
		}
	}
}

func TestHookSelectionIsClamped(t *testing.T) {
	wild := func(next, _ mask.State, _ string, _ hook.Config) mask.State {
		next.Selection = mask.Selection{Start: 40, End: -3}
		return next
	}
	f := newPhone(t, WithBeforeChange(wild))
	st := f.Focus()
	if st.Selection != (mask.Selection{Start: 0, End: 18}) {
		t.Errorf("expected selection clamped to the value, got %v", st.Selection)
	}
}

func TestSetMask(t *testing.T) {
	f, err := New(WithMask("9999-9999-9999-9999"), WithPlaceholder("_"), WithDefaultValue("34781226917"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if f.Value() != "3478-1226-917_-____" {
		t.Fatalf("unexpected initial value %q", f.Value())
	}

	if err := f.SetMask("9999-999999-99999"); err != nil {
		t.Fatalf("SetMask failed: %v", err)
	}
	if f.Value() != "3478-122691-7____" {
		t.Errorf("unexpected value after mask change %q", f.Value())
	}

	if err := f.SetMask(`9\`); err == nil {
		t.Error("expected an error for an invalid mask")
	}
	if f.Value() != "3478-122691-7____" {
		t.Error("a failed mask change must keep the previous state")
	}
}

func TestSetMaskDisable(t *testing.T) {
	f := newPhone(t, WithDefaultValue("495"))
	if err := f.SetMaskConfig(MaskConfig{}); err != nil {
		t.Fatalf("SetMaskConfig failed: %v", err)
	}
	if f.Mask().Enabled() {
		t.Error("empty source should disable the mask")
	}
	if f.Value() != "+7 (495) ___ __ __" {
		t.Errorf("disabling the mask should keep the value, got %q", f.Value())
	}
}

func TestSetValue(t *testing.T) {
	calls := 0
	f := newPhone(t, WithOnChange(func(string) { calls++ }))
	f.Focus()
	calls = 0

	st := f.SetValue("495")
	if st.Value != "+7 (495) ___ __ __" || st.Selection != mask.Cursor(9) {
		t.Errorf("unexpected state %q %v", st.Value, st.Selection)
	}
	if calls != 0 {
		t.Errorf("programmatic changes should not notify, got %d calls", calls)
	}
}

func TestUnmaskedField(t *testing.T) {
	f, err := New(WithMaxLength(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s := NewSurface(f)
	s.Focus()

	if st := s.Type("abcdef"); st.Value != "abc" || st.Selection != mask.Cursor(3) {
		t.Errorf("unexpected state %q %v", st.Value, st.Selection)
	}
	if len(f.Warnings()) != 0 {
		t.Errorf("unexpected warnings %v", f.Warnings())
	}
}

func TestNormalizedInput(t *testing.T) {
	f, err := New(WithMask("aa"), WithPlaceholder("_"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s := NewSurface(f)
	s.Focus()

	if st := s.Type("e\u0301"); st.Value != "\u00e9_" {
		t.Errorf("expected the composed rune in one slot, got %q", st.Value)
	}
}

func TestDeferredSelection(t *testing.T) {
	var sched schedule.Manual
	f := newPhone(t, WithScheduler(&sched))
	s := NewSurface(f)
	s.ResetSelectionOnWrite = true

	s.Focus()
	if got := s.State().Selection; got != mask.Cursor(18) {
		t.Fatalf("surface should show the reset caret before reapplication, got %v", got)
	}
	if sched.Flush() != 1 {
		t.Fatal("expected one reapplication")
	}
	if got := s.State().Selection; got != mask.Cursor(4) {
		t.Errorf("expected Cursor(4) after reapplication, got %v", got)
	}

	s.Type("4")
	if sched.Pending() != 1 {
		t.Fatalf("expected a pending reapplication, got %d", sched.Pending())
	}
	s.SetSelection(mask.Cursor(2))
	if sched.Pending() != 0 {
		t.Error("a user selection should cancel the pending reapplication")
	}

	s.Type("9")
	f.Close()
	if sched.Pending() != 0 {
		t.Error("Close should cancel the pending reapplication")
	}
}

func TestSurfaceNavigation(t *testing.T) {
	f := newPhone(t, WithDefaultValue("495"))
	s := NewSurface(f)
	s.Focus()

	if st := s.Home(); st.Selection != mask.Cursor(0) {
		t.Errorf("Home: got %v", st.Selection)
	}
	if st := s.MoveLeft(); st.Selection != mask.Cursor(0) {
		t.Errorf("MoveLeft at 0: got %v", st.Selection)
	}
	if st := s.MoveRight(); st.Selection != mask.Cursor(1) {
		t.Errorf("MoveRight: got %v", st.Selection)
	}
	if st := s.SelectAll(); st.Selection != (mask.Selection{Start: 0, End: 18}) {
		t.Errorf("SelectAll: got %v", st.Selection)
	}
	if st := s.MoveRight(); st.Selection != mask.Cursor(18) {
		t.Errorf("MoveRight collapses to the end: got %v", st.Selection)
	}
	if st := s.End(); f.Selection() != st.Selection {
		t.Errorf("field selection %v differs from surface %v", f.Selection(), st.Selection)
	}
}

func TestPasteDropsLineBreaks(t *testing.T) {
	f := newPhone(t)
	s := NewSurface(f)
	s.Focus()

	if st := s.Paste("495\n315"); st.Value != "+7 (495) 315 __ __" {
		t.Errorf("unexpected value %q", st.Value)
	}
}
