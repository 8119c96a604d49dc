package components

import (
	"strings"
	"testing"

	"github.com/athyr-tech/athyr-chat/internal/device"
	"github.com/athyr-tech/athyr-chat/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type recorder struct {
	submitted []string
	deletes   int
}

type submittedMsg string

func (r *recorder) props() TextInputProps {
	return TextInputProps{
		Device: device.Static(false),
		OnSubmit: func(v string) tea.Cmd {
			r.submitted = append(r.submitted, v)
			return func() tea.Msg { return submittedMsg(v) }
		},
		OnDelete: func() tea.Cmd {
			r.deletes++
			return nil
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func mounted(t *testing.T, props TextInputProps) TextInput {
	t.Helper()
	ti := NewTextInput(props)
	ti.SetWidth(60)
	ti.Mount()
	return ti
}

func click(r rect) tea.MouseMsg {
	return tea.MouseMsg{X: r.x, Y: r.y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestTextInput_DefaultValueEditAndClickSend(t *testing.T) {
	rec := &recorder{}
	props := rec.props()
	props.DefaultValue = "Hi"
	ti := mounted(t, props)

	if ti.Value() != "Hi" {
		t.Fatalf("Value() = %q, want Hi", ti.Value())
	}

	ti, _ = ti.Update(runes("!"))
	if ti.Value() != "Hi!" {
		t.Fatalf("Value() = %q, want Hi!", ti.Value())
	}

	ti.SetOrigin(0, 10)
	_, send, _ := ti.layout()
	ti, cmd := ti.Update(click(send))

	if len(rec.submitted) != 1 || rec.submitted[0] != "Hi!" {
		t.Fatalf("submitted = %v, want [Hi!]", rec.submitted)
	}
	if ti.Value() != "" {
		t.Errorf("Value() = %q after submit, want empty", ti.Value())
	}
	if cmd == nil {
		t.Fatal("expected OnSubmit command to be returned")
	}
	if msg := cmd(); msg != submittedMsg("Hi!") {
		t.Errorf("cmd() = %v, want submittedMsg(Hi!)", msg)
	}
}

func TestTextInput_EnterSubmitsOnce(t *testing.T) {
	for _, multiline := range []bool{false, true} {
		rec := &recorder{}
		props := rec.props()
		props.Multiline = multiline
		ti := mounted(t, props)

		ti, _ = ti.Update(runes("hello"))
		ti, _ = ti.Update(enterKey)

		if len(rec.submitted) != 1 || rec.submitted[0] != "hello" {
			t.Errorf("multiline=%v: submitted = %v, want [hello]", multiline, rec.submitted)
		}
		if ti.Value() != "" {
			t.Errorf("multiline=%v: Value() = %q, want empty", multiline, ti.Value())
		}
	}
}

func TestTextInput_EmptyDoesNotSubmit(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())

	if !ti.SubmitDisabled() {
		t.Error("SubmitDisabled() = false for empty value")
	}

	ti, _ = ti.Update(enterKey)
	if cmd := ti.Send(); cmd != nil {
		t.Error("Send() on disabled button returned a command")
	}
	ti.SetOrigin(0, 0)
	_, send, _ := ti.layout()
	ti, _ = ti.Update(click(send))

	if len(rec.submitted) != 0 {
		t.Errorf("submitted = %v, want none", rec.submitted)
	}
}

func TestTextInput_CompositionBlocksEnter(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())

	ti, _ = ti.Update(runes("こんにちは"))
	ti, _ = ti.Update(CompositionMsg{Active: true})
	if !ti.Composing() {
		t.Fatal("Composing() = false after CompositionMsg{Active: true}")
	}

	ti, _ = ti.Update(enterKey)
	if len(rec.submitted) != 0 {
		t.Fatalf("submitted during composition: %v", rec.submitted)
	}
	if ti.Value() != "こんにちは" {
		t.Errorf("Value() = %q, want value kept during composition", ti.Value())
	}

	ti, _ = ti.Update(CompositionMsg{Active: false})
	ti, _ = ti.Update(enterKey)
	if len(rec.submitted) != 1 || rec.submitted[0] != "こんにちは" {
		t.Errorf("submitted = %v, want one submit after composition ended", rec.submitted)
	}
}

func TestTextInput_PastedEnterDoesNotSubmit(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())

	ti, _ = ti.Update(runes("draft"))
	ti, _ = ti.Update(tea.KeyMsg{Type: tea.KeyEnter, Paste: true})

	if len(rec.submitted) != 0 {
		t.Errorf("submitted = %v, want none", rec.submitted)
	}
	if ti.Value() != "draft" {
		t.Errorf("Value() = %q, want draft", ti.Value())
	}
}

func TestTextInput_InvalidValueIsClearedWithoutSubmit(t *testing.T) {
	rec := &recorder{}
	props := rec.props()
	props.Validator = validation.Func(func(v string) error {
		if len(v) < 3 {
			return validation.Invalid("too short")
		}
		return nil
	})
	ti := mounted(t, props)

	ti, _ = ti.Update(runes("ab"))
	ti, _ = ti.Update(enterKey)

	if len(rec.submitted) != 0 {
		t.Errorf("submitted = %v, want none", rec.submitted)
	}
	if ti.Value() != "" {
		t.Errorf("Value() = %q, want cleared even when invalid", ti.Value())
	}
	if ti.Invalid() != "too short" {
		t.Errorf("Invalid() = %q, want too short", ti.Invalid())
	}
	if !strings.Contains(ti.View(), "too short") {
		t.Error("View() should show the validation reason")
	}

	ti, _ = ti.Update(runes("x"))
	if ti.Invalid() != "" {
		t.Errorf("Invalid() = %q, want cleared after keystroke", ti.Invalid())
	}
}

func TestTextInput_Delete(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())
	ti, _ = ti.Update(runes("keep me"))

	ti, _ = ti.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if rec.deletes != 1 {
		t.Errorf("deletes = %d, want 1", rec.deletes)
	}

	ti.SetOrigin(2, 3)
	_, _, del := ti.layout()
	ti, _ = ti.Update(click(del))
	if rec.deletes != 2 {
		t.Errorf("deletes = %d, want 2", rec.deletes)
	}

	if ti.Value() != "keep me" {
		t.Errorf("Value() = %q, want unchanged by delete", ti.Value())
	}
	if len(rec.submitted) != 0 {
		t.Errorf("delete must not submit, got %v", rec.submitted)
	}
}

func TestTextInput_EnterOnFocusedDeleteOnlyDeletes(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())
	ti, _ = ti.Update(runes("draft"))

	ti, _ = ti.Update(tabKey) // send
	ti, _ = ti.Update(tabKey) // delete
	ti, _ = ti.Update(enterKey)

	if rec.deletes != 1 {
		t.Errorf("deletes = %d, want 1", rec.deletes)
	}
	if len(rec.submitted) != 0 {
		t.Errorf("submitted = %v, want none", rec.submitted)
	}
	if ti.Value() != "draft" {
		t.Errorf("Value() = %q, want draft kept", ti.Value())
	}
}

func TestTextInput_DeleteWorksWhenEmpty(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())

	ti.Delete()
	if rec.deletes != 1 {
		t.Errorf("deletes = %d, want 1", rec.deletes)
	}
}

func TestTextInput_MountFocus(t *testing.T) {
	desktop := NewTextInput(TextInputProps{Device: device.Static(false)})
	desktop.Mount()
	if !desktop.FieldFocused() {
		t.Error("desktop: field should be focused on mount")
	}
	if desktop.Init() == nil {
		t.Error("desktop: Init() should return blink command")
	}

	mobile := NewTextInput(TextInputProps{Device: device.Static(true)})
	mobile.Mount()
	if mobile.Focused() {
		t.Error("mobile: input should not be focused on mount")
	}
	if mobile.Init() != nil {
		t.Error("mobile: Init() should return nil")
	}

	// Unfocused input ignores typing
	mobile, _ = mobile.Update(runes("x"))
	if mobile.Value() != "" {
		t.Errorf("Value() = %q, want empty for unfocused input", mobile.Value())
	}

	nilDevice := NewTextInput(TextInputProps{})
	nilDevice.Mount()
	if !nilDevice.FieldFocused() {
		t.Error("nil detector should behave as desktop")
	}
}

func TestTextInput_FocusCycle(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())

	// Send is disabled while empty, so Tab skips it
	ti, _ = ti.Update(tabKey)
	if ti.focus != focusDelete {
		t.Fatalf("focus = %v, want delete", ti.focus)
	}
	ti, _ = ti.Update(tabKey)
	if !ti.FieldFocused() {
		t.Fatalf("focus = %v, want field", ti.focus)
	}

	ti, _ = ti.Update(runes("go"))
	ti, _ = ti.Update(tabKey)
	if ti.focus != focusSend {
		t.Fatalf("focus = %v, want send", ti.focus)
	}

	// Typing is ignored while a button has focus
	ti, _ = ti.Update(runes("x"))
	if ti.Value() != "go" {
		t.Errorf("Value() = %q, want go", ti.Value())
	}

	ti, _ = ti.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if len(rec.submitted) != 1 || rec.submitted[0] != "go" {
		t.Errorf("submitted = %v, want [go]", rec.submitted)
	}

	ti, _ = ti.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if !ti.FieldFocused() {
		t.Errorf("shift+tab from send: focus = %v, want field", ti.focus)
	}
}

func TestTextInput_EscBlurs(t *testing.T) {
	ti := mounted(t, TextInputProps{})
	ti, _ = ti.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if ti.Focused() {
		t.Error("Focused() = true after esc")
	}

	ti.SetOrigin(0, 0)
	field, _, _ := ti.layout()
	ti, _ = ti.Update(click(field))
	if !ti.FieldFocused() {
		t.Error("clicking the field should focus it")
	}
}

func TestTextInput_SendDisabledWhenEmpty(t *testing.T) {
	rec := &recorder{}
	ti := mounted(t, rec.props())

	steps := []tea.Msg{
		runes("a"),
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("abc"),
		CompositionMsg{Active: true},
		enterKey,
		CompositionMsg{Active: false},
		enterKey,
		runes("z"),
		tea.KeyMsg{Type: tea.KeyCtrlD},
	}
	for i, msg := range steps {
		ti, _ = ti.Update(msg)
		if ti.SubmitDisabled() != (ti.Value() == "") {
			t.Fatalf("step %d: SubmitDisabled() = %v with value %q", i, ti.SubmitDisabled(), ti.Value())
		}
	}
}

func TestTextInput_Defaults(t *testing.T) {
	ti := NewTextInput(TextInputProps{})
	if ti.props.Placeholder != DefaultPlaceholder {
		t.Errorf("Placeholder = %q, want %q", ti.props.Placeholder, DefaultPlaceholder)
	}
	if ti.props.BackgroundColor != "#ffffff" {
		t.Errorf("BackgroundColor = %q, want #ffffff", ti.props.BackgroundColor)
	}
	if ti.props.TextColor != "#303235" {
		t.Errorf("TextColor = %q, want #303235", ti.props.TextColor)
	}

	view := ti.View()
	for _, want := range []string{"Send", "Delete"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestTextInput_NilCallbacks(t *testing.T) {
	ti := mounted(t, TextInputProps{})
	ti, _ = ti.Update(runes("hi"))
	ti, cmd := ti.Update(enterKey)
	if cmd != nil {
		t.Error("expected nil command without OnSubmit")
	}
	if ti.Value() != "" {
		t.Errorf("Value() = %q, want empty", ti.Value())
	}
	if ti.Delete() != nil {
		t.Error("expected nil command without OnDelete")
	}
}

func TestButton_View(t *testing.T) {
	b := NewSendButton("#3B81F6")
	if !strings.Contains(b.View(), "Send") {
		t.Errorf("View() = %q, want to contain Send", b.View())
	}
	if b.Width() != len("Send")+2 {
		t.Errorf("Width() = %d, want %d", b.Width(), len("Send")+2)
	}
	b.Disabled = true
	if !strings.Contains(b.View(), "Send") {
		t.Error("disabled button should still show its label")
	}
}

func TestTextInput_ButtonRegionsMatchView(t *testing.T) {
	for _, multiline := range []bool{false, true} {
		rec := &recorder{}
		props := rec.props()
		props.DefaultValue = "Hi"
		props.Multiline = multiline
		ti := mounted(t, props)
		ti.SetOrigin(0, 0)

		lines := strings.Split(ansi.Strip(ti.View()), "\n")
		_, send, del := ti.layout()

		for _, tt := range []struct {
			label  string
			region rect
		}{
			{"Send", send},
			{"Delete", del},
		} {
			if tt.region.y >= len(lines) {
				t.Fatalf("multiline=%v: %s row %d outside view of %d lines", multiline, tt.label, tt.region.y, len(lines))
			}
			line := lines[tt.region.y]
			idx := strings.Index(line, tt.label)
			if idx < 0 {
				t.Fatalf("multiline=%v: row %d = %q, want to contain %s", multiline, tt.region.y, line, tt.label)
			}
			// labels are padded by one cell on each side
			col := ansi.StringWidth(line[:idx])
			if col != tt.region.x+1 {
				t.Errorf("multiline=%v: %s drawn at column %d, region starts at %d", multiline, tt.label, col, tt.region.x)
			}
			if tt.region.w != len(tt.label)+2 {
				t.Errorf("multiline=%v: %s region width = %d, want %d", multiline, tt.label, tt.region.w, len(tt.label)+2)
			}
		}
	}
}
