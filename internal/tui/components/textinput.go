package components

import (
	"github.com/athyr-tech/athyr-chat/internal/device"
	"github.com/athyr-tech/athyr-chat/internal/tui/styles"
	"github.com/athyr-tech/athyr-chat/internal/validation"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Defaults for TextInputProps.
const (
	DefaultPlaceholder     = "Type your question"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#303235"
	DefaultSendButtonColor = "#3B81F6"
)

const (
	multilineHeight = 3
	minFieldWidth   = 10
	buttonGap       = 1
)

// CompositionMsg marks the start (Active) or end of input-method
// composition. Enter never submits while composition is active.
type CompositionMsg struct {
	Active bool
}

// TextInputProps configures a TextInput.
type TextInputProps struct {
	Placeholder     string
	BackgroundColor string
	TextColor       string
	SendButtonColor string
	DefaultValue    string
	FontSize        int // 0 = terminal default
	Multiline       bool
	CharLimit       int

	// Validator gates submission. Nil accepts everything.
	Validator validation.Validator
	// Device decides focus-on-mount. Nil means desktop.
	Device device.Detector

	// OnSubmit receives each valid, non-empty value.
	OnSubmit func(value string) tea.Cmd
	// OnDelete is called when the delete control is activated.
	OnDelete func() tea.Cmd
}

type inputFocus int

const (
	focusNone inputFocus = iota
	focusField
	focusSend
	focusDelete
)

// TextInput is a chat input: a text field with Send and Delete buttons.
//
// The Send button is disabled exactly when the value is empty. Submitting
// clears the field whether or not the value passed validation.
type TextInput struct {
	props TextInputProps

	single textinput.Model
	multi  textarea.Model

	focus     inputFocus
	composing bool
	invalid   string // last validation failure, shown until the next keystroke

	width            int
	originX, originY int
}

// NewTextInput creates a TextInput. It starts unfocused; call Mount once the
// input is placed on screen.
func NewTextInput(props TextInputProps) TextInput {
	if props.Placeholder == "" {
		props.Placeholder = DefaultPlaceholder
	}
	if props.BackgroundColor == "" {
		props.BackgroundColor = DefaultBackgroundColor
	}
	if props.TextColor == "" {
		props.TextColor = DefaultTextColor
	}
	if props.SendButtonColor == "" {
		props.SendButtonColor = DefaultSendButtonColor
	}

	text := textStyle(props)
	placeholder := lipgloss.NewStyle().Foreground(styles.ColorMuted)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = props.Placeholder
	ti.CharLimit = props.CharLimit
	ti.TextStyle = text
	ti.PlaceholderStyle = placeholder
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(props.SendButtonColor))

	ta := textarea.New()
	ta.Placeholder = props.Placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = props.CharLimit
	ta.SetHeight(multilineHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys("alt+enter", "ctrl+j"),
		key.WithHelp("alt+enter", "new line"),
	)
	ta.FocusedStyle.Text = text
	ta.BlurredStyle.Text = text
	ta.FocusedStyle.Placeholder = placeholder
	ta.BlurredStyle.Placeholder = placeholder

	t := TextInput{
		props:  props,
		single: ti,
		multi:  ta,
	}
	t.setValue(props.DefaultValue)
	return t
}

// textStyle maps the font size onto terminal emphasis.
func textStyle(props TextInputProps) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(props.TextColor))
	switch {
	case props.FontSize >= 18:
		s = s.Bold(true)
	case props.FontSize > 0 && props.FontSize < 12:
		s = s.Faint(true)
	}
	return s
}

// Mount focuses the field unless running on a mobile device.
func (t *TextInput) Mount() tea.Cmd {
	if t.props.Device != nil && t.props.Device.IsMobile() {
		return nil
	}
	return t.Focus()
}

// Init returns the cursor blink command when the field is focused.
func (t TextInput) Init() tea.Cmd {
	if t.focus != focusField {
		return nil
	}
	if t.props.Multiline {
		return textarea.Blink
	}
	return textinput.Blink
}

// Value returns the current value.
func (t TextInput) Value() string {
	if t.props.Multiline {
		return t.multi.Value()
	}
	return t.single.Value()
}

// SetValue replaces the current value.
func (t *TextInput) SetValue(v string) {
	t.setValue(v)
}

func (t *TextInput) setValue(v string) {
	if t.props.Multiline {
		t.multi.SetValue(v)
		return
	}
	t.single.SetValue(v)
	t.single.CursorEnd()
}

// SubmitDisabled reports whether the Send button is disabled.
func (t TextInput) SubmitDisabled() bool {
	return t.Value() == ""
}

// Composing reports whether input-method composition is in progress.
func (t TextInput) Composing() bool {
	return t.composing
}

// Invalid returns the reason the last submit was rejected, if any.
func (t TextInput) Invalid() string {
	return t.invalid
}

// Focused returns whether any part of the input has focus.
func (t TextInput) Focused() bool {
	return t.focus != focusNone
}

// FieldFocused returns whether the text field has focus.
func (t TextInput) FieldFocused() bool {
	return t.focus == focusField
}

// Focus focuses the text field.
func (t *TextInput) Focus() tea.Cmd {
	t.focus = focusField
	if t.props.Multiline {
		return t.multi.Focus()
	}
	return t.single.Focus()
}

// Blur removes focus from the field and both buttons.
func (t *TextInput) Blur() {
	t.focus = focusNone
	t.blurField()
}

func (t *TextInput) blurField() {
	if t.props.Multiline {
		t.multi.Blur()
		return
	}
	t.single.Blur()
}

// SetWidth sets the total width of the input row.
func (t *TextInput) SetWidth(w int) {
	t.width = w

	fieldWidth := w - t.sendButton().Width() - t.deleteButton().Width() - 2*buttonGap
	if fieldWidth < minFieldWidth {
		fieldWidth = minFieldWidth
	}

	t.multi.SetWidth(fieldWidth)
	// textinput width excludes the prompt and the trailing cursor cell
	t.single.Width = fieldWidth - lipgloss.Width(t.single.Prompt) - 1
}

// SetOrigin records where the input is drawn on screen, for mouse hit-testing.
func (t *TextInput) SetOrigin(x, y int) {
	t.originX = x
	t.originY = y
}

// Send activates the Send button. Disabled buttons ignore activation.
func (t *TextInput) Send() tea.Cmd {
	if t.SubmitDisabled() {
		return nil
	}
	return t.submit()
}

// Delete activates the Delete button.
func (t *TextInput) Delete() tea.Cmd {
	if t.props.OnDelete == nil {
		return nil
	}
	return t.props.OnDelete()
}

// submit forwards a non-empty valid value to OnSubmit, then always clears
// the field.
func (t *TextInput) submit() tea.Cmd {
	var cmd tea.Cmd

	value := t.Value()
	if value != "" {
		if err := t.validate(value); err != nil {
			t.invalid = validation.Reason(err)
		} else {
			t.invalid = ""
			if t.props.OnSubmit != nil {
				cmd = t.props.OnSubmit(value)
			}
		}
	}

	t.setValue("")
	return cmd
}

func (t TextInput) validate(value string) error {
	if t.props.Validator == nil {
		return nil
	}
	return t.props.Validator.Validate(value)
}

// Update handles composition, key and mouse messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	switch msg := msg.(type) {
	case CompositionMsg:
		t.composing = msg.Active
		return t, nil

	case tea.MouseMsg:
		return t, t.handleMouse(msg)

	case tea.KeyMsg:
		if t.focus == focusNone {
			return t, nil
		}
		return t, t.handleKey(msg)
	}

	// Cursor blink and other internal messages
	if t.focus == focusField {
		return t, t.updateField(msg)
	}
	return t, nil
}

func (t *TextInput) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return t.Send()
	case "ctrl+d":
		return t.Delete()
	case "tab":
		return t.cycleFocus(1)
	case "shift+tab":
		return t.cycleFocus(-1)
	case "esc":
		t.Blur()
		return nil
	}

	switch t.focus {
	case focusSend:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			return t.Send()
		}
		return nil
	case focusDelete:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace {
			return t.Delete()
		}
		return nil
	}

	if msg.Type == tea.KeyEnter && !msg.Alt {
		// Enter inside a paste or an IME composition is part of the text
		// being composed, not a request to send.
		if t.composing || msg.Paste {
			return nil
		}
		return t.submit()
	}

	cmd := t.updateField(msg)
	t.invalid = ""
	return cmd
}

func (t *TextInput) updateField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if t.props.Multiline {
		t.multi, cmd = t.multi.Update(msg)
	} else {
		t.single, cmd = t.single.Update(msg)
	}
	return cmd
}

// cycleFocus moves focus field → send → delete, skipping a disabled Send.
func (t *TextInput) cycleFocus(dir int) tea.Cmd {
	order := []inputFocus{focusField, focusSend, focusDelete}

	idx := 0
	for i, f := range order {
		if f == t.focus {
			idx = i
		}
	}
	for {
		idx = (idx + dir + len(order)) % len(order)
		if order[idx] != focusSend || !t.SubmitDisabled() {
			break
		}
	}

	if order[idx] == focusField {
		return t.Focus()
	}
	t.blurField()
	t.focus = order[idx]
	return nil
}

func (t *TextInput) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease {
		return nil
	}
	if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
		return nil
	}

	field, send, del := t.layout()
	switch {
	case send.contains(msg.X, msg.Y):
		return t.Send()
	case del.contains(msg.X, msg.Y):
		return t.Delete()
	case field.contains(msg.X, msg.Y):
		return t.Focus()
	}
	return nil
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout returns the screen regions of the field and the two buttons.
// Buttons sit on the last line of the field.
func (t TextInput) layout() (field, send, del rect) {
	fieldView := t.fieldView()
	top := t.originY + 1 // rule above the row

	field = rect{x: t.originX, y: top, w: lipgloss.Width(fieldView), h: lipgloss.Height(fieldView)}
	buttonY := top + field.h - 1

	sb, db := t.sendButton(), t.deleteButton()
	send = rect{x: field.x + field.w + buttonGap, y: buttonY, w: sb.Width(), h: 1}
	del = rect{x: send.x + send.w + buttonGap, y: buttonY, w: db.Width(), h: 1}
	return field, send, del
}

func (t TextInput) sendButton() Button {
	b := NewSendButton(t.props.SendButtonColor)
	b.Disabled = t.SubmitDisabled()
	b.Focused = t.focus == focusSend
	return b
}

func (t TextInput) deleteButton() Button {
	b := NewDeleteButton(t.props.SendButtonColor)
	b.Focused = t.focus == focusDelete
	return b
}

func (t TextInput) fieldView() string {
	if t.props.Multiline {
		return t.multi.View()
	}
	return t.single.View()
}

// View renders the input row and, after a rejected submit, the reason.
func (t TextInput) View() string {
	gap := lipgloss.NewStyle().Width(buttonGap).Render("")
	row := lipgloss.JoinHorizontal(lipgloss.Bottom,
		t.fieldView(),
		gap,
		t.sendButton().View(),
		gap,
		t.deleteButton().View(),
	)

	container := styles.InputContainer.
		Background(lipgloss.Color(t.props.BackgroundColor)).
		Foreground(lipgloss.Color(t.props.TextColor))
	if t.width > 0 {
		container = container.Width(t.width)
	}

	out := container.Render(row)
	if t.invalid != "" {
		out += "\n" + styles.InputInvalid.Render("! "+t.invalid)
	}
	return out
}
