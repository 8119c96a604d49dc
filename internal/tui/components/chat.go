package components

import (
	"strings"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatMessage represents a message in the chat history.
type ChatMessage struct {
	Time    time.Time
	Role    string // "user", "assistant", "system", "error"
	Content string
}

// chatTitleHeight is the panel title plus its margin.
const chatTitleHeight = 2

// Chat shows the conversation history above the chat input.
type Chat struct {
	messages []ChatMessage
	input    TextInput
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	sending  bool
	markdown bool
	limit    int // 0 keeps everything

	originX, originY int
}

// NewChat creates a new Chat component around an input built from props.
func NewChat(props TextInputProps) Chat {
	return Chat{
		messages: make([]ChatMessage, 0),
		input:    NewTextInput(props),
	}
}

// SetMarkdown toggles markdown rendering of assistant replies.
func (c *Chat) SetMarkdown(on bool) {
	c.markdown = on
	c.updateContent()
}

// SetMaxMessages caps the history, dropping the oldest messages first.
func (c *Chat) SetMaxMessages(n int) {
	c.limit = n
	c.trim()
	c.updateContent()
}

// Mount places the input on screen, focusing it unless on a mobile device.
func (c *Chat) Mount() tea.Cmd {
	return c.input.Mount()
}

// Init returns the input's blink command when it has focus.
func (c Chat) Init() tea.Cmd {
	return c.input.Init()
}

// inputHeight is the rule above the input, the field and the validation line.
func (c Chat) inputHeight() int {
	field := 1
	if c.input.props.Multiline {
		field = multilineHeight
	}
	return 1 + field + 1
}

// SetSize updates the component size.
// w and h are the total panel dimensions.
func (c *Chat) SetSize(w, h int) {
	c.width = w
	c.height = h

	contentHeight := h - styles.PanelVerticalOverhead
	viewportHeight := contentHeight - c.inputHeight() - chatTitleHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	contentWidth := w - styles.PanelHorizontalOverhead
	c.input.SetWidth(contentWidth)

	if c.ready {
		c.viewport.Width = contentWidth
		c.viewport.Height = viewportHeight
	} else {
		c.viewport = viewport.New(contentWidth, viewportHeight)
		c.ready = true
	}

	c.updateContent()
	c.placeInput()
}

// SetOrigin records the screen position of the panel's top-left corner.
func (c *Chat) SetOrigin(x, y int) {
	c.originX = x
	c.originY = y
	c.placeInput()
}

func (c *Chat) placeInput() {
	c.input.SetOrigin(
		c.originX+styles.PanelContentLeft,
		c.originY+styles.PanelContentTop+chatTitleHeight+c.viewport.Height,
	)
}

// Focused returns whether the input holds focus.
func (c Chat) Focused() bool {
	return c.input.Focused()
}

// Focus focuses the input field.
func (c *Chat) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur unfocuses the input.
func (c *Chat) Blur() {
	c.input.Blur()
}

// Input returns the chat input.
func (c Chat) Input() TextInput {
	return c.input
}

// Messages returns the chat history.
func (c Chat) Messages() []ChatMessage {
	return c.messages
}

// Sending reports whether a reply is awaited.
func (c Chat) Sending() bool {
	return c.sending
}

// SetSending toggles the pending reply indicator.
func (c *Chat) SetSending(sending bool) {
	c.sending = sending
	c.updateContent()
}

// AddUserMessage adds a user message to the history.
func (c *Chat) AddUserMessage(content string) {
	c.add("user", content)
}

// AddAssistantMessage adds an assistant message to the history.
func (c *Chat) AddAssistantMessage(content string) {
	c.add("assistant", content)
}

// AddSystemMessage adds a client notice to the history.
func (c *Chat) AddSystemMessage(content string) {
	c.add("system", content)
}

// AddErrorMessage adds an error message to the history.
func (c *Chat) AddErrorMessage(content string) {
	c.add("error", content)
}

func (c *Chat) add(role, content string) {
	c.messages = append(c.messages, ChatMessage{
		Time:    time.Now(),
		Role:    role,
		Content: content,
	})
	c.trim()
	c.updateContent()
	c.viewport.GotoBottom()
}

// Restore puts earlier messages in front of the current history.
func (c *Chat) Restore(msgs []ChatMessage) {
	c.messages = append(append([]ChatMessage{}, msgs...), c.messages...)
	c.trim()
	c.updateContent()
	c.viewport.GotoBottom()
}

func (c *Chat) trim() {
	if c.limit > 0 && len(c.messages) > c.limit {
		c.messages = append(c.messages[:0], c.messages[len(c.messages)-c.limit:]...)
	}
}

// Clear drops the whole history.
func (c *Chat) Clear() {
	c.messages = c.messages[:0]
	c.sending = false
	c.updateContent()
	c.viewport.GotoTop()
}

// Update routes keys to the input while it has focus, otherwise to the
// history viewport.
func (c Chat) Update(msg tea.Msg) (Chat, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !c.input.Focused() {
			if msg.String() == "i" {
				return c, c.input.Focus()
			}
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

func (c *Chat) updateContent() {
	if !c.ready {
		return
	}

	var lines []string
	for _, msg := range c.messages {
		lines = append(lines, c.formatMessage(msg))
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		lines = append(lines, styles.Muted.Render("Start a conversation..."))
	}

	if c.sending {
		lines = append(lines, styles.Pending.Render("● Waiting for reply..."))
	}

	c.viewport.SetContent(strings.Join(lines, "\n"))
}

func (c Chat) formatMessage(msg ChatMessage) string {
	var roleStyle lipgloss.Style
	var roleLabel string

	switch msg.Role {
	case "user":
		roleStyle = styles.ChatUser
		roleLabel = "You"
	case "assistant":
		roleStyle = styles.ChatAssistant
		roleLabel = "Assistant"
	case "system":
		roleStyle = styles.ChatSystem
		roleLabel = "System"
	case "error":
		roleStyle = styles.LogError
		roleLabel = "Error"
	}

	timestamp := styles.MessageTimestamp.Render(msg.Time.Format("15:04:05"))
	header := timestamp + " " + roleStyle.Render(roleLabel+":")

	content := msg.Content
	maxWidth := c.width - 8
	switch {
	case msg.Role == "assistant" && c.markdown:
		content = renderMarkdown(content, maxWidth)
	case maxWidth > 0:
		content = wordWrap(content, maxWidth)
	}

	return header + "\n" + content
}

// View renders the chat panel filling exactly width × height.
func (c Chat) View() string {
	title := styles.PanelTitle.Render("Chat")
	content := title + "\n" + c.viewport.View() + "\n" + c.input.View()
	return styles.Panel.Width(c.width).Height(c.height).Render(content)
}

// wordWrap wraps text to fit within maxWidth cells.
func wordWrap(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if lipgloss.Width(currentLine)+1+lipgloss.Width(word) > maxWidth {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			} else {
				currentLine += " " + word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}
