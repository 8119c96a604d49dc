package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// MessageDirection indicates whether a message is incoming or outgoing.
type MessageDirection int

const (
	MessageIncoming MessageDirection = iota
	MessageOutgoing
)

// Message is one entry in the wire traffic log.
type Message struct {
	Time      time.Time
	Direction MessageDirection
	ID        string
	Topic     string
	Content   string
}

// maxMessages bounds the traffic log.
const maxMessages = 500

// Messages displays the raw traffic of the session as a scrollable list.
type Messages struct {
	messages []Message
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewMessages creates a new Messages component.
func NewMessages() Messages {
	return Messages{
		messages: make([]Message, 0),
	}
}

// SetSize updates the component size.
// w and h are the total panel dimensions.
func (m *Messages) SetSize(w, h int) {
	m.width = w
	m.height = h

	contentHeight := h - styles.PanelVerticalOverhead
	viewportHeight := contentHeight - 2
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	viewportWidth := w - styles.PanelHorizontalOverhead

	if m.ready {
		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
	} else {
		m.viewport = viewport.New(viewportWidth, viewportHeight)
		m.ready = true
	}
	m.updateContent()
}

// AddMessage appends a message and scrolls to it.
func (m *Messages) AddMessage(msg Message) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
	m.updateContent()
	m.viewport.GotoBottom()
}

// Len returns the number of messages held.
func (m Messages) Len() int {
	return len(m.messages)
}

// Update handles key messages for scrolling.
func (m Messages) Update(msg tea.Msg) (Messages, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Messages) updateContent() {
	if !m.ready {
		return
	}

	var lines []string
	for _, msg := range m.messages {
		lines = append(lines, m.formatMessage(msg))
	}

	if len(lines) == 0 {
		lines = append(lines, styles.Muted.Render("No traffic yet..."))
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m Messages) formatMessage(msg Message) string {
	timestamp := styles.MessageTimestamp.Render(msg.Time.Format("15:04:05"))

	dirStyle := styles.MessageIncoming
	dirIcon := "←"
	if msg.Direction == MessageOutgoing {
		dirStyle = styles.MessageOutgoing
		dirIcon = "→"
	}

	topic := styles.MessageTopic.Render(msg.Topic)

	content := strings.ReplaceAll(msg.Content, "\n", " ")
	maxLen := m.width - 30
	if maxLen > 3 && len(content) > maxLen {
		content = content[:maxLen-3] + "..."
	}

	result := fmt.Sprintf("%s %s %s %s", timestamp, dirStyle.Render(dirIcon), topic, content)
	if msg.ID != "" {
		id := msg.ID
		if len(id) > 8 {
			id = id[:8]
		}
		result += styles.Muted.Render(" #" + id)
	}
	return result
}

// View renders the messages panel filling exactly width × height.
func (m Messages) View() string {
	title := styles.PanelTitle.Render("Traffic")
	content := title + "\n" + m.viewport.View()
	return styles.Panel.Width(m.width).Height(m.height).Render(content)
}
