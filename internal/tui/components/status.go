package components

import (
	"fmt"
	"strings"

	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// SessionInfo holds the static details of the chat session.
type SessionInfo struct {
	Name        string
	Server      string // Athyr server address
	SessionID   string
	SubmitTopic string
	ReplyTopic  string
	DeleteTopic string
	Mobile      bool
	Offline     bool
	Rules       []string // human-readable validation rules
}

// Status displays the connection and session panel.
type Status struct {
	info      SessionInfo
	agentID   string
	connected bool
	errorMsg  string
	sent      int
	received  int
	width     int
	height    int
	viewport  viewport.Model
	ready     bool
}

// NewStatus creates a new Status component.
func NewStatus(info SessionInfo) Status {
	return Status{
		info: info,
	}
}

// SetSize updates the component size.
func (s *Status) SetSize(w, h int) {
	s.width = w
	s.height = h

	contentHeight := h - styles.PanelVerticalOverhead
	viewportHeight := contentHeight - 2
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	viewportWidth := w - styles.PanelHorizontalOverhead

	if s.ready {
		s.viewport.Width = viewportWidth
		s.viewport.Height = viewportHeight
	} else {
		s.viewport = viewport.New(viewportWidth, viewportHeight)
		s.ready = true
	}
	s.updateContent()
}

// SetConnected updates the connection status.
func (s *Status) SetConnected(connected bool) {
	s.connected = connected
	if connected {
		s.errorMsg = ""
	}
	s.updateContent()
}

// SetAgentID updates the agent ID assigned by the server.
func (s *Status) SetAgentID(id string) {
	s.agentID = id
	s.updateContent()
}

// SetError sets an error message.
func (s *Status) SetError(msg string) {
	s.errorMsg = msg
	s.updateContent()
}

// CountSent records an outgoing message.
func (s *Status) CountSent() {
	s.sent++
	s.updateContent()
}

// CountReceived records an incoming reply.
func (s *Status) CountReceived() {
	s.received++
	s.updateContent()
}

// Connected returns the current connection status.
func (s Status) Connected() bool {
	return s.connected
}

// AgentID returns the current agent ID.
func (s Status) AgentID() string {
	return s.agentID
}

// Counts returns the number of sent and received messages.
func (s Status) Counts() (sent, received int) {
	return s.sent, s.received
}

func (s *Status) updateContent() {
	if !s.ready {
		return
	}

	var b strings.Builder
	label := styles.Muted

	var statusIcon, statusText string
	var statusStyle lipgloss.Style
	switch {
	case s.info.Offline:
		statusIcon, statusText, statusStyle = "○", "Offline", styles.Pending
	case s.connected:
		statusIcon, statusText, statusStyle = "●", "Connected", styles.Connected
	default:
		statusIcon, statusText, statusStyle = "○", "Disconnected", styles.Disconnected
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", statusStyle.Render(statusIcon), statusStyle.Render(statusText)))

	b.WriteString(fmt.Sprintf("%s %s\n", label.Render("Session:"), s.info.Name))
	b.WriteString(fmt.Sprintf("%s %s\n", label.Render("ID:"), s.info.SessionID))
	if s.agentID != "" {
		id := s.agentID
		if len(id) > 20 {
			id = id[:17] + "..."
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label.Render("Agent:"), id))
	}
	if !s.info.Offline {
		b.WriteString(fmt.Sprintf("%s %s\n", label.Render("Athyr:"), s.info.Server))
	}

	device := "desktop"
	if s.info.Mobile {
		device = "mobile"
	}
	b.WriteString(fmt.Sprintf("%s %s\n", label.Render("Device:"), device))

	b.WriteString("\n")
	b.WriteString(label.Render("Topics:") + "\n")
	writeTopic(&b, "submit", s.info.SubmitTopic)
	writeTopic(&b, "reply", s.info.ReplyTopic)
	writeTopic(&b, "delete", s.info.DeleteTopic)

	if len(s.info.Rules) > 0 {
		b.WriteString("\n")
		b.WriteString(label.Render("Validation:") + "\n")
		for _, rule := range s.info.Rules {
			b.WriteString("  " + rule + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d  %s %d\n", label.Render("Sent:"), s.sent, label.Render("Received:"), s.received))

	if s.errorMsg != "" {
		errMsg := s.errorMsg
		maxLen := s.width - 10
		if maxLen > 3 && len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen-3] + "..."
		}
		b.WriteString(fmt.Sprintf("\n%s", styles.LogError.Render("Error: "+errMsg)))
	}

	s.viewport.SetContent(b.String())
}

func writeTopic(b *strings.Builder, name, topic string) {
	if topic == "" {
		b.WriteString(fmt.Sprintf("  %-7s %s\n", name, styles.Muted.Render("-")))
		return
	}
	b.WriteString(fmt.Sprintf("  %-7s %s\n", name, styles.MessageTopic.Render(topic)))
}

// View renders the status panel filling exactly width × height.
func (s Status) View() string {
	title := styles.PanelTitle.Render("Session")
	content := title + "\n" + s.viewport.View()
	return styles.Panel.Width(s.width).Height(s.height).Render(content)
}
