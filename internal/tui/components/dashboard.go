package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Dashboard shows the session details and its wire traffic side by side.
type Dashboard struct {
	status   Status
	messages Messages
	width    int
	height   int
	ready    bool
}

// NewDashboard creates a new Dashboard component.
func NewDashboard(info SessionInfo) Dashboard {
	return Dashboard{
		status:   NewStatus(info),
		messages: NewMessages(),
	}
}

// SetSize updates the component size.
func (d *Dashboard) SetSize(w, h int) {
	d.width = w
	d.height = h
	d.ready = true

	usableWidth := w - 2
	leftWidth := usableWidth * 2 / 5
	rightWidth := usableWidth - leftWidth

	d.status.SetSize(leftWidth, h)
	d.messages.SetSize(rightWidth, h)
}

// Update scrolls the traffic list.
func (d Dashboard) Update(msg tea.Msg) (Dashboard, tea.Cmd) {
	var cmd tea.Cmd
	d.messages, cmd = d.messages.Update(msg)
	return d, cmd
}

// View renders the dashboard filling exactly width × height.
func (d Dashboard) View() string {
	if !d.ready {
		return "Loading..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, d.status.View(), d.messages.View())
}

// SetConnected updates the connection status.
func (d *Dashboard) SetConnected(connected bool) {
	d.status.SetConnected(connected)
}

// SetAgentID updates the agent ID.
func (d *Dashboard) SetAgentID(id string) {
	d.status.SetAgentID(id)
}

// SetError sets an error message.
func (d *Dashboard) SetError(msg string) {
	d.status.SetError(msg)
}

// Connected returns the current connection status.
func (d Dashboard) Connected() bool {
	return d.status.Connected()
}

// AgentID returns the current agent ID.
func (d Dashboard) AgentID() string {
	return d.status.AgentID()
}

// Counts returns the number of sent and received messages.
func (d Dashboard) Counts() (sent, received int) {
	return d.status.Counts()
}

// AddMessage records a message in the traffic list and the counters.
func (d *Dashboard) AddMessage(msg Message) {
	d.messages.AddMessage(msg)
	if msg.Direction == MessageOutgoing {
		d.status.CountSent()
	} else {
		d.status.CountReceived()
	}
}
