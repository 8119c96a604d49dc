package components

import (
	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab indexes in DefaultTabs order.
const (
	TabChat = iota
	TabSession
	TabLogs
)

// Tab is one entry of the tab bar. Key is its digit shortcut.
type Tab struct {
	Name string
	Key  string
}

// DefaultTabs returns the chat client's tabs.
func DefaultTabs() []Tab {
	return []Tab{
		{Name: "Chat", Key: "1"},
		{Name: "Session", Key: "2"},
		{Name: "Logs", Key: "3"},
	}
}

// Tabs is the tab bar. A tab that received activity while hidden is
// marked until it is shown.
type Tabs struct {
	tabs   []Tab
	unseen []bool
	active int
	width  int
}

// NewTabs creates a tab bar with the first tab active.
func NewTabs(tabs []Tab) Tabs {
	return Tabs{tabs: tabs, unseen: make([]bool, len(tabs))}
}

// SetWidth updates the component width.
func (t *Tabs) SetWidth(w int) {
	t.width = w
}

// Active returns the index of the active tab.
func (t Tabs) Active() int {
	return t.active
}

// Notify marks a hidden tab as having unseen activity.
func (t *Tabs) Notify(idx int) {
	if idx >= 0 && idx < len(t.tabs) && idx != t.active {
		t.unseen[idx] = true
	}
}

// Unseen reports whether a tab is marked.
func (t Tabs) Unseen(idx int) bool {
	return idx >= 0 && idx < len(t.unseen) && t.unseen[idx]
}

func (t *Tabs) show(idx int) {
	t.active = idx
	t.unseen[idx] = false
}

// Update switches tabs on tab, shift+tab and the digit shortcuts.
func (t *Tabs) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(t.tabs) == 0 {
		return nil
	}

	switch key.String() {
	case "tab":
		t.show((t.active + 1) % len(t.tabs))
	case "shift+tab":
		t.show((t.active - 1 + len(t.tabs)) % len(t.tabs))
	default:
		for i, tab := range t.tabs {
			if tab.Key == key.String() {
				t.show(i)
				break
			}
		}
	}
	return nil
}

// View renders the tab bar.
func (t Tabs) View() string {
	labels := make([]string, 0, len(t.tabs))
	for i, tab := range t.tabs {
		style := styles.TabInactive
		if i == t.active {
			style = styles.TabActive
		}
		label := "[" + tab.Key + "] " + tab.Name
		if t.unseen[i] {
			label += " " + styles.Pending.Render("●")
		}
		labels = append(labels, style.Render(label))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, labels...)
	return styles.TabBar.Width(t.width).Render(row)
}
