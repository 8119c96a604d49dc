package components

import (
	"strings"

	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Help displays a keyboard shortcuts overlay.
type Help struct {
	width  int
	height int
}

// NewHelp creates a new Help component.
func NewHelp() Help {
	return Help{}
}

// SetSize updates the component size.
func (h *Help) SetSize(w, ht int) {
	h.width = w
	h.height = ht
}

// View renders the help overlay.
func (h Help) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(styles.ColorAccent).
		Bold(true).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(styles.ColorAccent).
		Width(15)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.ColorForeground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	// Global
	b.WriteString(sectionStyle.Render("Global"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("q") + descStyle.Render("Quit (input unfocused)") + "\n")
	b.WriteString(keyStyle.Render("Ctrl+C") + descStyle.Render("Force quit") + "\n")
	b.WriteString(keyStyle.Render("?") + descStyle.Render("Toggle this help") + "\n")

	// Navigation
	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("Tab") + descStyle.Render("Next tab") + "\n")
	b.WriteString(keyStyle.Render("Shift+Tab") + descStyle.Render("Previous tab") + "\n")
	b.WriteString(keyStyle.Render("1-3") + descStyle.Render("Jump to tab") + "\n")
	b.WriteString(keyStyle.Render("↑/↓ PgUp/PgDn") + descStyle.Render("Scroll") + "\n")

	// Chat input
	b.WriteString(sectionStyle.Render("Chat Input"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("i") + descStyle.Render("Focus input") + "\n")
	b.WriteString(keyStyle.Render("Enter") + descStyle.Render("Send message") + "\n")
	b.WriteString(keyStyle.Render("Alt+Enter") + descStyle.Render("New line (multi-line)") + "\n")
	b.WriteString(keyStyle.Render("Tab") + descStyle.Render("Field, Send, Delete") + "\n")
	b.WriteString(keyStyle.Render("Ctrl+S") + descStyle.Render("Send") + "\n")
	b.WriteString(keyStyle.Render("Ctrl+D") + descStyle.Render("Delete conversation") + "\n")
	b.WriteString(keyStyle.Render("Esc") + descStyle.Render("Unfocus input") + "\n")

	// Footer
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Press any key to close"))

	// Center the content in a box
	content := b.String()

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorPrimary).
		Padding(1, 3).
		Width(54)

	box := boxStyle.Render(content)

	// Center on screen
	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
