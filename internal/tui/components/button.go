package components

import (
	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Button is a one-line pill rendered next to the chat input.
type Button struct {
	Label    string
	Color    string
	Disabled bool
	Focused  bool
}

// NewSendButton creates the submit control.
func NewSendButton(color string) Button {
	return Button{Label: "Send", Color: color}
}

// NewDeleteButton creates the delete control.
func NewDeleteButton(color string) Button {
	return Button{Label: "Delete", Color: color}
}

// View renders the button.
func (b Button) View() string {
	bg := b.Color
	if b.Focused && !b.Disabled {
		bg = darken(bg, 15)
	}
	style := styles.Button.
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(readableOn(bg)))
	if b.Disabled {
		// washed out version of the button color
		faded := lighten(b.Color, 60)
		style = styles.ButtonDisabled.
			Background(lipgloss.Color(faded)).
			Foreground(lipgloss.Color(darken(faded, 35)))
	}
	if b.Focused {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(b.Label)
}

// Width returns the rendered width in cells.
func (b Button) Width() int {
	return lipgloss.Width(b.View())
}
