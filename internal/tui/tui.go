package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/device"
	"github.com/athyr-tech/athyr-chat/internal/events"
	"github.com/athyr-tech/athyr-chat/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI wraps the Bubble Tea program and provides a high-level interface.
type TUI struct {
	program *tea.Program
}

// Options configures the TUI.
type Options struct {
	Config     *config.Config
	EventBus   events.EventBus
	Session    Session // nil runs offline
	Device     device.Detector
	Validator  validation.Validator
	Transcript Transcript // optional persistent history
	Logger     *slog.Logger
	ServerAddr string // Athyr server address
}

// New creates a new TUI instance.
func New(opts Options) (*TUI, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.EventBus == nil {
		return nil, fmt.Errorf("event bus is required")
	}

	program := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Replies arrive on SDK goroutines and enter the event loop as messages.
	if opts.Session != nil {
		opts.Session.OnReply(func(timestamp time.Time, content string) {
			program.Send(ReplyMsg{Time: timestamp, Content: content})
		})
	}

	return &TUI{program: program}, nil
}

// Run starts the TUI and blocks until it exits.
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// Quit gracefully quits the TUI.
func (t *TUI) Quit() {
	t.program.Quit()
}

// Send injects a message into the program from outside the event loop.
func (t *TUI) Send(msg tea.Msg) {
	t.program.Send(msg)
}
