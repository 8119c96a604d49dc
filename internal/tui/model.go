package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/device"
	"github.com/athyr-tech/athyr-chat/internal/events"
	"github.com/athyr-tech/athyr-chat/internal/session"
	"github.com/athyr-tech/athyr-chat/internal/transcript"
	"github.com/athyr-tech/athyr-chat/internal/tui/components"
	"github.com/athyr-tech/athyr-chat/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// publishTimeout bounds a single publish to the Athyr server.
	publishTimeout = 10 * time.Second
	// storeTimeout bounds a single transcript read or write.
	storeTimeout = 5 * time.Second
)

// Session is the part of session.Client the TUI drives.
type Session interface {
	SessionID() string
	Submit(ctx context.Context, content string) (session.Message, error)
	Clear(ctx context.Context) error
	OnReply(fn session.ReplyFunc)
}

// Transcript persists the conversation between runs.
type Transcript interface {
	Append(ctx context.Context, e transcript.Entry) (transcript.Entry, error)
	Recent(ctx context.Context, conversation string, limit int) ([]transcript.Entry, error)
	Clear(ctx context.Context, conversation string) error
}

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	cfg        *config.Config
	eventBus   events.EventBus
	session    Session    // nil when offline
	journal    *journal // nil keeps history in memory only
	historyGen int      // bumped on delete; older history loads are stale
	logger     *slog.Logger
	serverAddr string

	width  int
	height int

	tabs      components.Tabs
	chat      components.Chat
	dashboard components.Dashboard
	logs      components.Logs
	help      components.Help

	ready    bool
	quitting bool
	showHelp bool
}

// NewModel creates the root model and mounts the chat input.
func NewModel(opts Options) Model {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	detector := opts.Device
	if detector == nil {
		detector = device.Static(false)
	}

	info := components.SessionInfo{
		Name:        cfg.Session.Name,
		Server:      opts.ServerAddr,
		SubmitTopic: cfg.Session.SubmitTopic,
		ReplyTopic:  cfg.Session.ReplyTopic,
		DeleteTopic: cfg.Session.DeleteTopic,
		Mobile:      detector.IsMobile(),
		Offline:     opts.Session == nil,
		Rules:       describeRules(cfg.Validation),
	}
	if opts.Session != nil {
		info.SessionID = opts.Session.SessionID()
	}

	chat := components.NewChat(components.TextInputProps{
		Placeholder:     cfg.Input.Placeholder,
		BackgroundColor: cfg.Input.BackgroundColor,
		TextColor:       cfg.Input.TextColor,
		SendButtonColor: cfg.Input.SendButtonColor,
		DefaultValue:    cfg.Input.DefaultValue,
		FontSize:        cfg.Input.FontSize,
		Multiline:       cfg.Input.Multiline,
		CharLimit:       cfg.Input.CharLimit,
		Validator:       opts.Validator,
		Device:          detector,
		OnSubmit: func(value string) tea.Cmd {
			return func() tea.Msg { return InputSubmittedMsg{Value: value} }
		},
		OnDelete: func() tea.Cmd {
			return func() tea.Msg { return InputDeletedMsg{} }
		},
	})
	var j *journal
	if opts.Transcript != nil {
		j = newJournal(opts.Transcript, logger)
	}

	chat.SetMarkdown(cfg.History.RenderMarkdown())
	chat.SetMaxMessages(cfg.History.MaxMessages)
	chat.Mount()

	return Model{
		cfg:        cfg,
		eventBus:   opts.EventBus,
		session:    opts.Session,
		journal:    j,
		logger:     logger,
		serverAddr: opts.ServerAddr,
		tabs:       components.NewTabs(components.DefaultTabs()),
		chat:       chat,
		dashboard:  components.NewDashboard(info),
		logs:       components.NewLogs(),
		help:       components.NewHelp(),
	}
}

// describeRules lists the active validation rules for the Session tab.
func describeRules(v config.ValidationConfig) []string {
	var rules []string
	if v.IsRequired() {
		rules = append(rules, "required")
	}
	if v.MinLength > 0 {
		rules = append(rules, fmt.Sprintf("min length %d", v.MinLength))
	}
	if v.MaxLength > 0 {
		rules = append(rules, fmt.Sprintf("max length %d", v.MaxLength))
	}
	if v.Pattern != "" {
		rules = append(rules, "pattern "+v.Pattern)
	}
	if v.Script != "" {
		rules = append(rules, "script "+v.Script)
	}
	return rules
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenForEvents(m.eventBus),
		m.chat.Init(),
		m.loadHistory(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		switch m.tabs.Active() {
		case components.TabChat:
			m.chat, cmd = m.chat.Update(msg)
		case components.TabSession:
			m.dashboard, cmd = m.dashboard.Update(msg)
		case components.TabLogs:
			m.logs, cmd = m.logs.Update(msg)
		}
		cmds = append(cmds, cmd)

	case HistoryLoadedMsg:
		if msg.Generation != m.historyGen {
			break
		}
		if msg.Error != nil {
			m.chat.AddErrorMessage("Failed to restore history: " + msg.Error.Error())
			break
		}
		if len(msg.Entries) > 0 {
			restored := make([]components.ChatMessage, 0, len(msg.Entries))
			for _, e := range msg.Entries {
				restored = append(restored, components.ChatMessage{Time: e.Time, Role: e.Role, Content: e.Content})
			}
			m.chat.Restore(restored)
			m.chat.AddSystemMessage(fmt.Sprintf("Restored %d messages.", len(msg.Entries)))
		}

	case InputSubmittedMsg:
		m.chat.AddUserMessage(msg.Value)
		cmds = append(cmds, m.record(transcript.RoleUser, msg.Value))
		if m.session == nil {
			m.chat.AddSystemMessage("Offline: message not sent.")
			break
		}
		// Without a reply topic nothing will ever answer.
		if m.cfg.Session.ReplyTopic != "" {
			m.chat.SetSending(true)
		}
		cmds = append(cmds, m.submit(msg.Value))

	case SubmitResultMsg:
		if msg.Error != nil {
			m.chat.SetSending(false)
			m.chat.AddErrorMessage(msg.Error.Error())
		}

	case InputDeletedMsg:
		m.chat.Clear()
		m.historyGen++
		cmds = append(cmds, m.forget())
		if m.session != nil {
			cmds = append(cmds, m.clear())
		}

	case ClearResultMsg:
		if msg.Error != nil {
			m.chat.AddErrorMessage(msg.Error.Error())
		}

	case ReplyMsg:
		m.chat.SetSending(false)
		m.chat.AddAssistantMessage(msg.Content)
		m.tabs.Notify(components.TabChat)
		cmds = append(cmds, m.record(transcript.RoleAssistant, msg.Content))

	case EventMsg:
		m.handleEvent(msg.Event)
		cmds = append(cmds, listenForEvents(m.eventBus))

	default:
		// Cursor blink, composition and other input messages
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// A focused chat input owns the keyboard, tab and q included.
	if m.tabs.Active() == components.TabChat && m.chat.Focused() {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	switch key {
	case "?":
		m.showHelp = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab", "1", "2", "3":
		m.tabs.Update(msg)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.tabs.Active() {
	case components.TabChat:
		m.chat, cmd = m.chat.Update(msg)
	case components.TabSession:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case components.TabLogs:
		m.logs, cmd = m.logs.Update(msg)
	}
	return m, cmd
}

// handleEvent routes a session or log event to its component.
func (m *Model) handleEvent(event events.Event) {
	switch e := event.(type) {
	case events.StatusEvent:
		m.dashboard.SetConnected(e.Connected)
		m.dashboard.SetAgentID(e.AgentID)
		if e.Error != nil {
			m.dashboard.SetError(e.Error.Error())
			m.tabs.Notify(components.TabSession)
		}

	case events.MessageEvent:
		m.dashboard.AddMessage(components.Message{
			Time:      e.Time,
			Direction: components.MessageDirection(e.Direction),
			ID:        e.ID,
			Topic:     e.Topic,
			Content:   e.Content,
		})

	case events.LogEvent:
		m.logs.AddLog(components.LogEntry{
			Time:    e.Time,
			Level:   components.LogLevel(e.Level),
			Message: e.Message,
			Attrs:   e.Attrs,
		})
		if e.Level >= events.LogLevelWarn {
			m.tabs.Notify(components.TabLogs)
		}
	}
}

// submit publishes a chat message asynchronously.
func (m Model) submit(content string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		msg, err := s.Submit(ctx, content)
		return SubmitResultMsg{ID: msg.ID, Error: err}
	}
}

// clear deletes the conversation on the agent side asynchronously.
func (m Model) clear() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		return ClearResultMsg{Error: s.Clear(ctx)}
	}
}

// loadHistory reads the stored conversation for this session name.
func (m Model) loadHistory() tea.Cmd {
	if m.journal == nil {
		return nil
	}
	j, ticket, gen := m.journal, m.journal.ticket(), m.historyGen
	name, limit := m.cfg.Session.Name, m.cfg.History.MaxMessages
	return func() tea.Msg {
		msg := HistoryLoadedMsg{Generation: gen}
		j.run(ticket, func(ctx context.Context, store Transcript) {
			msg.Entries, msg.Error = store.Recent(ctx, name, limit)
		})
		return msg
	}
}

// record appends a message to the transcript. Failures are logged only.
func (m Model) record(role, content string) tea.Cmd {
	if m.journal == nil {
		return nil
	}
	j, ticket, logger := m.journal, m.journal.ticket(), m.logger
	entry := transcript.Entry{Conversation: m.cfg.Session.Name, Role: role, Content: content, Time: time.Now()}
	return func() tea.Msg {
		j.run(ticket, func(ctx context.Context, store Transcript) {
			if _, err := store.Append(ctx, entry); err != nil {
				logger.Warn("failed to record message", "role", role, "error", err)
			}
		})
		return nil
	}
}

// forget drops the stored conversation.
func (m Model) forget() tea.Cmd {
	if m.journal == nil {
		return nil
	}
	j, ticket, logger, name := m.journal, m.journal.ticket(), m.logger, m.cfg.Session.Name
	return func() tea.Msg {
		j.run(ticket, func(ctx context.Context, store Transcript) {
			if err := store.Clear(ctx, name); err != nil {
				logger.Warn("failed to clear transcript", "error", err)
			}
		})
		return nil
	}
}

// updateLayout updates component sizes based on current window size.
func (m *Model) updateLayout() {
	m.tabs.SetWidth(m.width)

	// Chrome: header, tab bar and the footer line.
	top := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.tabs.View())
	componentWidth := m.width
	componentHeight := m.height - top - 1
	if componentHeight < 5 {
		componentHeight = 5
	}

	m.chat.SetSize(componentWidth, componentHeight)
	m.chat.SetOrigin(0, top)
	m.dashboard.SetSize(componentWidth, componentHeight)
	m.logs.SetSize(componentWidth, componentHeight)
	m.help.SetSize(m.width, m.height)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return m.help.View()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.tabs.View())
	b.WriteString("\n")

	switch m.tabs.Active() {
	case components.TabChat:
		b.WriteString(m.chat.View())
	case components.TabSession:
		b.WriteString(m.dashboard.View())
	case components.TabLogs:
		b.WriteString(m.logs.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (m Model) renderHeader() string {
	title := styles.HeaderTitle.Render("athyr-chat: " + m.cfg.Session.Name)

	var statusStyle lipgloss.Style
	var statusText string
	switch {
	case m.session == nil:
		statusStyle, statusText = styles.Pending, "Offline"
	case m.dashboard.Connected():
		statusStyle, statusText = styles.Connected, "Connected"
	default:
		statusStyle, statusText = styles.Disconnected, "Disconnected"
	}
	status := statusStyle.Render("●")

	sessionID := ""
	if m.session != nil {
		sessionID = m.session.SessionID()
		if len(sessionID) > 8 {
			sessionID = sessionID[:8]
		}
	}

	right := fmt.Sprintf("[%s %s] %s", status, statusText, styles.Muted.Render(sessionID))

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if spacing < 0 {
		spacing = 0
	}

	headerLine := styles.Header.Render(title + strings.Repeat(" ", spacing) + right)
	separator := styles.Muted.Render(strings.Repeat("─", m.width))

	return headerLine + "\n" + separator
}

// renderFooter renders the bottom help bar.
func (m Model) renderFooter() string {
	var parts []string
	add := func(key, desc string) {
		parts = append(parts, styles.FooterKey.Render(key)+styles.FooterDesc.Render(": "+desc))
	}

	if m.tabs.Active() == components.TabChat && m.chat.Focused() {
		add("Enter", "send")
		add("Tab", "buttons")
		add("Ctrl+D", "delete")
		add("Esc", "unfocus")
		add("Ctrl+C", "quit")
		return styles.Footer.Render(strings.Join(parts, "  "))
	}

	add("q", "quit")
	if m.tabs.Active() == components.TabChat {
		add("i", "focus input")
	}
	add("↑/↓", "scroll")
	add("Tab", "switch")
	add("1-3", "tabs")
	add("?", "help")

	return styles.Footer.Render(strings.Join(parts, "  "))
}

// listenForEvents creates a command that waits for the next event from the bus.
func listenForEvents(eventBus events.EventBus) tea.Cmd {
	if eventBus == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-eventBus.Events()
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}
