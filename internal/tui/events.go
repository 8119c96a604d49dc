package tui

import (
	"time"

	"github.com/athyr-tech/athyr-chat/internal/events"
	"github.com/athyr-tech/athyr-chat/internal/transcript"
)

// EventMsg wraps an events.Event for Bubble Tea's message system.
type EventMsg struct {
	Event events.Event
}

// ReplyMsg is sent when the agent replies on the reply topic.
type ReplyMsg struct {
	Time    time.Time
	Content string
}

// InputSubmittedMsg is emitted by the chat input's submit callback.
type InputSubmittedMsg struct {
	Value string
}

// InputDeletedMsg is emitted by the chat input's delete callback.
type InputDeletedMsg struct{}

// SubmitResultMsg reports the outcome of publishing a chat message.
type SubmitResultMsg struct {
	ID    string
	Error error
}

// ClearResultMsg reports the outcome of deleting the conversation remotely.
type ClearResultMsg struct {
	Error error
}

// HistoryLoadedMsg carries the conversation restored from the transcript.
type HistoryLoadedMsg struct {
	Generation int
	Entries    []transcript.Entry
	Error      error
}
