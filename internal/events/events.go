// Package events carries status, message and log events from the session
// and the logger to the TUI.
package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of event.
type EventType int

const (
	EventTypeStatus EventType = iota
	EventTypeMessage
	EventTypeLog
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// StatusEvent indicates a change in connection status.
type StatusEvent struct {
	Time      time.Time
	Connected bool
	AgentID   string
	SessionID string
	Error     error
}

func (e StatusEvent) Type() EventType      { return EventTypeStatus }
func (e StatusEvent) Timestamp() time.Time { return e.Time }

// MessageDirection indicates whether a message is incoming or outgoing.
type MessageDirection int

const (
	MessageIncoming MessageDirection = iota
	MessageOutgoing
)

// MessageEvent represents a chat message sent or received.
type MessageEvent struct {
	Time      time.Time
	Direction MessageDirection
	ID        string
	Topic     string
	Content   string
}

func (e MessageEvent) Type() EventType      { return EventTypeMessage }
func (e MessageEvent) Timestamp() time.Time { return e.Time }

// LogLevel mirrors slog levels for the TUI.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// LogEvent represents a log entry.
type LogEvent struct {
	Time    time.Time
	Level   LogLevel
	Message string
	Attrs   map[string]any
}

func (e LogEvent) Type() EventType      { return EventTypeLog }
func (e LogEvent) Timestamp() time.Time { return e.Time }

// EventBus receives events for TUI consumption.
type EventBus interface {
	// Send sends an event to the bus. Non-blocking; drops if buffer full.
	Send(event Event)
	// Events returns the channel to receive events from.
	Events() <-chan Event
	// Close closes the event bus.
	Close()
}

// ChannelEventBus is the default EventBus implementation using a buffered channel.
type ChannelEventBus struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
}

// NewEventBus creates a new ChannelEventBus with the given buffer size.
func NewEventBus(bufferSize int) *ChannelEventBus {
	return &ChannelEventBus{
		ch: make(chan Event, bufferSize),
	}
}

// Send sends an event to the bus. Non-blocking; drops if buffer full.
func (b *ChannelEventBus) Send(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.ch <- event:
	default:
	}
}

// Events returns the channel to receive events from.
func (b *ChannelEventBus) Events() <-chan Event {
	return b.ch
}

// Close closes the event bus. Safe to call more than once.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
