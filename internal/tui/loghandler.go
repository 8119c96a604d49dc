package tui

import (
	"context"
	"log/slog"

	"github.com/athyr-tech/athyr-chat/internal/events"
)

// LogHandler is an slog.Handler that emits LogEvents to an EventBus.
// It also forwards logs to an underlying handler if provided.
type LogHandler struct {
	eventBus    events.EventBus
	underlying  slog.Handler
	level       slog.Leveler
	attrs       []slog.Attr
	groupPrefix string
}

// NewLogHandler creates a new LogHandler that emits to the given EventBus.
// If underlying is provided, logs are also forwarded there.
func NewLogHandler(eventBus events.EventBus, underlying slog.Handler, level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{
		eventBus:   eventBus,
		underlying: underlying,
		level:      level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle emits the record as a LogEvent.
func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.qualify(a.Key)] = a.Value.Any()
		return true
	})

	if h.eventBus != nil {
		h.eventBus.Send(events.LogEvent{
			Time:    r.Time,
			Level:   toLogLevel(r.Level),
			Message: r.Message,
			Attrs:   attrs,
		})
	}

	if h.underlying != nil {
		return h.underlying.Handle(ctx, r)
	}
	return nil
}

func (h *LogHandler) qualify(key string) string {
	if h.groupPrefix == "" {
		return key
	}
	return h.groupPrefix + "." + key
}

func toLogLevel(l slog.Level) events.LogLevel {
	switch {
	case l < slog.LevelInfo:
		return events.LogLevelDebug
	case l < slog.LevelWarn:
		return events.LogLevelInfo
	case l < slog.LevelError:
		return events.LogLevelWarn
	default:
		return events.LogLevelError
	}
}

// WithAttrs returns a new handler with the given attributes. Keys are
// qualified with the current group when added.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}

	var underlying slog.Handler
	if h.underlying != nil {
		underlying = h.underlying.WithAttrs(attrs)
	}

	return &LogHandler{
		eventBus:    h.eventBus,
		underlying:  underlying,
		level:       h.level,
		attrs:       newAttrs,
		groupPrefix: h.groupPrefix,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	var underlying slog.Handler
	if h.underlying != nil {
		underlying = h.underlying.WithGroup(name)
	}

	return &LogHandler{
		eventBus:    h.eventBus,
		underlying:  underlying,
		level:       h.level,
		attrs:       h.attrs,
		groupPrefix: h.qualify(name),
	}
}

// NewTUILogger creates a logger that only feeds the Logs tab.
func NewTUILogger(eventBus events.EventBus, level slog.Leveler) *slog.Logger {
	return slog.New(NewLogHandler(eventBus, nil, level))
}

// NewTUILoggerWithFallback creates a logger that feeds the Logs tab and
// also writes to fallback, typically a file handler for debugging.
func NewTUILoggerWithFallback(eventBus events.EventBus, level slog.Leveler, fallback slog.Handler) *slog.Logger {
	return slog.New(NewLogHandler(eventBus, fallback, level))
}

var _ slog.Handler = (*LogHandler)(nil)
