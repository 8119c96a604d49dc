// Package session connects a chat input to an Athyr agent: submitted values
// are published to the agent's input topic and replies are watched on its
// output topic.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/events"

	"github.com/athyr-tech/athyr-sdk-go/pkg/athyr"
	"github.com/google/uuid"
)

// ErrNotConnected is returned when publishing before Connect succeeded.
var ErrNotConnected = errors.New("session not connected")

// Options configures the session client.
type Options struct {
	ServerAddr string
	Insecure   bool
	Logger     *slog.Logger
	EventBus   events.EventBus // Optional: for TUI mode

	// Agent replaces the SDK agent built by Connect. Used by tests.
	Agent athyr.Agent
}

// Message is a chat message that was published.
type Message struct {
	ID        string
	SessionID string
	Content   string
	Time      time.Time
}

// ReplyFunc receives agent replies.
type ReplyFunc func(timestamp time.Time, content string)

// outgoing is the wire format understood by athyr-agent: session_id selects
// the conversation memory, content is the user text.
type outgoing struct {
	ID        string `json:"id,omitempty"`
	SessionID string `json:"session_id"`
	Content   string `json:"content,omitempty"`
	Action    string `json:"action,omitempty"`
}

// reply is the response format published by athyr-agent.
type reply struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// Client owns the Athyr connection for one chat session.
type Client struct {
	cfg       *config.Config
	opts      Options
	logger    *slog.Logger
	eventBus  events.EventBus
	sessionID string

	mu       sync.Mutex
	agent    athyr.Agent
	replySub athyr.Subscription
	onReply  ReplyFunc
}

// New creates a Client with a fresh session ID.
func New(cfg *config.Config, opts Options) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		cfg:       cfg,
		opts:      opts,
		logger:    opts.Logger,
		eventBus:  opts.EventBus,
		sessionID: uuid.New().String(),
	}, nil
}

// SessionID returns the ID sent with every message.
func (c *Client) SessionID() string {
	return c.sessionID
}

// OnReply sets the callback for agent replies.
func (c *Client) OnReply(fn ReplyFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReply = fn
}

// Connected reports whether Connect succeeded and Close was not called.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agent != nil && c.agent.Connected()
}

// emitEvent sends an event to the EventBus if one is configured.
func (c *Client) emitEvent(event events.Event) {
	if c.eventBus != nil {
		c.eventBus.Send(event)
	}
}

// Connect dials the Athyr server and starts watching the reply topic.
func (c *Client) Connect(ctx context.Context) error {
	connOpts, err := c.cfg.Connection.GetOptions()
	if err != nil {
		return fmt.Errorf("invalid connection config: %w", err)
	}

	agent := c.opts.Agent
	if agent == nil {
		agentOpts := []athyr.AgentOption{
			athyr.WithAgentCard(athyr.AgentCard{
				Name:        c.cfg.Session.Name,
				Description: "Interactive chat client",
				Version:     "1.0.0",
				Metadata: map[string]string{
					"client":     "athyr-chat",
					"session_id": c.sessionID,
				},
			}),
			athyr.WithLogger(newSDKLogger(c.logger)),
			athyr.WithRequestTimeout(connOpts.RequestTimeout),
			athyr.WithAutoReconnect(connOpts.MaxRetries, connOpts.BaseBackoff),
			athyr.WithMaxBackoff(connOpts.MaxBackoff),
		}
		if c.opts.Insecure {
			agentOpts = append(agentOpts, athyr.WithInsecure())
		}

		agent, err = athyr.NewAgent(c.opts.ServerAddr, agentOpts...)
		if err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}
	}

	c.logger.Info("connecting to server", "addr", c.opts.ServerAddr)
	if err := agent.Connect(ctx); err != nil {
		c.emitEvent(events.StatusEvent{
			Time:      time.Now(),
			Connected: false,
			SessionID: c.sessionID,
			Error:     err,
		})
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.agent = agent
	c.mu.Unlock()

	c.logger.Info("connected",
		"agent_id", agent.AgentID(),
		"session_id", c.sessionID,
		"server", c.opts.ServerAddr,
	)
	c.emitEvent(events.StatusEvent{
		Time:      time.Now(),
		Connected: true,
		AgentID:   agent.AgentID(),
		SessionID: c.sessionID,
	})

	if topic := c.cfg.Session.ReplyTopic; topic != "" {
		sub, err := agent.Subscribe(ctx, topic, c.handleReply)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		c.mu.Lock()
		c.replySub = sub
		c.mu.Unlock()
		c.logger.Info("watching replies", "topic", topic)
	}

	return nil
}

func (c *Client) handleReply(msg athyr.SubscribeMessage) {
	content := parseReply(msg.Data)
	now := time.Now()

	c.logger.Debug("reply received", "topic", msg.Subject, "size_bytes", len(msg.Data))
	c.emitEvent(events.MessageEvent{
		Time:      now,
		Direction: events.MessageIncoming,
		Topic:     msg.Subject,
		Content:   content,
	})

	c.mu.Lock()
	fn := c.onReply
	c.mu.Unlock()
	if fn != nil {
		fn(now, content)
	}
}

// parseReply extracts content from an agent response.
// Plain text or malformed JSON is used as-is.
func parseReply(data []byte) string {
	var r reply
	if err := json.Unmarshal(data, &r); err == nil && r.Content != "" {
		return r.Content
	}
	return string(data)
}

// Submit publishes a chat message to the submit topic.
func (c *Client) Submit(ctx context.Context, content string) (Message, error) {
	msg := Message{
		ID:        uuid.New().String(),
		SessionID: c.sessionID,
		Content:   content,
		Time:      time.Now(),
	}

	data, err := json.Marshal(outgoing{
		ID:        msg.ID,
		SessionID: msg.SessionID,
		Content:   msg.Content,
	})
	if err != nil {
		return msg, fmt.Errorf("failed to marshal message: %w", err)
	}

	topic := c.cfg.Session.SubmitTopic
	if err := c.publish(ctx, topic, data); err != nil {
		return msg, err
	}

	c.logger.Info("message sent",
		"id", msg.ID[:8],
		"topic", topic,
		"size_bytes", len(data),
	)
	c.emitEvent(events.MessageEvent{
		Time:      msg.Time,
		Direction: events.MessageOutgoing,
		ID:        msg.ID,
		Topic:     topic,
		Content:   content,
	})
	return msg, nil
}

// Clear tells the agent the conversation was deleted. Without a delete
// topic the history is only cleared locally and Clear does nothing.
func (c *Client) Clear(ctx context.Context) error {
	topic := c.cfg.Session.DeleteTopic
	if topic == "" {
		return nil
	}

	data, err := json.Marshal(outgoing{SessionID: c.sessionID, Action: "delete"})
	if err != nil {
		return fmt.Errorf("failed to marshal delete: %w", err)
	}
	if err := c.publish(ctx, topic, data); err != nil {
		return err
	}

	c.logger.Info("conversation deleted", "topic", topic, "session_id", c.sessionID)
	return nil
}

func (c *Client) publish(ctx context.Context, topic string, data []byte) error {
	c.mu.Lock()
	agent := c.agent
	c.mu.Unlock()

	if agent == nil {
		return ErrNotConnected
	}
	if err := agent.Publish(ctx, topic, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close stops watching replies and disconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	agent, sub := c.agent, c.replySub
	c.agent, c.replySub = nil, nil
	c.mu.Unlock()

	if agent == nil {
		return nil
	}

	var errs []error
	if sub != nil {
		if err := sub.Unsubscribe(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unsubscribe: %w", err))
		}
	}
	if err := agent.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close agent: %w", err))
	}

	c.logger.Info("disconnected", "reason", "shutdown")
	c.emitEvent(events.StatusEvent{
		Time:      time.Now(),
		Connected: false,
		AgentID:   agent.AgentID(),
		SessionID: c.sessionID,
	})
	return errors.Join(errs...)
}

// sdkLogger adapts slog.Logger to the athyr.Logger interface.
type sdkLogger struct {
	logger *slog.Logger
}

func newSDKLogger(l *slog.Logger) *sdkLogger {
	return &sdkLogger{logger: l}
}

func (l *sdkLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *sdkLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *sdkLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *sdkLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}
