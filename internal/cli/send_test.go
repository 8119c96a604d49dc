package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/session"
	"github.com/athyr-tech/athyr-chat/internal/validation"

	"github.com/athyr-tech/athyr-sdk-go/pkg/athyr"
)

// echoAgent implements athyr.Agent and answers every publish on the
// subscribed reply topic.
type echoAgent struct {
	reply     string
	published map[string][]byte
	handler   athyr.MessageHandler
	closed    bool
}

func (m *echoAgent) Publish(ctx context.Context, subject string, data []byte) error {
	if m.published == nil {
		m.published = make(map[string][]byte)
	}
	m.published[subject] = data
	if m.handler != nil && m.reply != "" {
		m.handler(athyr.SubscribeMessage{Subject: "chat.output", Data: []byte(m.reply)})
	}
	return nil
}

func (m *echoAgent) Subscribe(ctx context.Context, subject string, handler athyr.MessageHandler) (athyr.Subscription, error) {
	m.handler = handler
	return nil, nil
}

func (m *echoAgent) Connect(ctx context.Context) error { return nil }
func (m *echoAgent) Close() error                      { m.closed = true; return nil }
func (m *echoAgent) AgentID() string                   { return "echo-agent" }
func (m *echoAgent) Connected() bool                   { return !m.closed }
func (m *echoAgent) State() athyr.ConnectionState      { return athyr.StateConnected }
func (m *echoAgent) Complete(ctx context.Context, req athyr.CompletionRequest) (*athyr.CompletionResponse, error) {
	return nil, nil
}
func (m *echoAgent) QueueSubscribe(ctx context.Context, subject, queue string, handler athyr.MessageHandler) (athyr.Subscription, error) {
	return nil, nil
}
func (m *echoAgent) Request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	return nil, nil
}
func (m *echoAgent) CompleteStream(ctx context.Context, req athyr.CompletionRequest, handler athyr.StreamHandler) error {
	return nil
}
func (m *echoAgent) Models(ctx context.Context) ([]athyr.Model, error) { return nil, nil }
func (m *echoAgent) CreateSession(ctx context.Context, profile athyr.SessionProfile, systemPrompt string) (*athyr.Session, error) {
	return nil, nil
}
func (m *echoAgent) GetSession(ctx context.Context, sessionID string) (*athyr.Session, error) {
	return nil, nil
}
func (m *echoAgent) DeleteSession(ctx context.Context, sessionID string) error { return nil }
func (m *echoAgent) AddHint(ctx context.Context, sessionID, hint string) error { return nil }
func (m *echoAgent) KV(bucket string) athyr.KVBucket                           { return nil }

func TestSendOnce_WaitsForReply(t *testing.T) {
	cfg := config.Default()
	cfg.Session.ReplyTopic = "chat.output"
	agent := &echoAgent{reply: `{"content":"pong"}`}

	reply, err := sendOnce(context.Background(), cfg, "ping",
		session.Options{Logger: discardLogger(), Agent: agent}, time.Second)
	if err != nil {
		t.Fatalf("sendOnce() error = %v", err)
	}
	if reply != "pong" {
		t.Errorf("reply = %q, want pong", reply)
	}

	var out struct {
		Content   string `json:"content"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(agent.published["chat.input"], &out); err != nil {
		t.Fatalf("published payload: %v", err)
	}
	if out.Content != "ping" || out.SessionID == "" {
		t.Errorf("payload = %+v, want content ping with a session ID", out)
	}
	if !agent.closed {
		t.Error("agent should be closed after send")
	}
}

func TestSendOnce_NoWait(t *testing.T) {
	agent := &echoAgent{}
	reply, err := sendOnce(context.Background(), config.Default(), "ping",
		session.Options{Logger: discardLogger(), Agent: agent}, 0)
	if err != nil {
		t.Fatalf("sendOnce() error = %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
	if _, ok := agent.published["chat.input"]; !ok {
		t.Error("message was not published")
	}
}

func TestSendOnce_Timeout(t *testing.T) {
	cfg := config.Default()
	cfg.Session.ReplyTopic = "chat.output"

	_, err := sendOnce(context.Background(), cfg, "ping",
		session.Options{Logger: discardLogger(), Agent: &echoAgent{}}, 10*time.Millisecond)
	if !errors.Is(err, errNoReply) {
		t.Errorf("sendOnce() error = %v, want errNoReply", err)
	}
}

func TestSendOnce_RejectsWithoutPublishing(t *testing.T) {
	cfg := config.Default()
	cfg.Validation.MinLength = 5

	tests := []struct {
		name  string
		value string
	}{
		{name: "empty", value: ""},
		{name: "too short", value: "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &echoAgent{}
			_, err := sendOnce(context.Background(), cfg, tt.value,
				session.Options{Logger: discardLogger(), Agent: agent}, 0)
			if !errors.Is(err, validation.ErrInvalid) {
				t.Errorf("sendOnce() error = %v, want ErrInvalid", err)
			}
			if len(agent.published) != 0 {
				t.Errorf("published = %v, want nothing", agent.published)
			}
		})
	}
}
