package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the chat input.
const (
	DefaultPlaceholder     = "Type your question"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#303235"
	DefaultSendButtonColor = "#3B81F6"
	DefaultCharLimit       = 2000
	DefaultSessionName     = "athyr-chat"
	DefaultSubmitTopic     = "chat.input"
	DefaultMaxMessages     = 200
)

// Device modes.
const (
	DeviceAuto    = "auto"
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Config represents a complete athyr-chat YAML file.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Validation ValidationConfig `yaml:"validation,omitempty"`
	Device     DeviceConfig     `yaml:"device,omitempty"`
	Session    SessionConfig    `yaml:"session"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	Connection ConnectionConfig `yaml:"connection,omitempty"`
}

// InputConfig holds the appearance and behavior of the chat input.
type InputConfig struct {
	Placeholder     string `yaml:"placeholder,omitempty"`
	BackgroundColor string `yaml:"background_color,omitempty"`
	TextColor       string `yaml:"text_color,omitempty"`
	SendButtonColor string `yaml:"send_button_color,omitempty"`
	DefaultValue    string `yaml:"default_value,omitempty"`
	FontSize        int    `yaml:"font_size,omitempty"`
	Multiline       bool   `yaml:"multiline,omitempty"`
	CharLimit       int    `yaml:"char_limit,omitempty"`
}

// ValidationConfig defines the constraints a value must meet before it is submitted.
type ValidationConfig struct {
	Required  *bool  `yaml:"required,omitempty"` // nil means true
	MinLength int    `yaml:"min_length,omitempty"`
	MaxLength int    `yaml:"max_length,omitempty"`
	Pattern   string `yaml:"pattern,omitempty"`
	Script    string `yaml:"script,omitempty"` // Lua file defining validate(value)
}

// IsRequired reports whether an empty value is invalid.
func (v *ValidationConfig) IsRequired() bool {
	return v.Required == nil || *v.Required
}

// DeviceConfig selects how the client decides whether it runs on a touch device.
type DeviceConfig struct {
	Mode string `yaml:"mode,omitempty"` // auto, desktop, mobile
}

// SessionConfig defines where chat messages go.
type SessionConfig struct {
	Name        string `yaml:"name,omitempty"`
	SubmitTopic string `yaml:"submit_topic"`
	ReplyTopic  string `yaml:"reply_topic,omitempty"`
	DeleteTopic string `yaml:"delete_topic,omitempty"`
}

// HistoryConfig controls how the conversation is shown and kept.
type HistoryConfig struct {
	Path        string `yaml:"path,omitempty"` // SQLite transcript file; empty keeps history in memory
	MaxMessages int    `yaml:"max_messages,omitempty"`
	Markdown    *bool  `yaml:"markdown,omitempty"` // nil means true
}

// RenderMarkdown reports whether agent replies are rendered as markdown.
func (h *HistoryConfig) RenderMarkdown() bool {
	return h.Markdown == nil || *h.Markdown
}

// ConnectionConfig defines SDK connection options.
type ConnectionConfig struct {
	Timeout     string `yaml:"timeout,omitempty"`      // Request timeout (e.g., "60s", "2m")
	MaxRetries  int    `yaml:"max_retries,omitempty"`  // Max reconnection retries (0 = infinite)
	BaseBackoff string `yaml:"base_backoff,omitempty"` // Initial backoff (e.g., "1s")
	MaxBackoff  string `yaml:"max_backoff,omitempty"`  // Max backoff (e.g., "30s")
}

// ConnectionOptions holds parsed connection settings.
type ConnectionOptions struct {
	RequestTimeout time.Duration
	MaxRetries     int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
}

// GetOptions parses the connection config and returns options with defaults.
func (c *ConnectionConfig) GetOptions() (ConnectionOptions, error) {
	opts := ConnectionOptions{
		RequestTimeout: 60 * time.Second,
		MaxRetries:     0, // infinite
		BaseBackoff:    1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}

	var err error
	if opts.RequestTimeout, err = parseDuration("connection.timeout", c.Timeout, opts.RequestTimeout); err != nil {
		return opts, err
	}
	if c.MaxRetries != 0 {
		opts.MaxRetries = c.MaxRetries
	}
	if opts.BaseBackoff, err = parseDuration("connection.base_backoff", c.BaseBackoff, opts.BaseBackoff); err != nil {
		return opts, err
	}
	if opts.MaxBackoff, err = parseDuration("connection.max_backoff", c.MaxBackoff, opts.MaxBackoff); err != nil {
		return opts, err
	}

	return opts, nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", field, err)
	}
	if d < 0 {
		return fallback, fmt.Errorf("%s cannot be negative: %s", field, value)
	}
	return d, nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Input.Placeholder == "" {
		c.Input.Placeholder = DefaultPlaceholder
	}
	if c.Input.BackgroundColor == "" {
		c.Input.BackgroundColor = DefaultBackgroundColor
	}
	if c.Input.TextColor == "" {
		c.Input.TextColor = DefaultTextColor
	}
	if c.Input.SendButtonColor == "" {
		c.Input.SendButtonColor = DefaultSendButtonColor
	}
	if c.Input.CharLimit == 0 {
		c.Input.CharLimit = DefaultCharLimit
	}
	if c.Device.Mode == "" {
		c.Device.Mode = DeviceAuto
	}
	if c.Session.Name == "" {
		c.Session.Name = DefaultSessionName
	}
	if c.Session.SubmitTopic == "" {
		c.Session.SubmitTopic = DefaultSubmitTopic
	}
	if c.History.MaxMessages == 0 {
		c.History.MaxMessages = DefaultMaxMessages
	}
}

// LoadFile loads and parses a YAML config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Load(data)
}

// Load parses YAML data into a Config and applies defaults.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	var errs []error

	for field, color := range map[string]string{
		"input.background_color":  c.Input.BackgroundColor,
		"input.text_color":        c.Input.TextColor,
		"input.send_button_color": c.Input.SendButtonColor,
	} {
		if color != "" && !hexColor.MatchString(color) {
			errs = append(errs, fmt.Errorf("%s must be a hex color like #fff or #ffffff, got %q", field, color))
		}
	}

	if c.Input.FontSize < 0 {
		errs = append(errs, errors.New("input.font_size cannot be negative"))
	}
	if c.Input.CharLimit < 0 {
		errs = append(errs, errors.New("input.char_limit cannot be negative"))
	}

	v := c.Validation
	if v.MinLength < 0 {
		errs = append(errs, errors.New("validation.min_length cannot be negative"))
	}
	if v.MaxLength < 0 {
		errs = append(errs, errors.New("validation.max_length cannot be negative"))
	}
	if v.MinLength > 0 && v.MaxLength > 0 && v.MinLength > v.MaxLength {
		errs = append(errs, fmt.Errorf("validation.min_length (%d) exceeds validation.max_length (%d)", v.MinLength, v.MaxLength))
	}
	if v.Pattern != "" {
		if _, err := regexp.Compile(v.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("validation.pattern is invalid: %w", err))
		}
	}
	if v.Script != "" {
		if _, err := os.Stat(v.Script); err != nil {
			errs = append(errs, fmt.Errorf("validation.script: %w", err))
		}
	}

	switch c.Device.Mode {
	case "", DeviceAuto, DeviceDesktop, DeviceMobile:
	default:
		errs = append(errs, fmt.Errorf("device.mode must be one of auto, desktop, mobile, got %q", c.Device.Mode))
	}

	if c.Session.SubmitTopic == "" {
		errs = append(errs, errors.New("session.submit_topic is required"))
	}

	if c.History.MaxMessages < 0 {
		errs = append(errs, errors.New("history.max_messages cannot be negative"))
	}

	if _, err := c.Connection.GetOptions(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
