package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/validation"
)

// loadConfig reads the chat config from path, or returns the defaults when
// path is empty, and validates it.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// logLevel resolves --quiet and --verbose into a level.
func logLevel(quiet, verbose bool) (slog.Level, error) {
	switch {
	case quiet && verbose:
		return 0, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	case quiet:
		return slog.LevelError, nil
	case verbose:
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, nil
	}
}

// newLogHandler builds a text or JSON handler writing to w.
func newLogHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q: use text or json", format)
	}
}

// buildValidator combines the declarative constraints with the optional Lua
// script. The returned close function releases the script state.
func buildValidator(cfg config.ValidationConfig, logger *slog.Logger) (validation.Validator, func(), error) {
	constraints, err := validation.NewConstraints(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Script == "" {
		return constraints, func() {}, nil
	}

	script, err := validation.NewLuaValidator(cfg.Script, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load validation script: %w", err)
	}
	return validation.Chain(constraints, script), script.Close, nil
}
