package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/device"
	"github.com/athyr-tech/athyr-chat/internal/events"
	"github.com/athyr-tech/athyr-chat/internal/session"
	"github.com/athyr-tech/athyr-chat/internal/transcript"
	"github.com/athyr-tech/athyr-chat/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	insecure   bool
	offline    bool
	quiet      bool
	logFormat  string
	logFile    string
	deviceMode string
	historyDB  string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Open the chat input",
	Long: `Open the interactive chat input.

Without a file the built-in defaults are used: messages go to chat.input
and no reply topic is watched.

Log Levels:
  --quiet      Only show errors
  --verbose    Show debug details (default: INFO level)

Set history.path in the config, or pass --history, to keep the
conversation in a SQLite file and restore it on the next run.

Logs are shown in the Logs tab. Use --log-file to also write them to a
file in --log-format (text or json).

Example:
  athyr-chat run
  athyr-chat run chat.yaml --server localhost:9090
  athyr-chat run chat.yaml --offline
  athyr-chat run chat.yaml --history ~/.athyr-chat/history.db
  athyr-chat run chat.yaml --log-file chat.log --log-format=json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(quiet, viper.GetBool("verbose"))
		if err != nil {
			return err
		}

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		if deviceMode != "" {
			cfg.Device.Mode = deviceMode
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid --device: %w", err)
			}
		}

		if historyDB != "" {
			cfg.History.Path = historyDB
		}

		return runChat(cfg, level)
	},
}

func init() {
	runCmd.Flags().BoolVar(&insecure, "insecure", false, "disable TLS (for development)")
	runCmd.Flags().BoolVar(&offline, "offline", false, "do not connect; submissions are only shown locally")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "only show errors (mutually exclusive with --verbose)")
	runCmd.Flags().StringVar(&logFormat, "log-format", "text", "log file format: text or json")
	runCmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	runCmd.Flags().StringVar(&deviceMode, "device", "", "override device detection: auto, desktop or mobile")
	runCmd.Flags().StringVar(&historyDB, "history", "", "SQLite file that keeps the conversation between runs")
	rootCmd.AddCommand(runCmd)
}

// runChat runs the chat input with the interactive terminal UI.
func runChat(cfg *config.Config, level slog.Level) error {
	eventBus := events.NewEventBus(100)
	defer eventBus.Close()

	logger, closeLog, err := newTUILogger(eventBus, level)
	if err != nil {
		return err
	}
	defer closeLog()

	validator, closeValidator, err := buildValidator(cfg.Validation, logger)
	if err != nil {
		return err
	}
	defer closeValidator()

	detector := device.NewDetector(cfg.Device.Mode)
	logger.Info("loaded chat config",
		"session", cfg.Session.Name,
		"submit_topic", cfg.Session.SubmitTopic,
		"reply_topic", cfg.Session.ReplyTopic,
		"mobile", detector.IsMobile(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := tui.Options{
		Config:     cfg,
		EventBus:   eventBus,
		Device:     detector,
		Validator:  validator,
		Logger:     logger,
		ServerAddr: viper.GetString("server"),
	}

	if cfg.History.Path != "" {
		store, err := transcript.Open(ctx, cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()
		opts.Transcript = store
		logger.Debug("history enabled", "path", cfg.History.Path)
	}

	var client *session.Client
	if !offline {
		client, err = session.New(cfg, session.Options{
			ServerAddr: viper.GetString("server"),
			Insecure:   insecure,
			Logger:     logger,
			EventBus:   eventBus,
		})
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		defer client.Close()
		opts.Session = client
	} else {
		logger.Warn("offline mode, messages will not be sent")
	}

	tuiApp, err := tui.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Connect in the background so the input is usable immediately; the
	// Session tab shows the outcome.
	if client != nil {
		go func() {
			if err := client.Connect(ctx); err != nil && ctx.Err() == nil {
				logger.Error("connection failed", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			tuiApp.Quit()
		case <-ctx.Done():
		}
	}()

	if err := tuiApp.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUILogger routes logs to the Logs tab and, with --log-file, to a file.
func newTUILogger(eventBus events.EventBus, level slog.Level) (*slog.Logger, func(), error) {
	if logFile == "" {
		return tui.NewTUILogger(eventBus, level), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handler, err := newLogHandler(f, logFormat, level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return tui.NewTUILoggerWithFallback(eventBus, level, handler), func() { f.Close() }, nil
}
