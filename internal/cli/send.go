package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/session"
	"github.com/athyr-tech/athyr-chat/internal/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	sendFile      string
	sendWait      time.Duration
	sendInsecure  bool
	sendQuiet     bool
	sendLogFormat string
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message without the terminal UI",
	Long: `Send a single message through the same validation as the chat input.

Empty or invalid messages are rejected without publishing. With --wait
and a reply topic configured, the first reply is printed to stdout.

Example:
  athyr-chat send "What is Athyr?"
  athyr-chat send "Summarize today" --file chat.yaml --wait 30s
  athyr-chat send "ping" --quiet --log-format=json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logLevel(sendQuiet, viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		handler, err := newLogHandler(os.Stderr, sendLogFormat, level)
		if err != nil {
			return err
		}
		logger := slog.New(handler)

		cfg, err := loadConfig(sendFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reply, err := sendOnce(ctx, cfg, args[0], session.Options{
			ServerAddr: viper.GetString("server"),
			Insecure:   sendInsecure,
			Logger:     logger,
		}, sendWait)
		if err != nil {
			return err
		}
		if reply != "" {
			fmt.Fprintln(cmd.OutOrStdout(), reply)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "chat config file (default: built-in defaults)")
	sendCmd.Flags().DurationVar(&sendWait, "wait", 0, "wait this long for a reply (0 = do not wait)")
	sendCmd.Flags().BoolVar(&sendInsecure, "insecure", false, "disable TLS (for development)")
	sendCmd.Flags().BoolVar(&sendQuiet, "quiet", false, "only show errors (mutually exclusive with --verbose)")
	sendCmd.Flags().StringVar(&sendLogFormat, "log-format", "text", "log output format: text or json")
	rootCmd.AddCommand(sendCmd)
}

// errNoReply is returned when --wait elapses without a reply.
var errNoReply = errors.New("no reply received")

// sendOnce validates and publishes value, then optionally waits for the
// first reply.
func sendOnce(ctx context.Context, cfg *config.Config, value string, opts session.Options, wait time.Duration) (string, error) {
	if value == "" {
		return "", validation.Invalid("please fill out this field")
	}

	validator, closeValidator, err := buildValidator(cfg.Validation, opts.Logger)
	if err != nil {
		return "", err
	}
	defer closeValidator()

	if err := validator.Validate(value); err != nil {
		return "", err
	}

	client, err := session.New(cfg, opts)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer client.Close()

	replies := make(chan string, 1)
	client.OnReply(func(_ time.Time, content string) {
		select {
		case replies <- content:
		default:
		}
	})

	if err := client.Connect(ctx); err != nil {
		return "", err
	}
	if _, err := client.Submit(ctx, value); err != nil {
		return "", err
	}

	if wait <= 0 || cfg.Session.ReplyTopic == "" {
		return "", nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case reply := <-replies:
		return reply, nil
	case <-timer.C:
		return "", fmt.Errorf("%w within %s on %s", errNoReply, wait, cfg.Session.ReplyTopic)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
