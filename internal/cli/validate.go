package cli

import (
	"fmt"
	"os"

	"github.com/athyr-tech/athyr-chat/internal/config"
	"github.com/athyr-tech/athyr-chat/internal/validation"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a chat YAML file",
	Long: `Validate a chat YAML file without opening the input.

Checks that the YAML is well-formed, colors and lengths are sane, the
pattern compiles and the validation script defines validate(value).

Example:
  athyr-chat validate chat.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filepath := args[0]

		cfg, err := config.LoadFile(filepath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			return err
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			return err
		}

		if cfg.Validation.Script != "" {
			script, err := validation.NewLuaValidator(cfg.Validation.Script, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
				return err
			}
			script.Close()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Chat '%s' is valid.\n", cfg.Session.Name)
		if verbose {
			fmt.Fprintf(out, "  submit:      %s\n", cfg.Session.SubmitTopic)
			fmt.Fprintf(out, "  reply:       %s\n", orNone(cfg.Session.ReplyTopic))
			fmt.Fprintf(out, "  delete:      %s\n", orNone(cfg.Session.DeleteTopic))
			fmt.Fprintf(out, "  device:      %s\n", cfg.Device.Mode)
			fmt.Fprintf(out, "  multiline:   %v\n", cfg.Input.Multiline)
			fmt.Fprintf(out, "  placeholder: %s\n", cfg.Input.Placeholder)
			fmt.Fprintf(out, "  history:     %s\n", orNone(cfg.History.Path))
			fmt.Fprintf(out, "  markdown:    %v\n", cfg.History.RenderMarkdown())
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
