package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/drewdunne/cursorbridge/internal/bridge"
	"github.com/drewdunne/cursorbridge/internal/config"
	"github.com/drewdunne/cursorbridge/internal/handler"
	"github.com/drewdunne/cursorbridge/internal/logging"
	"github.com/drewdunne/cursorbridge/internal/webhook"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SendCmd returns the command that emits a single message.
func SendCmd(opts *Options) *cobra.Command {
	var (
		dir      string
		keyword  string
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "send [message...]",
		Short: "Emit an instruction from one message",
		Long: `Check one message for the trigger keyword and, if present, write the
instruction file. The message is read from the arguments, or from stdin when
no arguments are given.

Examples:
  cursorbridge send --dir ./bridge "s2cursor open main.go"
  echo "s2cursor run the tests" | cursorbridge send`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			flags := config.BridgeOverrides{Dir: dir, TriggerKeyword: keyword}
			if cmd.Flags().Changed("disabled") {
				enabled := !disabled
				flags.Enabled = &enabled
			}

			cfg, err := opts.loadConfig(false, flags)
			if err != nil {
				return err
			}

			logger := logging.New(logging.Options{
				Level:  "warn",
				Format: "console",
				Writer: cmd.ErrOrStderr(),
			})

			emitter := bridge.New(cfg.Bridge.Dir, bridge.Settings{
				Enabled:        cfg.Bridge.Enabled,
				TriggerKeyword: cfg.Bridge.TriggerKeyword,
			})

			h := handler.NewEmitHandler(emitter, nil, logger)
			resp, err := h.Handle(cmd.Context(), &webhook.Message{Message: message, Source: "cli"})
			if err != nil {
				return err
			}

			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Bridge directory (overrides config)")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Trigger keyword (overrides config)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Treat the bridge as disabled")

	return cmd
}

func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading message from stdin: %w", err)
	}
	return string(data), nil
}

func printResponse(w io.Writer, resp *webhook.Response) {
	switch bridge.Outcome(resp.Outcome) {
	case bridge.OutcomeSent:
		color.New(color.FgGreen).Fprintln(w, resp.Result)
	case bridge.OutcomeNoTrigger:
		// Nothing to report
	default:
		color.New(color.FgYellow).Fprintln(w, resp.Result)
	}
}
