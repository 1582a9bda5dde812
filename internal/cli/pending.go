package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/drewdunne/cursorbridge/internal/bridge"
	"github.com/drewdunne/cursorbridge/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const previewLen = 60

// PendingCmd returns the command that lists instruction files not yet picked up.
func PendingCmd(opts *Options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List instructions waiting in the bridge directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(false, config.BridgeOverrides{Dir: dir})
			if err != nil {
				return err
			}

			instDir := filepath.Join(cfg.Bridge.Dir, bridge.InstructionsDir)
			pending, err := bridge.ListPending(instDir)
			if err != nil {
				return err
			}

			printPending(cmd.OutOrStdout(), instDir, pending)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Bridge directory (overrides config)")

	return cmd
}

func printPending(w io.Writer, dir string, pending []*bridge.Instruction) {
	if len(pending) == 0 {
		fmt.Fprintf(w, "No pending instructions in %s\n", dir)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIMESTAMP\tINSTRUCTION")
	for _, inst := range pending {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			color.New(color.FgCyan).Sprint(inst.ShortID()),
			inst.Timestamp,
			preview(inst.Payload.Instruction),
		)
	}
	tw.Flush()
}

// preview returns the first line of s, shortened to previewLen runes.
func preview(s string) string {
	line, _, more := strings.Cut(s, "\n")
	runes := []rune(line)
	if len(runes) > previewLen {
		return string(runes[:previewLen-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
