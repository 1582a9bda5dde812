package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VersionCmd returns the command that prints version information.
func VersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cursorbridge v%s\n", version)
		},
	}
}
