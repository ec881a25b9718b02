package cmd

import (
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check sources against the style rules",
		Long: `Check Angular templates and TypeScript sources against the enabled style
rules. This is what ngstyle runs when no subcommand is given.

The exit code is 1 when any violation is found.`,
		RunE: runCheck,
	}
	bindCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
