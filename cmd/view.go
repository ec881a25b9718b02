package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <report>",
		Short: "View a saved report",
		Long:  "View a report previously saved with --output. JSON and YAML reports are accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, err := newUI(cmd, formatFlag, interactiveFlag)
			if err != nil {
				return err
			}

			report, err := workflow.View(m.Path(args[0]))
			if err != nil {
				return err
			}

			return ui.DisplayReport(report)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
