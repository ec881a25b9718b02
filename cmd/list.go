package cmd

import (
	"github.com/spf13/cobra"
)

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"list"},
		Short:   "List the style rules",
		Long:    "List every built-in rule with its rationale, the fragments it inspects and its configured severity.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ui, err := newUI(cmd, formatFlag, false)
			if err != nil {
				return err
			}

			return ui.DisplayRules(workflow.Rules())
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
