package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/ngstyle/internal/config"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a starter configuration file",
		Long: fmt.Sprintf("Write the default configuration, with every rule at its current severity, "+
			"to %s or to the given file.", config.ProjectConfigFile),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigFile
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check %s: %w", path, err)
			}

			starter := config.DefaultConfig()
			for _, rule := range workflow.Rules() {
				starter.Rules[rule.ID] = config.RuleConfig{Severity: rule.Severity}
			}

			if err := starter.SaveToFile(path); err != nil {
				return err
			}

			cmd.Printf("wrote %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
