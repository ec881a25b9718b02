// Package cmd provides the root command and CLI setup for ngstyle.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mouse-blink/ngstyle/internal/adapter"
	"github.com/mouse-blink/ngstyle/internal/config"
	"github.com/mouse-blink/ngstyle/internal/controller"
	"github.com/mouse-blink/ngstyle/internal/domain"
	"github.com/mouse-blink/ngstyle/internal/domain/rules"
	"github.com/mouse-blink/ngstyle/internal/logging"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

var cfg *config.Config
var logger *zap.Logger
var sourceFSAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var registry *domain.Registry
var workflow domain.Workflow
var setupErr error

// newUI is replaced in tests.
var newUI = controller.NewUI

func init() {
	setupErr = setup("")
}

// setup loads the configuration and wires the workflow. explicit, when set,
// names the config file used instead of the project config search.
func setup(explicit string) error {
	loaded, err := config.NewLoader(nil).Load(explicit)
	if err != nil {
		return err
	}

	log, err := logging.New(loaded.Log.Level, loaded.Log.Format)
	if err != nil {
		return err
	}

	builtin := rules.All()

	ids := make([]string, 0, len(builtin))
	for _, rule := range builtin {
		ids = append(ids, rule.ID)
	}

	if err := loaded.CheckRules(ids); err != nil {
		return err
	}

	reg := domain.NewRegistry(loaded.Enabled(ids)...)
	if err := rules.Register(reg); err != nil {
		return err
	}

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	store := adapter.NewReportStore()

	cfg = loaded
	logger = log
	sourceFSAdapter = fsAdapter
	reportStore = store
	registry = reg
	workflow = domain.NewWorkflow(
		fsAdapter,
		adapter.DefaultParsers(),
		store,
		reg,
		domain.WorkflowOptions{
			Severity: loaded.Severity,
			Budget:   loaded.Budget,
			BaseDir:  projectRoot(fsAdapter),
			Metrics:  adapter.NewPrometheusMetrics(),
			Watcher:  adapter.NewWatcher(adapter.WatcherConfig{Logger: log}),
			Logger:   log,
		},
	)

	return nil
}

// projectRoot returns the Angular workspace enclosing the working directory,
// or the working directory itself.
func projectRoot(fsAdapter adapter.SourceFSAdapter) m.Path {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	root, err := fsAdapter.FindProjectRoot(m.Path(wd))
	if err != nil || root == "" {
		return m.Path(wd)
	}

	return root
}

var configFlag string
var formatFlag string
var interactiveFlag bool

var excludeFlags []string
var parallelFlag int
var outputFlag string
var metricsFileFlag string
var budgetFlag time.Duration
var watchFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ngstyle [paths...]",
		Short: "Angular and TypeScript style checker",
		Long: `ngstyle checks Angular templates and TypeScript sources against a set of
style conventions and reports every violation with a suggested fix.

Supports Go-style path patterns and globs:
  - ./...              recursively scan current directory
  - ./src/app/...      recursively scan src/app
  - 'src/**/*.html'    every template below src
  - ./src ./libs       scan multiple directories

Without paths, the include list of the configuration is checked.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if configFlag != "" {
				return setup(configFlag)
			}

			return setupErr
		},
		RunE: runCheck,
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "configuration file (default: .ngstyle.yaml in the working directory or a parent)")
	cmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", controller.FormatTable, "output format: table or json")
	cmd.PersistentFlags().BoolVarP(&interactiveFlag, "interactive", "i", false, "browse the report interactively when writing to a terminal")
	bindCheckFlags(cmd)

	return cmd
}

func bindCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude files matching a glob pattern (can be repeated)")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", 0, "number of files checked in parallel (default from configuration)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "save the report to this file (.json or .yaml)")
	cmd.Flags().StringVar(&metricsFileFlag, "metrics-file", "", "write run metrics in prometheus text format to this file")
	cmd.Flags().DurationVar(&budgetFlag, "budget", 0, "time limit for a single rule check (default from configuration)")
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "check again whenever sources change")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ui, err := newUI(cmd, formatFlag, interactiveFlag)
	if err != nil {
		return err
	}

	checkArgs := checkArgsFor(args)

	if watchFlag {
		ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
		defer stop()

		return workflow.Watch(ctx, checkArgs, func(report m.Report, err error) {
			if err != nil && !errors.Is(err, domain.ErrViolationsFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "check failed: %v\n", err)
				return
			}

			if err := ui.DisplayReport(report); err != nil {
				logger.Error("display report", zap.Error(err))
			}
		})
	}

	report, err := workflow.Check(contextOf(cmd), checkArgs)
	if err != nil && !errors.Is(err, domain.ErrViolationsFound) {
		return err
	}

	if displayErr := ui.DisplayReport(report); displayErr != nil {
		return displayErr
	}

	return err
}

func checkArgsFor(args []string) domain.CheckArgs {
	threads := cfg.Parallel
	if parallelFlag > 0 {
		threads = parallelFlag
	}

	output := cfg.Output
	if outputFlag != "" {
		output = outputFlag
	}

	budget := cfg.Budget
	if budgetFlag > 0 {
		budget = budgetFlag
	}

	exclude := make([]string, 0, len(cfg.Exclude)+len(excludeFlags))
	exclude = append(exclude, cfg.Exclude...)
	exclude = append(exclude, excludeFlags...)

	return domain.CheckArgs{
		Paths:       parsePaths(args, cfg.Include),
		Exclude:     exclude,
		Threads:     threads,
		Output:      m.Path(output),
		MetricsFile: m.Path(metricsFileFlag),
		Budget:      budget,
	}
}

// parsePaths converts command line paths, falling back to defaults when none
// are given.
func parsePaths(args, defaults []string) []m.Path {
	if len(args) == 0 {
		args = defaults
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	if logger != nil {
		_ = logger.Sync()
	}

	if err != nil {
		os.Exit(1)
	}
}
