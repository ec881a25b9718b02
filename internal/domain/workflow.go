package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/ngstyle/internal/adapter"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// CheckArgs holds the arguments of a check run.
type CheckArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads int
	// Output, when set, is where the report is saved.
	Output m.Path
	// MetricsFile, when set, receives the run metrics in text format.
	MetricsFile m.Path
	// Budget, when positive, replaces WorkflowOptions.Budget for this run.
	Budget time.Duration
}

// Workflow defines the style check operations.
type Workflow interface {
	// Check discovers, parses and checks the sources under args.Paths. It
	// returns the report together with ErrViolationsFound when the report
	// holds violations.
	Check(ctx context.Context, args CheckArgs) (m.Report, error)
	// Watch runs Check, then runs it again whenever sources change, until ctx
	// ends. Every result is handed to onReport.
	Watch(ctx context.Context, args CheckArgs, onReport func(m.Report, error)) error
	// Rules describes the registered rules.
	Rules() []m.RuleInfo
	// View loads a saved report.
	View(path m.Path) (m.Report, error)
}

// WorkflowOptions tune a Workflow.
type WorkflowOptions struct {
	// Severity maps a rule id to its configured severity. Nil means error
	// for every rule.
	Severity func(ruleID string) m.Severity
	// Budget bounds a single rule check; zero disables it.
	Budget time.Duration
	// BaseDir, when set, makes report file paths relative to it.
	BaseDir m.Path
	Metrics adapter.Metrics
	Watcher adapter.Watcher
	Logger  *zap.Logger
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	parser      adapter.ParserAdapter
	reportStore adapter.ReportStore
	registry    *Registry
	scanner     Scanner
	opts        WorkflowOptions
	logger      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewWorkflow creates a Workflow checking sources against registry.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	parser adapter.ParserAdapter,
	reportStore adapter.ReportStore,
	registry *Registry,
	opts WorkflowOptions,
) Workflow {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Severity == nil {
		opts.Severity = func(string) m.Severity { return m.SeverityError }
	}

	return &workflow{
		fsAdapter:   fsAdapter,
		parser:      parser,
		reportStore: reportStore,
		registry:    registry,
		scanner:     NewScanner(),
		opts:        opts,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

func (w *workflow) Check(ctx context.Context, args CheckArgs) (m.Report, error) {
	report, _, err := w.check(ctx, args)

	return report, err
}

// check runs Check and also returns the discovered files.
func (w *workflow) check(ctx context.Context, args CheckArgs) (m.Report, []m.Path, error) {
	start := w.now()

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	files, err := w.fsAdapter.Get(args.Paths, args.Exclude)
	if err != nil {
		return m.Report{}, nil, fmt.Errorf("discover sources: %w", err)
	}

	w.logger.Debug("sources discovered", zap.Int("files", len(files)), zap.Int("threads", threads))

	units, parseErrs, err := w.parseAll(ctx, files, threads)
	if err != nil {
		return m.Report{}, files, err
	}

	budget := w.opts.Budget
	if args.Budget > 0 {
		budget = args.Budget
	}

	engine := NewEngine(w.registry, w.scanner, EngineOptions{
		Threads: threads,
		Budget:  budget,
		Logger:  w.logger,
	})

	report, err := engine.Check(ctx, units...)
	if err != nil {
		return m.Report{}, files, fmt.Errorf("check sources: %w", err)
	}

	report.Files = len(files)

	diags := report.Diagnostics
	for _, err := range parseErrs {
		diags = append(diags, diagnosticFor(err))
	}

	for i := range report.Violations {
		report.Violations[i].Severity = w.opts.Severity(report.Violations[i].RuleID)
		report.Violations[i].Location.File = w.relative(report.Violations[i].Location.File)
	}

	for i := range diags {
		diags[i].Location.File = w.relative(diags[i].Location.File)
	}

	// Relative paths can order differently from absolute ones.
	sortViolations(report.Violations)
	report.Diagnostics = sortDiagnostics(diags)

	report.ID = w.newID()
	report.CreatedAt = w.now().UTC()

	if args.Output != "" {
		if err := w.reportStore.SaveReport(args.Output, report); err != nil {
			return report, files, fmt.Errorf("save report: %w", err)
		}
	}

	if err := w.recordMetrics(report, w.now().Sub(start), args.MetricsFile); err != nil {
		return report, files, err
	}

	w.logger.Info("check finished",
		zap.String("report", report.ID),
		zap.Int("files", report.Files),
		zap.Int("violations", len(report.Violations)),
		zap.Int("diagnostics", len(report.Diagnostics)))

	if !report.Empty() {
		return report, files, ErrViolationsFound
	}

	return report, files, nil
}

// parseAll reads and parses files in parallel. Files that cannot be read or
// parsed are returned as *ParseError and left out of the units.
func (w *workflow) parseAll(ctx context.Context, files []m.Path, threads int) ([]m.Unit, []error, error) {
	units := make([]*m.Unit, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := w.fsAdapter.ReadFile(path)
			if err != nil {
				errs[i] = &ParseError{Path: path, Err: err}
				return nil
			}

			unit, err := w.parser.Parse(gctx, path, content)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}

				errs[i] = &ParseError{Path: path, Err: err}

				return nil
			}

			w.logger.Debug("file parsed", zap.String("path", string(path)), zap.String("language", string(unit.Language)))
			units[i] = &unit

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make([]m.Unit, 0, len(files))

	var parseErrs []error

	for i := range files {
		if errs[i] != nil {
			w.logger.Debug("file skipped", zap.Error(errs[i]))
			parseErrs = append(parseErrs, errs[i])

			continue
		}

		out = append(out, *units[i])
	}

	return out, parseErrs, nil
}

func (w *workflow) relative(path m.Path) m.Path {
	if w.opts.BaseDir == "" || path == "" {
		return path
	}

	rel, err := w.fsAdapter.RelPath(w.opts.BaseDir, path)
	if err != nil {
		return path
	}

	return rel
}

func (w *workflow) recordMetrics(report m.Report, elapsed time.Duration, file m.Path) error {
	if w.opts.Metrics == nil {
		return nil
	}

	w.opts.Metrics.ObserveRun(report, elapsed)

	if file == "" {
		return nil
	}

	return w.opts.Metrics.WriteTextfile(file)
}

func (w *workflow) Watch(ctx context.Context, args CheckArgs, onReport func(m.Report, error)) error {
	if w.opts.Watcher == nil {
		return errors.New("watch mode needs a watcher")
	}

	changes, err := w.opts.Watcher.Watch(ctx, args.Paths)
	if err != nil {
		return fmt.Errorf("watch sources: %w", err)
	}

	report, files, err := w.check(ctx, args)
	onReport(report, err)

	hashes := w.hashAll(files)

	for batch := range changes {
		if !w.contentChanged(batch, hashes) {
			w.logger.Debug("sources touched without changes", zap.Int("files", len(batch)))
			continue
		}

		w.logger.Info("sources changed", zap.Int("files", len(batch)))

		report, err := w.Check(ctx, args)
		if ctx.Err() != nil {
			break
		}

		onReport(report, err)
	}

	return nil
}

// hashAll records the content hash of every readable file.
func (w *workflow) hashAll(files []m.Path) map[m.Path]string {
	hashes := make(map[m.Path]string, len(files))

	for _, path := range files {
		hash, err := w.fsAdapter.HashFile(path)
		if err != nil {
			continue
		}

		hashes[path] = hash
	}

	return hashes
}

// contentChanged reports whether any file of batch differs from the hash
// recorded for it, and records the new hashes. Unreadable files count as
// changed.
func (w *workflow) contentChanged(batch []m.Path, hashes map[m.Path]string) bool {
	changed := false

	for _, path := range batch {
		hash, err := w.fsAdapter.HashFile(path)
		if err != nil {
			delete(hashes, path)

			changed = true

			continue
		}

		if prev, ok := hashes[path]; !ok || prev != hash {
			changed = true
		}

		hashes[path] = hash
	}

	return changed
}

func (w *workflow) Rules() []m.RuleInfo {
	rules := w.registry.Rules()
	out := make([]m.RuleInfo, 0, len(rules))

	for _, rule := range rules {
		out = append(out, m.RuleInfo{
			ID:          rule.ID,
			Description: rule.Description,
			Rationale:   string(rule.Rationale),
			Kind:        rule.AppliesTo,
			Severity:    w.opts.Severity(rule.ID),
			Enabled:     w.registry.Enabled(rule.ID),
		})
	}

	return out
}

func (w *workflow) View(path m.Path) (m.Report, error) {
	report, err := w.reportStore.LoadReport(path)
	if err != nil {
		return m.Report{}, fmt.Errorf("view report: %w", err)
	}

	return report, nil
}
