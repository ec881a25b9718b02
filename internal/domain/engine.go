package domain

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Engine checks parsed units against the registered rules.
type Engine interface {
	// Check scans every unit and returns the finalized report. Units are
	// processed in parallel; the report is identical for any unit order.
	Check(ctx context.Context, units ...m.Unit) (m.Report, error)
}

// EngineOptions tune an Engine.
type EngineOptions struct {
	// Threads bounds parallel unit processing. Values below 1 mean 1.
	Threads int
	// Budget bounds a single rule check; zero disables it.
	Budget time.Duration
	Logger *zap.Logger
}

type engine struct {
	registry  *Registry
	scanner   Scanner
	collector Collector
	threads   int
	logger    *zap.Logger
}

// NewEngine creates an Engine over registry.
func NewEngine(registry *Registry, scanner Scanner, opts EngineOptions) Engine {
	threads := opts.Threads
	if threads <= 0 {
		threads = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &engine{
		registry:  registry,
		scanner:   scanner,
		collector: NewCollector(opts.Budget),
		threads:   threads,
		logger:    logger,
	}
}

// unitResult holds the outcome of checking a single unit.
type unitResult struct {
	violations []m.Violation
	errs       []error
}

func (e *engine) Check(ctx context.Context, units ...m.Unit) (m.Report, error) {
	if err := e.registry.Freeze(); err != nil {
		return m.Report{}, fmt.Errorf("freeze registry: %w", err)
	}

	results := make([]unitResult, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.threads)

	for i, unit := range units {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = e.checkUnit(unit)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return m.Report{}, err
	}

	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	var (
		violations []m.Violation
		errs       []error
	)

	for _, res := range results {
		violations = append(violations, res.violations...)
		errs = append(errs, res.errs...)
	}

	report := Finalize(violations, errs)
	report.Files = len(units)

	return report, nil
}

func (e *engine) checkUnit(unit m.Unit) unitResult {
	var res unitResult

	fragments := 0

	for f, err := range e.scanner.Scan(unit) {
		if err != nil {
			e.logger.Debug("fragment extraction failed", zap.String("path", string(unit.Path)), zap.Error(err))
			res.errs = append(res.errs, err)

			continue
		}

		fragments++

		violations, errs := e.collector.Collect(f, e.registry.RulesFor(f.Kind))
		for _, err := range errs {
			e.logger.Debug("rule evaluation failed", zap.String("path", string(unit.Path)), zap.Error(err))
		}

		res.violations = append(res.violations, violations...)
		res.errs = append(res.errs, errs...)
	}

	res.violations = filterSuppressed(res.violations, unit.Comments)

	e.logger.Debug("unit checked",
		zap.String("path", string(unit.Path)),
		zap.Int("fragments", fragments),
		zap.Int("violations", len(res.violations)))

	return res
}
