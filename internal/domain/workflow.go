package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/varmint-dev/varmint/internal/adapter"
	m "github.com/varmint-dev/varmint/internal/model"
	"github.com/varmint-dev/varmint/pkg"
)

// RunArgs carries everything one mutation run needs.
type RunArgs struct {
	// Dir is any directory inside the target project.
	Dir m.Path
	// TestCommand is the suite invocation executed per scenario.
	TestCommand []string
	// Env is appended to every scenario's environment.
	Env []m.EnvVar
	// Threads bounds scenario parallelism and sizes the slot pool.
	Threads int
	// Timeouts derive the per-scenario deadline from the baseline.
	Timeouts TimeoutOptions
	// Catalog options narrow which mutants are generated.
	Exclude []string
	Genres  []m.Genre
	Diff    string
	// Output is the directory the run report is written to.
	Output m.Path
	// Hooks observe scenario lifecycle events for live display.
	Hooks SchedulerHooks
}

// ListArgs selects the catalog subset to display without running anything.
type ListArgs struct {
	Dir     m.Path
	Exclude []string
	Genres  []m.Genre
	Diff    string
}

// Workflow is the top-level engine entry point the CLI drives.
type Workflow interface {
	// Run builds the catalog, times the baseline and executes every mutant.
	// A *BaselineFailedError is returned when the pristine tree fails its
	// own suite.
	Run(ctx context.Context, args RunArgs) (Summary, *RunResult, error)

	// List builds and returns the catalog without executing anything.
	List(ctx context.Context, args ListArgs) (*Catalog, error)
}

// LocalWorkflow wires the engine components together over local adapters.
type LocalWorkflow struct {
	fs      adapter.SourceFSAdapter
	parser  adapter.GoFileAdapter
	runner  adapter.ProcRunnerAdapter
	reports adapter.ReportStore
	logger  *slog.Logger
}

// NewLocalWorkflow constructs a LocalWorkflow.
func NewLocalWorkflow(
	fs adapter.SourceFSAdapter,
	parser adapter.GoFileAdapter,
	runner adapter.ProcRunnerAdapter,
	reports adapter.ReportStore,
	logger *slog.Logger,
) *LocalWorkflow {
	return &LocalWorkflow{fs: fs, parser: parser, runner: runner, reports: reports, logger: logger}
}

// List builds the catalog for display.
func (w *LocalWorkflow) List(ctx context.Context, args ListArgs) (*Catalog, error) {
	root, err := w.fs.FindProjectRoot(ctx, args.Dir)
	if err != nil {
		return nil, fmt.Errorf("locating project root: %w", err)
	}

	return w.buildCatalog(ctx, root, args.Exclude, args.Genres, args.Diff)
}

// Run executes the full mutation-testing pipeline against the project
// containing args.Dir.
func (w *LocalWorkflow) Run(ctx context.Context, args RunArgs) (Summary, *RunResult, error) {
	root, err := w.fs.FindProjectRoot(ctx, args.Dir)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("locating project root: %w", err)
	}

	catalog, err := w.buildCatalog(ctx, root, args.Exclude, args.Genres, args.Diff)
	if err != nil {
		return Summary{}, nil, err
	}

	w.logger.Info("catalog built", "mutants", len(catalog.Mutants), "files", len(catalog.Files))

	if len(catalog.Mutants) == 0 {
		return Summary{}, NewRunResult(nil, nil, 0, 0), nil
	}

	pool, err := NewSlotPool(ctx, w.fs, w.logger, root, args.Threads, catalog.Files)
	if err != nil {
		return Summary{}, nil, err
	}
	defer pool.Close(context.WithoutCancel(ctx))

	baseline, err := w.measureBaseline(ctx, pool, args)
	if err != nil {
		result := w.baselineFailedResult(ctx, catalog, args.Output)

		return result.Summary(), result, err
	}

	timeout := args.Timeouts.For(baseline)
	w.logger.Info("baseline measured", "baseline", baseline, "timeout", timeout)

	spill, err := pkg.NewOutputSpill()
	if err != nil {
		return Summary{}, nil, fmt.Errorf("creating output spill: %w", err)
	}
	defer func() { _ = spill.Close() }()

	result := NewRunResult(catalog.Mutants, spill, baseline, timeout)

	cfg := BuildConfig{TestCommand: args.TestCommand, Env: args.Env, Timeout: timeout}
	scheduler := NewScheduler(w.runner, pool, w.logger, args.Hooks)

	if err := scheduler.Run(ctx, catalog.Mutants, cfg, result, args.Threads); err != nil {
		return Summary{}, nil, err
	}

	for _, mutant := range catalog.Mutants {
		result.RecordInterrupted(mutant)
	}

	if err := w.saveReport(ctx, args.Output, result.Report()); err != nil {
		return Summary{}, nil, err
	}

	return result.Summary(), result, nil
}

func (w *LocalWorkflow) buildCatalog(ctx context.Context, root m.Path, exclude []string, genres []m.Genre, diff string) (*Catalog, error) {
	opts := CatalogOptions{Exclude: exclude, Genres: genres}

	if diff != "" {
		scope, err := ParseDiffScope(diff)
		if err != nil {
			return nil, fmt.Errorf("parsing diff: %w", err)
		}

		opts.Scope = scope
	}

	builder := NewCatalogBuilder(w.fs, w.parser, w.logger)

	return builder.Build(ctx, root, opts)
}

// measureBaseline times the pristine suite in a pool slot so it sees the same
// tree layout every mutant scenario will.
func (w *LocalWorkflow) measureBaseline(ctx context.Context, pool *SlotPool, args RunArgs) (time.Duration, error) {
	slot, err := pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer pool.Release(slot)

	timer := NewBaselineTimer(w.runner, w.logger)
	cfg := BuildConfig{TestCommand: args.TestCommand, Env: args.Env, Timeout: args.Timeouts.Override}

	return timer.Measure(ctx, slot.Root, cfg)
}

// baselineFailedResult marks the whole catalog baseline-failed and persists
// the report so the aborted run still leaves a record behind.
func (w *LocalWorkflow) baselineFailedResult(ctx context.Context, catalog *Catalog, output m.Path) *RunResult {
	result := NewRunResult(catalog.Mutants, nil, 0, 0)

	for _, mutant := range catalog.Mutants {
		result.Record(mutant, m.OutcomeBaselineFailed, m.ProcessResult{})
	}

	if err := w.saveReport(context.WithoutCancel(ctx), output, result.Report()); err != nil {
		w.logger.Warn("saving baseline-failed report", "error", err)
	}

	return result
}

func (w *LocalWorkflow) saveReport(ctx context.Context, output m.Path, report m.RunReport) error {
	if output == "" {
		return nil
	}

	if err := w.reports.SaveReport(ctx, output, report); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	w.logger.Info("report saved", "dir", output)

	return nil
}
