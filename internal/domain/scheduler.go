package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/varmint-dev/varmint/internal/adapter"
	m "github.com/varmint-dev/varmint/internal/model"
)

// SchedulerHooks lets presentation layers observe scenario lifecycle events.
// Hooks are called from worker goroutines and must be safe for concurrent
// use. Nil hooks are skipped.
type SchedulerHooks struct {
	OnBegin  func(total int)
	OnStart  func(mutant m.Mutant)
	OnResult func(mutant m.Mutant, kind m.OutcomeKind)
}

// Scheduler dispatches mutant scenarios across the slot pool with bounded
// parallelism. Cancelling ctx stops dispatching new scenarios; in-flight
// ones finish or hit their own timeout, and the remainder is recorded as
// interrupted.
type Scheduler struct {
	runner adapter.ProcRunnerAdapter
	pool   *SlotPool
	logger *slog.Logger
	hooks  SchedulerHooks
}

// NewScheduler constructs a Scheduler.
func NewScheduler(runner adapter.ProcRunnerAdapter, pool *SlotPool, logger *slog.Logger, hooks SchedulerHooks) *Scheduler {
	return &Scheduler{runner: runner, pool: pool, logger: logger, hooks: hooks}
}

// Run executes every catalog mutant and records outcomes into result. At
// most threads scenarios run at once. The returned error is nil both on full
// completion and on interruption; interruption is visible in the recorded
// outcomes instead.
func (s *Scheduler) Run(ctx context.Context, mutants []m.Mutant, cfg BuildConfig, result *RunResult, threads int) error {
	if threads < 1 {
		threads = 1
	}

	if threads > s.pool.Size() {
		threads = s.pool.Size()
	}

	if s.hooks.OnBegin != nil {
		s.hooks.OnBegin(len(mutants))
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for _, mutant := range mutants {
		if groupCtx.Err() != nil {
			result.RecordInterrupted(mutant)

			continue
		}

		group.Go(func() error {
			if groupCtx.Err() != nil {
				result.RecordInterrupted(mutant)

				return nil
			}

			return s.runOne(groupCtx, mutant, cfg, result)
		})
	}

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running scenarios: %w", err)
	}

	return nil
}

// runOne plays a single scenario: acquire slot, apply, execute, revert,
// release. The process itself runs detached from run cancellation so an
// interrupt never leaves a half-observed scenario; its own timeout still
// bounds it.
func (s *Scheduler) runOne(ctx context.Context, mutant m.Mutant, cfg BuildConfig, result *RunResult) error {
	slot, err := s.pool.Acquire(ctx)
	if err != nil {
		result.RecordInterrupted(mutant)

		return nil
	}
	defer s.pool.Release(slot)

	if s.hooks.OnStart != nil {
		s.hooks.OnStart(mutant)
	}

	if err := s.pool.Apply(ctx, slot, mutant); err != nil {
		return fmt.Errorf("applying mutant %d: %w", mutant.Ordinal, err)
	}

	cmd := BuildCommand(&mutant, slot.Root, cfg)

	procResult, runErr := s.runner.Run(context.WithoutCancel(ctx), cmd)

	if err := s.pool.Revert(context.WithoutCancel(ctx), slot, mutant); err != nil {
		return fmt.Errorf("reverting mutant %d: %w", mutant.Ordinal, err)
	}

	if runErr != nil {
		return fmt.Errorf("running mutant %d: %w", mutant.Ordinal, runErr)
	}

	kind := Classify(procResult)
	result.Record(mutant, kind, procResult)

	s.logger.Debug("scenario finished",
		"ordinal", mutant.Ordinal,
		"outcome", kind.String(),
		"elapsed", procResult.Elapsed,
	)

	if s.hooks.OnResult != nil {
		s.hooks.OnResult(mutant, kind)
	}

	return nil
}
