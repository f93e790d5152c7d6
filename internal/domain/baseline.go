package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/varmint-dev/varmint/internal/adapter"
	m "github.com/varmint-dev/varmint/internal/model"
)

// TimeoutOptions derive the per-scenario deadline from the measured baseline.
type TimeoutOptions struct {
	// Override, when positive, is used verbatim and the baseline duration is
	// ignored for timeout purposes.
	Override time.Duration
	// Minimum floors the derived timeout so very fast suites still get room.
	Minimum time.Duration
	// Multiplier scales the baseline duration.
	Multiplier float64
}

// For computes the scenario timeout for a measured baseline duration.
func (o TimeoutOptions) For(baseline time.Duration) time.Duration {
	if o.Override > 0 {
		return o.Override
	}

	derived := time.Duration(float64(baseline) * o.Multiplier)
	if derived < o.Minimum {
		return o.Minimum
	}

	return derived
}

// BaselineFailedError reports that the unmutated tree does not pass its own
// test suite, which invalidates every mutant verdict the run could produce.
type BaselineFailedError struct {
	ExitCode int
	Output   string
}

func (e *BaselineFailedError) Error() string {
	return fmt.Sprintf("baseline test run failed with exit code %d", e.ExitCode)
}

// BaselineTimer measures how long the test suite takes on pristine sources.
type BaselineTimer struct {
	runner adapter.ProcRunnerAdapter
	logger *slog.Logger
}

// NewBaselineTimer constructs a BaselineTimer.
func NewBaselineTimer(runner adapter.ProcRunnerAdapter, logger *slog.Logger) *BaselineTimer {
	return &BaselineTimer{runner: runner, logger: logger}
}

// Measure runs the baseline scenario in dir and returns its wall-clock
// duration. A generous fixed deadline guards against a hung suite; a failing
// or timed-out baseline aborts with BaselineFailedError because no mutant can
// be judged against a broken suite.
func (t *BaselineTimer) Measure(ctx context.Context, dir m.Path, cfg BuildConfig) (time.Duration, error) {
	baselineCfg := cfg
	if baselineCfg.Timeout <= 0 {
		baselineCfg.Timeout = 10 * time.Minute
	}

	cmd := BuildCommand(nil, dir, baselineCfg)

	t.logger.Debug("measuring baseline", "dir", dir, "argv", cmd.Argv, "timeout", baselineCfg.Timeout)

	result, err := t.runner.Run(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("running baseline: %w", err)
	}

	if result.TimedOut {
		return 0, &BaselineFailedError{ExitCode: result.ExitCode, Output: result.Output}
	}

	if result.ExitCode != 0 {
		return 0, &BaselineFailedError{ExitCode: result.ExitCode, Output: result.Output}
	}

	t.logger.Debug("baseline complete", "elapsed", result.Elapsed)

	return result.Elapsed, nil
}
