package domain

import (
	"sync"
	"time"

	m "github.com/varmint-dev/varmint/internal/model"
	"github.com/varmint-dev/varmint/pkg"
)

// RunResult aggregates per-mutant outcomes as scenarios finish, in whatever
// order the scheduler completes them. Full scenario output goes to the spill
// file so only a reference stays in memory per mutant.
type RunResult struct {
	mu       sync.Mutex
	mutants  []m.Mutant
	outcomes map[int]m.Outcome
	spill    pkg.OutputSpill
	baseline time.Duration
	timeout  time.Duration
}

// NewRunResult prepares an aggregator for the given catalog order.
func NewRunResult(mutants []m.Mutant, spill pkg.OutputSpill, baseline, timeout time.Duration) *RunResult {
	return &RunResult{
		mutants:  mutants,
		outcomes: make(map[int]m.Outcome, len(mutants)),
		spill:    spill,
		baseline: baseline,
		timeout:  timeout,
	}
}

// Record stores the outcome for one executed mutant. The scenario output is
// spilled to disk; a spill failure degrades to an outcome without output
// rather than failing the run.
func (r *RunResult) Record(mutant m.Mutant, kind m.OutcomeKind, result m.ProcessResult) {
	ref := int64(-1)

	if result.Output != "" && r.spill != nil {
		if spilled, err := r.spill.Append(result.Output); err == nil {
			ref = spilled
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes[mutant.Ordinal] = m.Outcome{Kind: kind, Elapsed: result.Elapsed, OutputRef: ref}
}

// RecordInterrupted marks a mutant that was never dispatched.
func (r *RunResult) RecordInterrupted(mutant m.Mutant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.outcomes[mutant.Ordinal]; done {
		return
	}

	r.outcomes[mutant.Ordinal] = m.Outcome{Kind: m.OutcomeInterrupted, OutputRef: -1}
}

// Mutants returns the catalog slice the aggregator was built over.
func (r *RunResult) Mutants() []m.Mutant {
	return r.mutants
}

// Outcome returns the recorded outcome for one ordinal.
func (r *RunResult) Outcome(ordinal int) (m.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	outcome, ok := r.outcomes[ordinal]

	return outcome, ok
}

// Output retrieves the spilled scenario output for one ordinal, or "" when
// none was captured.
func (r *RunResult) Output(ordinal int) string {
	r.mu.Lock()
	outcome, ok := r.outcomes[ordinal]
	r.mu.Unlock()

	if !ok || outcome.OutputRef < 0 || r.spill == nil {
		return ""
	}

	output, err := r.spill.Get(outcome.OutputRef)
	if err != nil {
		return ""
	}

	return output
}

// Summary tallies the run, counting mutants in catalog order.
func (r *RunResult) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := Summary{Total: len(r.mutants), Baseline: r.baseline, Timeout: r.timeout}

	for _, mutant := range r.mutants {
		outcome, ok := r.outcomes[mutant.Ordinal]
		if !ok {
			summary.Interrupted++

			continue
		}

		switch outcome.Kind {
		case m.OutcomeCaught:
			summary.Caught++
		case m.OutcomeMissed:
			summary.Missed++
		case m.OutcomeUnviable:
			summary.Unviable++
		case m.OutcomeTimeout:
			summary.TimedOut++
		case m.OutcomeInterrupted:
			summary.Interrupted++
		case m.OutcomeBaselineFailed:
		}
	}

	return summary
}

// Report flattens outcomes into the persistable run report, ordered by
// ordinal regardless of completion order.
func (r *RunResult) Report() m.RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := m.RunReport{
		Baseline: r.baseline,
		Timeout:  r.timeout,
		Mutants:  make([]m.MutantReport, 0, len(r.mutants)),
	}

	for _, mutant := range r.mutants {
		outcome, ok := r.outcomes[mutant.Ordinal]
		if !ok {
			outcome = m.Outcome{Kind: m.OutcomeInterrupted, OutputRef: -1}
		}

		report.Mutants = append(report.Mutants, m.MutantReport{
			Ordinal:     mutant.Ordinal,
			Genre:       mutant.Genre,
			File:        mutant.File,
			Line:        mutant.Line,
			Column:      mutant.Column,
			Function:    mutant.Function,
			Description: mutant.Describe(),
			Outcome:     outcome.Kind.String(),
			Elapsed:     outcome.Elapsed,
		})
	}

	return report
}
