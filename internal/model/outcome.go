package model

import "time"

// OutcomeKind classifies what happened when one scenario ran.
type OutcomeKind int

const (
	// OutcomeCaught indicates the test suite detected the mutation (tests failed).
	OutcomeCaught OutcomeKind = iota
	// OutcomeMissed indicates the mutated tree built and passed tests unchanged.
	OutcomeMissed
	// OutcomeUnviable indicates the mutated tree failed to build.
	OutcomeUnviable
	// OutcomeTimeout indicates the scenario exceeded its computed bound and was killed.
	OutcomeTimeout
	// OutcomeInterrupted indicates the mutant was never dispatched because the run
	// was cancelled.
	OutcomeInterrupted
	// OutcomeBaselineFailed indicates the unmutated tree failed its control run.
	OutcomeBaselineFailed
)

// String returns the report label for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCaught:
		return "caught"
	case OutcomeMissed:
		return "missed"
	case OutcomeUnviable:
		return "unviable"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeBaselineFailed:
		return "baseline-failed"
	}

	return "unknown"
}

// Outcome is the final classification of one mutant, with elapsed wall time
// and a reference into the captured-output spill (-1 when no output exists).
type Outcome struct {
	Kind      OutcomeKind
	Elapsed   time.Duration
	OutputRef int64
}

// ProcessResult is what the external process-execution collaborator reports
// back for one spawned scenario.
type ProcessResult struct {
	ExitCode int
	Output   string
	TimedOut bool
	Elapsed  time.Duration
}
