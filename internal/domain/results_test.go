package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/varmint-dev/varmint/internal/model"
	"github.com/varmint-dev/varmint/pkg"
)

func catalogOfThree() []m.Mutant {
	return []m.Mutant{
		{Ordinal: 0, File: "a.go", Genre: m.GenreArithmetic},
		{Ordinal: 1, File: "a.go", Genre: m.GenreBoolean},
		{Ordinal: 2, File: "b.go", Genre: m.GenreStub},
	}
}

func TestRunResultRecordOutOfOrder(t *testing.T) {
	mutants := catalogOfThree()
	result := NewRunResult(mutants, nil, time.Second, 5*time.Second)

	// Completion order differs from catalog order.
	result.Record(mutants[2], m.OutcomeMissed, m.ProcessResult{ExitCode: 0, Elapsed: time.Second})
	result.Record(mutants[0], m.OutcomeCaught, m.ProcessResult{ExitCode: 1, Elapsed: 2 * time.Second})
	result.Record(mutants[1], m.OutcomeUnviable, m.ProcessResult{ExitCode: 1})

	report := result.Report()
	require.Len(t, report.Mutants, 3)

	// The report is in catalog order regardless.
	assert.Equal(t, 0, report.Mutants[0].Ordinal)
	assert.Equal(t, "caught", report.Mutants[0].Outcome)
	assert.Equal(t, 1, report.Mutants[1].Ordinal)
	assert.Equal(t, "unviable", report.Mutants[1].Outcome)
	assert.Equal(t, 2, report.Mutants[2].Ordinal)
	assert.Equal(t, "missed", report.Mutants[2].Outcome)
}

func TestRunResultSummary(t *testing.T) {
	mutants := catalogOfThree()
	result := NewRunResult(mutants, nil, time.Second, 5*time.Second)

	result.Record(mutants[0], m.OutcomeCaught, m.ProcessResult{ExitCode: 1})
	result.Record(mutants[1], m.OutcomeMissed, m.ProcessResult{ExitCode: 0})
	result.RecordInterrupted(mutants[2])

	summary := result.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Caught)
	assert.Equal(t, 1, summary.Missed)
	assert.Equal(t, 1, summary.Interrupted)
	assert.Equal(t, time.Second, summary.Baseline)
	assert.Equal(t, 5*time.Second, summary.Timeout)
}

func TestRunResultInterruptedDoesNotOverwrite(t *testing.T) {
	mutants := catalogOfThree()
	result := NewRunResult(mutants, nil, 0, 0)

	result.Record(mutants[0], m.OutcomeCaught, m.ProcessResult{ExitCode: 1})
	result.RecordInterrupted(mutants[0])

	outcome, ok := result.Outcome(0)
	require.True(t, ok)
	assert.Equal(t, m.OutcomeCaught, outcome.Kind)
}

func TestRunResultUnrecordedMutantsReportInterrupted(t *testing.T) {
	mutants := catalogOfThree()
	result := NewRunResult(mutants, nil, 0, 0)

	result.Record(mutants[0], m.OutcomeCaught, m.ProcessResult{ExitCode: 1})

	report := result.Report()
	assert.Equal(t, "interrupted", report.Mutants[1].Outcome)
	assert.Equal(t, "interrupted", report.Mutants[2].Outcome)

	summary := result.Summary()
	assert.Equal(t, 2, summary.Interrupted)
}

func TestRunResultSpillsOutput(t *testing.T) {
	spill, err := pkg.NewOutputSpill()
	require.NoError(t, err)
	defer func() { _ = spill.Close() }()

	mutants := catalogOfThree()
	result := NewRunResult(mutants, spill, 0, 0)

	result.Record(mutants[0], m.OutcomeCaught, m.ProcessResult{ExitCode: 1, Output: "--- FAIL: TestAdd"})
	result.Record(mutants[1], m.OutcomeMissed, m.ProcessResult{ExitCode: 0})

	assert.Equal(t, "--- FAIL: TestAdd", result.Output(0))
	assert.Equal(t, "", result.Output(1))
	assert.Equal(t, "", result.Output(2))

	outcome, ok := result.Outcome(0)
	require.True(t, ok)
	assert.GreaterOrEqual(t, outcome.OutputRef, int64(0))

	outcome, ok = result.Outcome(1)
	require.True(t, ok)
	assert.Equal(t, int64(-1), outcome.OutputRef)
}
