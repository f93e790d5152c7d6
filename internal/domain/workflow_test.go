package domain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varmint-dev/varmint/internal/adapter"
	m "github.com/varmint-dev/varmint/internal/model"
)

const addSource = `package calc

func Add(a, b int) int {
	return a + b
}
`

func writeProject(t *testing.T) m.Path {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module calc\n\ngo 1.25\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "calc.go"), []byte(addSource), 0o600))

	return m.Path(root)
}

func newTestWorkflow(runner adapter.ProcRunnerAdapter) *LocalWorkflow {
	return NewLocalWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalGoFileAdapter(),
		runner,
		adapter.NewReportStore(),
		testLogger(),
	)
}

// vigilantRunner fails whenever the mutated tree no longer implements
// Add(2, 3) == 5, imitating a suite that asserts exactly that.
func vigilantRunner() *fakeRunner {
	return &fakeRunner{run: func(cmd m.Command) (m.ProcessResult, error) {
		content, err := os.ReadFile(filepath.Join(string(cmd.Dir), "calc.go"))
		if err != nil {
			return m.ProcessResult{}, err
		}

		if strings.Contains(string(content), "a + b") {
			return m.ProcessResult{ExitCode: 0, Elapsed: 10 * time.Millisecond}, nil
		}

		return m.ProcessResult{ExitCode: 1, Output: "--- FAIL: TestAdd", Elapsed: 10 * time.Millisecond}, nil
	}}
}

func TestWorkflowRunCatchesAllMutants(t *testing.T) {
	root := writeProject(t)
	reports := filepath.Join(t.TempDir(), "reports")

	wf := newTestWorkflow(vigilantRunner())

	summary, result, err := wf.Run(context.Background(), RunArgs{
		Dir:         root,
		TestCommand: []string{"go", "test", "./..."},
		Threads:     2,
		Timeouts:    TimeoutOptions{Minimum: 20 * time.Second, Multiplier: 5},
		Output:      m.Path(reports),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	// Every mutant rewrites the body of Add, so the suite catches them all.
	assert.Equal(t, summary.Total, summary.Caught)
	assert.Zero(t, summary.Missed)
	assert.Zero(t, summary.Interrupted)
	assert.Positive(t, summary.Total)
	assert.InDelta(t, 100.0, summary.Score(), 0.001)

	// The report landed on disk.
	_, err = os.Stat(filepath.Join(reports, "report.yaml"))
	require.NoError(t, err)

	// The original tree is untouched.
	content, err := os.ReadFile(filepath.Join(string(root), "calc.go"))
	require.NoError(t, err)
	assert.Equal(t, addSource, string(content))
}

func TestWorkflowRunReportsMissedMutants(t *testing.T) {
	root := writeProject(t)

	// A suite that always passes misses everything viable.
	runner := &fakeRunner{run: func(_ m.Command) (m.ProcessResult, error) {
		return m.ProcessResult{ExitCode: 0, Elapsed: time.Millisecond}, nil
	}}

	wf := newTestWorkflow(runner)

	summary, _, err := wf.Run(context.Background(), RunArgs{
		Dir:         root,
		TestCommand: []string{"go", "test", "./..."},
		Threads:     1,
		Timeouts:    TimeoutOptions{Minimum: 20 * time.Second, Multiplier: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, summary.Total, summary.Missed)
	assert.InDelta(t, 0.0, summary.Score(), 0.001)
}

func TestWorkflowRunBaselineFailureAborts(t *testing.T) {
	root := writeProject(t)
	reports := filepath.Join(t.TempDir(), "reports")

	runner := &fakeRunner{run: func(_ m.Command) (m.ProcessResult, error) {
		return m.ProcessResult{ExitCode: 1, Output: "--- FAIL: TestAdd"}, nil
	}}

	wf := newTestWorkflow(runner)

	_, result, err := wf.Run(context.Background(), RunArgs{
		Dir:         root,
		TestCommand: []string{"go", "test", "./..."},
		Threads:     1,
		Timeouts:    TimeoutOptions{Minimum: 20 * time.Second, Multiplier: 5},
		Output:      m.Path(reports),
	})

	var baselineErr *BaselineFailedError
	require.ErrorAs(t, err, &baselineErr)

	// Only the baseline ran; no mutant scenario was dispatched.
	assert.Equal(t, 1, runner.callCount())

	// Every mutant is recorded as baseline-failed.
	report := result.Report()
	require.NotEmpty(t, report.Mutants)

	for _, mu := range report.Mutants {
		assert.Equal(t, "baseline-failed", mu.Outcome)
	}
}

func TestWorkflowRunEmptyCatalog(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module empty\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.go"), []byte("// Package empty.\npackage empty\n"), 0o600))

	runner := &fakeRunner{}
	wf := newTestWorkflow(runner)

	summary, _, err := wf.Run(context.Background(), RunArgs{
		Dir:         m.Path(root),
		TestCommand: []string{"go", "test", "./..."},
		Threads:     1,
		Timeouts:    TimeoutOptions{Minimum: time.Second, Multiplier: 2},
	})
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.InDelta(t, 100.0, summary.Score(), 0.001)
	assert.Zero(t, runner.callCount(), "nothing to test means nothing runs")
}

func TestWorkflowRunFindsProjectRootFromSubdir(t *testing.T) {
	root := writeProject(t)
	sub := filepath.Join(string(root), "sub")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	wf := newTestWorkflow(vigilantRunner())

	summary, _, err := wf.Run(context.Background(), RunArgs{
		Dir:         m.Path(sub),
		TestCommand: []string{"go", "test", "./..."},
		Threads:     1,
		Timeouts:    TimeoutOptions{Minimum: time.Second, Multiplier: 2},
	})
	require.NoError(t, err)
	assert.Positive(t, summary.Total)
}

func TestWorkflowList(t *testing.T) {
	root := writeProject(t)

	wf := newTestWorkflow(&fakeRunner{})

	catalog, err := wf.List(context.Background(), ListArgs{Dir: root})
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Mutants)

	// Listing only analyzes; the runner must stay idle.
	genres := make(map[m.Genre]struct{})
	for _, mu := range catalog.Mutants {
		genres[mu.Genre] = struct{}{}
	}

	assert.Contains(t, genres, m.GenreArithmetic)
}
