package domain

import (
	"context"
	"io"
	"log/slog"
	"sync"

	m "github.com/varmint-dev/varmint/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner is a ProcRunnerAdapter test double. The run callback decides
// each scenario's result; the runner tracks peak concurrency on the side.
type fakeRunner struct {
	mu        sync.Mutex
	run       func(cmd m.Command) (m.ProcessResult, error)
	calls     []m.Command
	active    int
	maxActive int
	started   chan struct{}
	release   chan struct{}
}

func (f *fakeRunner) Run(_ context.Context, cmd m.Command) (m.ProcessResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.active++

	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}

	if f.release != nil {
		<-f.release
	}

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.run != nil {
		return f.run(cmd)
	}

	return m.ProcessResult{ExitCode: 1, Output: "--- FAIL: TestSomething"}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakeRunner) peakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.maxActive
}
