package adapter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	m "github.com/varmint-dev/varmint/internal/model"
)

// defaultOutputCap bounds how much combined output is captured per scenario.
const defaultOutputCap = 256 * 1024

// ProcRunnerAdapter abstracts scenario execution for mutation testing. The
// domain hands over an immutable Command; the adapter owns spawning, the
// timeout race and forceful termination of the process tree.
type ProcRunnerAdapter interface {
	// Run executes the command and reports exit status, captured combined
	// output and whether the timeout fired. A non-zero exit is not an error;
	// the error return is reserved for spawn failures.
	Run(ctx context.Context, cmd m.Command) (m.ProcessResult, error)
}

// LocalProcRunnerAdapter provides a concrete implementation using os/exec.
// The child is placed in its own process group so descendants die with it.
type LocalProcRunnerAdapter struct {
	outputCap int
}

// NewLocalProcRunnerAdapter constructs a LocalProcRunnerAdapter.
func NewLocalProcRunnerAdapter() *LocalProcRunnerAdapter {
	return &LocalProcRunnerAdapter{outputCap: defaultOutputCap}
}

// Run executes the command, racing completion against cmd.Timeout and against
// cancellation of ctx. On either, the whole process group is killed.
func (a *LocalProcRunnerAdapter) Run(ctx context.Context, command m.Command) (m.ProcessResult, error) {
	if len(command.Argv) == 0 {
		return m.ProcessResult{}, errors.New("empty argument vector")
	}

	runCtx := ctx

	var cancel context.CancelFunc

	if command.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, command.Timeout)
		defer cancel()
	}

	// #nosec G204 - argv comes from the scenario builder, not user input
	cmd := exec.Command(command.Argv[0], command.Argv[1:]...)
	cmd.Dir = string(command.Dir)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	env := os.Environ()
	for _, ev := range command.Env {
		env = append(env, ev.Name+"="+ev.Value)
	}

	cmd.Env = env

	output := newCappedBuffer(a.outputCap)
	cmd.Stdout = output
	cmd.Stderr = output

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return m.ProcessResult{}, err
	}

	done := make(chan struct{})

	go func() {
		select {
		case <-runCtx.Done():
			// Negative pid signals the whole process group, taking any
			// descendants spawned by the build or test down with it.
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()

	close(done)

	elapsed := time.Since(start)
	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)

	exitCode := 0
	if waitErr != nil {
		exitCode = cmd.ProcessState.ExitCode()
		if exitCode == 0 {
			exitCode = -1
		}
	}

	return m.ProcessResult{
		ExitCode: exitCode,
		Output:   output.String(),
		TimedOut: timedOut,
		Elapsed:  elapsed,
	}, nil
}

// cappedBuffer is a concurrency-safe writer that silently drops bytes past
// its capacity. Stdout and stderr of the child share one instance.
type cappedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	cap int
}

func newCappedBuffer(capacity int) *cappedBuffer {
	return &cappedBuffer{cap: capacity}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.cap - b.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}

	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		return len(p), nil
	}

	b.buf.Write(p)

	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
