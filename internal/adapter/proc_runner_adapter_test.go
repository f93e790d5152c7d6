package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/varmint-dev/varmint/internal/model"
)

func TestLocalProcRunnerAdapterRun(t *testing.T) {
	runner := NewLocalProcRunnerAdapter()
	ctx := context.Background()

	t.Run("captures output and zero exit", func(t *testing.T) {
		result, err := runner.Run(ctx, m.Command{
			Argv: []string{"sh", "-c", "echo hello"},
			Dir:  m.Path(t.TempDir()),
		})
		require.NoError(t, err)

		assert.Equal(t, 0, result.ExitCode)
		assert.Contains(t, result.Output, "hello")
		assert.False(t, result.TimedOut)
		assert.Positive(t, result.Elapsed)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		result, err := runner.Run(ctx, m.Command{
			Argv: []string{"sh", "-c", "exit 3"},
			Dir:  m.Path(t.TempDir()),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("stderr is captured too", func(t *testing.T) {
		result, err := runner.Run(ctx, m.Command{
			Argv: []string{"sh", "-c", "echo oops >&2; exit 1"},
			Dir:  m.Path(t.TempDir()),
		})
		require.NoError(t, err)
		assert.Contains(t, result.Output, "oops")
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		start := time.Now()

		result, err := runner.Run(ctx, m.Command{
			Argv:    []string{"sh", "-c", "sleep 30"},
			Dir:     m.Path(t.TempDir()),
			Timeout: 100 * time.Millisecond,
		})
		require.NoError(t, err)

		assert.True(t, result.TimedOut)
		assert.NotEqual(t, 0, result.ExitCode)
		assert.Less(t, time.Since(start), 10*time.Second)
	})

	t.Run("environment reaches the child", func(t *testing.T) {
		result, err := runner.Run(ctx, m.Command{
			Argv: []string{"sh", "-c", "echo $VARMINT_SCENARIO"},
			Env:  []m.EnvVar{{Name: "VARMINT_SCENARIO", Value: "baseline"}, {Name: "PATH", Value: "/usr/bin:/bin"}},
			Dir:  m.Path(t.TempDir()),
		})
		require.NoError(t, err)
		assert.Contains(t, result.Output, "baseline")
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		dir := t.TempDir()

		result, err := runner.Run(ctx, m.Command{
			Argv: []string{"pwd"},
			Dir:  m.Path(dir),
		})
		require.NoError(t, err)
		assert.Contains(t, result.Output, dir)
	})

	t.Run("empty argv is rejected", func(t *testing.T) {
		_, err := runner.Run(ctx, m.Command{})
		require.Error(t, err)
	})

	t.Run("missing binary surfaces a spawn error", func(t *testing.T) {
		_, err := runner.Run(ctx, m.Command{
			Argv: []string{"/no/such/binary"},
			Dir:  m.Path(t.TempDir()),
		})
		require.Error(t, err)
	})
}

func TestCappedBuffer(t *testing.T) {
	buf := newCappedBuffer(8)

	n, err := buf.Write([]byte("12345"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Writes past the cap report full length but store only the remainder.
	n, err = buf.Write([]byte("67890"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, "12345678", buf.String())

	n, err = buf.Write([]byte("more"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "12345678", buf.String())
}
