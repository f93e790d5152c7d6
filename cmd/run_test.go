package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandFlags(t *testing.T) {
	cmd := newRunCmd()

	for _, want := range []string{
		parallelFlagName,
		timeoutFlagName,
		minTimeoutFlagName,
		multiplierFlagName,
		testCommandFlagName,
		diffFlagName,
	} {
		assert.NotNil(t, cmd.Flags().Lookup(want), "missing flag %q", want)
	}
}

func TestRunCommandExitCodeConstants(t *testing.T) {
	assert.Equal(t, 2, exitCodeEscaped)
	assert.Equal(t, 3, exitCodeBaselineFailed)
}

func TestReadDiffFile(t *testing.T) {
	t.Run("empty path means no diff", func(t *testing.T) {
		diff, err := readDiffFile("")
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("reads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "changes.diff")
		require.NoError(t, os.WriteFile(path, []byte("+++ b/x.go\n"), 0o600))

		diff, err := readDiffFile(path)
		require.NoError(t, err)
		assert.Equal(t, "+++ b/x.go\n", diff)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := readDiffFile(filepath.Join(t.TempDir(), "absent.diff"))
		require.Error(t, err)
	})
}
