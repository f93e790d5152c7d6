package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmdWritesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newInitCmd()
	require.NoError(t, cmd.RunE(cmd, nil))

	content, err := os.ReadFile(configFileName)
	require.NoError(t, err)

	assert.Contains(t, string(content), "run:")
	assert.Contains(t, string(content), "log:")
}

func TestInitCmdRefusesToOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(configFileName, []byte("version: 1\n"), 0o600))

	cmd := newInitCmd()
	err := cmd.RunE(cmd, nil)
	require.Error(t, err)
}
