package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListCommandFlags(t *testing.T) {
	cmd := newListCmd()

	assert.NotNil(t, cmd.Flags().Lookup(diffsFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(diffFlagName))
}

func TestListCommandAcceptsAtMostOneDir(t *testing.T) {
	cmd := newListCmd()

	assert.NoError(t, cmd.Args(cmd, []string{}))
	assert.NoError(t, cmd.Args(cmd, []string{"./project"}))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
}
