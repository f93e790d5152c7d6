package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/varmint-dev/varmint/internal/model"
)

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []m.Genre
	}{
		{"empty", []string{}, []m.Genre{}},
		{"single", []string{"arithmetic"}, []m.Genre{m.GenreArithmetic}},
		{"multiple", []string{"boolean", "case-arm"}, []m.Genre{m.GenreBoolean, m.GenreCaseArm}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseGenres(tt.names))
		})
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("mutants escaped")
	err := &exitError{code: 2, err: inner}

	assert.Equal(t, "mutants escaped", err.Error())
	require.ErrorIs(t, err, inner)

	var target *exitError
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, 2, target.code)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "list", "view", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	for _, want := range []string{outputFlagName, excludeFlagName, genreFlagName, "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(want), "missing flag %q", want)
	}
}
