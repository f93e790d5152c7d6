package domain

import (
	"time"

	m "github.com/varmint-dev/varmint/internal/model"
)

// BuildConfig carries the run-wide pieces every scenario command shares.
type BuildConfig struct {
	// TestCommand is the argv executed in each tree, e.g. ["go", "test", "./..."].
	TestCommand []string
	// Env is appended to the inherited environment of every scenario.
	Env []m.EnvVar
	// Timeout bounds one scenario execution.
	Timeout time.Duration
}

// BuildCommand assembles the command for one scenario. A nil mutant means the
// baseline scenario; the command is identical apart from the marker variable
// so baseline timing stays representative of mutant runs. The function is
// pure: equal inputs always produce structurally equal commands.
func BuildCommand(mutant *m.Mutant, dir m.Path, cfg BuildConfig) m.Command {
	env := make([]m.EnvVar, 0, len(cfg.Env)+1)
	env = append(env, cfg.Env...)

	if mutant == nil {
		env = append(env, m.EnvVar{Name: "VARMINT_SCENARIO", Value: "baseline"})
	} else {
		env = append(env, m.EnvVar{Name: "VARMINT_SCENARIO", Value: mutant.Describe()})
	}

	argv := make([]string, len(cfg.TestCommand))
	copy(argv, cfg.TestCommand)

	return m.Command{
		Argv:    argv,
		Env:     env,
		Dir:     dir,
		Timeout: cfg.Timeout,
	}
}
