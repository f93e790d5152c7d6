package model

import "time"

// EnvVar is one (name, value) environment pair. Order matters for
// structural equality of commands, so env is a slice, not a map.
type EnvVar struct {
	Name  string
	Value string
}

// Command is an immutable, concrete build-and-test invocation: an ordered
// argument vector, ordered environment pairs, a working directory (the owning
// tree slot) and a timeout. It carries no mutable state; equality is
// structural.
type Command struct {
	Argv    []string
	Env     []EnvVar
	Dir     Path
	Timeout time.Duration
}

// Equal reports structural equality of two commands.
func (c Command) Equal(other Command) bool {
	if c.Dir != other.Dir || c.Timeout != other.Timeout {
		return false
	}

	if len(c.Argv) != len(other.Argv) || len(c.Env) != len(other.Env) {
		return false
	}

	for i, arg := range c.Argv {
		if other.Argv[i] != arg {
			return false
		}
	}

	for i, env := range c.Env {
		if other.Env[i] != env {
			return false
		}
	}

	return true
}
