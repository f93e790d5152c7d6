package model

import "time"

// MutantReport is the flattened record for one mutant handed to reporting
// collaborators and persisted by the report store.
type MutantReport struct {
	Ordinal     int           `yaml:"ordinal"`
	Genre       Genre         `yaml:"genre"`
	File        Path          `yaml:"file"`
	Line        int           `yaml:"line"`
	Column      int           `yaml:"column"`
	Function    string        `yaml:"function"`
	Description string        `yaml:"description"`
	Outcome     string        `yaml:"outcome"`
	Elapsed     time.Duration `yaml:"elapsed"`
}

// RunReport is the persisted form of a whole run.
type RunReport struct {
	Baseline time.Duration  `yaml:"baseline"`
	Timeout  time.Duration  `yaml:"timeout"`
	Mutants  []MutantReport `yaml:"mutants"`
}
