package domain

import "time"

// Summary is the tallied result of a whole run.
type Summary struct {
	Total       int
	Caught      int
	Missed      int
	Unviable    int
	TimedOut    int
	Interrupted int
	Baseline    time.Duration
	Timeout     time.Duration
}

// Viable returns the number of mutants that compiled and actually ran.
func (s Summary) Viable() int {
	return s.Caught + s.Missed + s.TimedOut
}

// Score returns the mutation score as a percentage: killed mutants over
// viable ones. Timeouts count as killed because the mutant changed observable
// behavior. An empty run scores 100.
func (s Summary) Score() float64 {
	viable := s.Viable()
	if viable == 0 {
		return 100.0
	}

	return float64(s.Caught+s.TimedOut) / float64(viable) * 100.0
}
