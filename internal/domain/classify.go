package domain

import (
	"strings"

	m "github.com/varmint-dev/varmint/internal/model"
)

// unviableMarkers are the `go test` output fragments that betray a mutant
// which never reached test execution. Such mutants prove nothing about the
// suite and are reported separately from caught ones.
var unviableMarkers = []string{
	"[build failed]",
	"[setup failed]",
}

// Classify maps one scenario result onto a mutant outcome. Timeouts win over
// everything else; a zero exit means the suite let the mutant through.
func Classify(result m.ProcessResult) m.OutcomeKind {
	if result.TimedOut {
		return m.OutcomeTimeout
	}

	if result.ExitCode == 0 {
		return m.OutcomeMissed
	}

	for _, marker := range unviableMarkers {
		if strings.Contains(result.Output, marker) {
			return m.OutcomeUnviable
		}
	}

	return m.OutcomeCaught
}
