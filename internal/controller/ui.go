// Package controller provides output adapters for displaying mutation runs.
package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/varmint-dev/varmint/internal/domain"
	m "github.com/varmint-dev/varmint/internal/model"
)

// UI is the presentation seam the commands drive. Implementations range from
// plain line output to an interactive terminal display.
type UI interface {
	// Start prepares the UI for a run over total mutants.
	Start(ctx context.Context, total int) error
	// ScenarioStarted is invoked from worker goroutines as scenarios begin.
	ScenarioStarted(mutant m.Mutant)
	// ScenarioFinished is invoked from worker goroutines with each verdict.
	ScenarioFinished(mutant m.Mutant, kind m.OutcomeKind)
	// DisplayCatalog renders the mutant list without running anything.
	DisplayCatalog(ctx context.Context, catalog *domain.Catalog, withDiffs bool) error
	// DisplaySummary renders the final tally and surviving mutants.
	DisplaySummary(ctx context.Context, summary domain.Summary, result *domain.RunResult, catalog []m.Mutant) error
	// DisplayReport renders a previously saved run report.
	DisplayReport(ctx context.Context, report m.RunReport) error
	// Close releases any terminal state the UI holds.
	Close(ctx context.Context)
}

// NewUI picks the interactive display on a terminal and plain line output
// everywhere else.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// renderMutantDiff produces a unified diff between the pristine file and the
// file with the mutant applied.
func renderMutantDiff(mutant m.Mutant, pristine []byte) (string, error) {
	if mutant.Span.Start < 0 || mutant.Span.End > len(pristine) {
		return "", fmt.Errorf("mutant %d span out of range for %s", mutant.Ordinal, mutant.File)
	}

	var mutated strings.Builder

	mutated.Write(pristine[:mutant.Span.Start])
	mutated.WriteString(mutant.Replacement)
	mutated.Write(pristine[mutant.Span.End:])

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(pristine)),
		B:        difflib.SplitLines(mutated.String()),
		FromFile: string(mutant.File),
		ToFile:   string(mutant.File) + " (mutated)",
		Context:  2,
	}

	return difflib.GetUnifiedDiffString(diff)
}
