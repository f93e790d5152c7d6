package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/varmint-dev/varmint/internal/domain"
	m "github.com/varmint-dev/varmint/internal/model"
)

// SimpleUI implements UI with plain line output through the cobra command.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start announces the run.
func (s *SimpleUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Testing %d mutant(s)\n", total)

	return nil
}

// ScenarioStarted prints nothing; line output only reports verdicts.
func (s *SimpleUI) ScenarioStarted(_ m.Mutant) {}

// ScenarioFinished prints one verdict line per completed scenario.
func (s *SimpleUI) ScenarioFinished(mutant m.Mutant, kind m.OutcomeKind) {
	s.printf("%-8s %s\n", kind.String(), mutant.Describe())
}

// DisplayCatalog prints the mutant list, optionally with unified diffs.
func (s *SimpleUI) DisplayCatalog(ctx context.Context, catalog *domain.Catalog, withDiffs bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range catalog.Mutants {
		s.printf("%s\n", mutant.Describe())

		if !withDiffs {
			continue
		}

		diff, err := renderMutantDiff(mutant, catalog.Files[mutant.File])
		if err != nil {
			return err
		}

		s.printf("%s\n", diff)
	}

	s.printf("%d mutant(s)\n", len(catalog.Mutants))

	return nil
}

// DisplaySummary prints the outcome table, the mutation score and the
// descriptions of mutants the suite let through.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary domain.Summary, result *domain.RunResult, catalog []m.Mutant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range catalog {
		outcome, ok := result.Outcome(mutant.Ordinal)
		if !ok || outcome.Kind != m.OutcomeMissed {
			continue
		}

		s.printf("MISSED: %s\n", mutant.Describe())
	}

	s.printf("\n%s", renderSummaryTable(summary))
	s.printf("Mutation score: %.1f%%\n", summary.Score())

	return nil
}

func renderSummaryTable(summary domain.Summary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Outcome", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	rows := []struct {
		label string
		count int
	}{
		{"caught", summary.Caught},
		{"missed", summary.Missed},
		{"unviable", summary.Unviable},
		{"timeout", summary.TimedOut},
		{"interrupted", summary.Interrupted},
	}

	for _, row := range rows {
		table.Append([]string{row.label, fmt.Sprintf("%d", row.count)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", summary.Total)})
	table.Render()

	return buf.String()
}

// DisplayReport prints a previously saved run report as a table.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderReportTable(report))
	s.printf("baseline: %s, scenario timeout: %s\n", report.Baseline, report.Timeout)

	return nil
}

func renderReportTable(report m.RunReport) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Outcome", "Mutant"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, mutant := range report.Mutants {
		table.Append([]string{mutant.Outcome, mutant.Description})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(report.Mutants))})
	table.Render()

	return buf.String()
}

// Close finalizes the UI (no-op for line output).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
