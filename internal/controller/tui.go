package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/varmint-dev/varmint/internal/domain"
	m "github.com/varmint-dev/varmint/internal/model"
)

const verdictHistory = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	caughtStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	scoreStyle   = lipgloss.NewStyle().Bold(true)
)

// TUI implements UI with a live Bubble Tea progress display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the live display for a run over total mutants.
func (t *TUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newRunModel(total)

	if f, ok := t.output.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			model.width = width
		}
	}

	t.mu.Lock()
	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithContext(ctx))
	t.started = true
	t.mu.Unlock()

	t.wg.Add(1)

	go func() {
		defer t.wg.Done()

		_, _ = t.program.Run()
	}()

	return nil
}

// ScenarioStarted forwards the event into the display loop.
func (t *TUI) ScenarioStarted(mutant m.Mutant) {
	t.send(scenarioStartedMsg{mutant: mutant})
}

// ScenarioFinished forwards the verdict into the display loop.
func (t *TUI) ScenarioFinished(mutant m.Mutant, kind m.OutcomeKind) {
	t.send(scenarioFinishedMsg{mutant: mutant, kind: kind})
}

// DisplayCatalog prints the mutant list. The list view is static, so it
// bypasses the event loop entirely.
func (t *TUI) DisplayCatalog(ctx context.Context, catalog *domain.Catalog, withDiffs bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range catalog.Mutants {
		fmt.Fprintf(t.output, "%s\n", mutant.Describe())

		if !withDiffs {
			continue
		}

		diff, err := renderMutantDiff(mutant, catalog.Files[mutant.File])
		if err != nil {
			return err
		}

		fmt.Fprintf(t.output, "%s\n", diff)
	}

	fmt.Fprintf(t.output, "%s\n", neutralStyle.Render(fmt.Sprintf("%d mutant(s)", len(catalog.Mutants))))

	return nil
}

// DisplaySummary stops the live view and prints the final tally below it.
func (t *TUI) DisplaySummary(ctx context.Context, summary domain.Summary, result *domain.RunResult, catalog []m.Mutant) error {
	t.stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mutant := range catalog {
		outcome, ok := result.Outcome(mutant.Ordinal)
		if !ok || outcome.Kind != m.OutcomeMissed {
			continue
		}

		fmt.Fprintf(t.output, "%s %s\n", missedStyle.Render("MISSED"), mutant.Describe())
	}

	fmt.Fprintf(t.output, "\n%s", renderSummaryTable(summary))
	fmt.Fprintf(t.output, "%s\n", scoreStyle.Render(fmt.Sprintf("Mutation score: %.1f%%", summary.Score())))

	return nil
}

// DisplayReport prints a previously saved run report.
func (t *TUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(t.output, "%s", renderReportTable(report))
	fmt.Fprintf(t.output, "%s\n",
		neutralStyle.Render(fmt.Sprintf("baseline: %s, scenario timeout: %s", report.Baseline, report.Timeout)))

	return nil
}

// Close tears the live view down.
func (t *TUI) Close(_ context.Context) {
	t.stop()
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

func (t *TUI) stop() {
	t.mu.Lock()
	program, started := t.program, t.started
	t.started = false
	t.mu.Unlock()

	if program == nil || !started {
		return
	}

	program.Send(runDoneMsg{})
	t.wg.Wait()
}

type scenarioStartedMsg struct {
	mutant m.Mutant
}

type scenarioFinishedMsg struct {
	mutant m.Mutant
	kind   m.OutcomeKind
}

type runDoneMsg struct{}

type verdict struct {
	mutant m.Mutant
	kind   m.OutcomeKind
}

// runModel is the Bubble Tea model for the live run display.
type runModel struct {
	total    int
	finished int
	caught   int
	missed   int
	recent   []verdict
	spinner  spinner.Model
	bar      progress.Model
	width    int
	done     bool
}

func newRunModel(total int) runModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return runModel{
		total:   total,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		width:   80,
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width

		return rm, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			rm.done = true

			return rm, tea.Quit
		}

		return rm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd

	case scenarioStartedMsg:
		return rm, nil

	case scenarioFinishedMsg:
		rm.finished++

		switch msg.kind {
		case m.OutcomeCaught, m.OutcomeTimeout:
			rm.caught++
		case m.OutcomeMissed:
			rm.missed++
		case m.OutcomeUnviable, m.OutcomeInterrupted, m.OutcomeBaselineFailed:
		}

		rm.recent = append(rm.recent, verdict{mutant: msg.mutant, kind: msg.kind})
		if len(rm.recent) > verdictHistory {
			rm.recent = rm.recent[len(rm.recent)-verdictHistory:]
		}

		return rm, nil

	case runDoneMsg:
		rm.done = true

		return rm, tea.Quit
	}

	return rm, nil
}

func (rm runModel) View() string {
	if rm.done {
		return ""
	}

	percent := 0.0
	if rm.total > 0 {
		percent = float64(rm.finished) / float64(rm.total)
	}

	barWidth := rm.width - 10
	if barWidth > 60 {
		barWidth = 60
	}

	if barWidth > 0 {
		rm.bar.Width = barWidth
	}

	view := fmt.Sprintf("%s %s\n\n", rm.spinner.View(), titleStyle.Render("varmint"))
	view += fmt.Sprintf("  %s %d/%d\n", rm.bar.ViewAs(percent), rm.finished, rm.total)
	view += fmt.Sprintf("  %s  %s\n\n",
		caughtStyle.Render(fmt.Sprintf("caught %d", rm.caught)),
		missedStyle.Render(fmt.Sprintf("missed %d", rm.missed)),
	)

	for _, v := range rm.recent {
		view += fmt.Sprintf("  %s %s\n", styleFor(v.kind).Render(v.kind.String()), v.mutant.Describe())
	}

	view += neutralStyle.Render("\n  q: quit\n")

	return view
}

func styleFor(kind m.OutcomeKind) lipgloss.Style {
	switch kind {
	case m.OutcomeCaught, m.OutcomeTimeout:
		return caughtStyle
	case m.OutcomeMissed:
		return missedStyle
	case m.OutcomeUnviable, m.OutcomeInterrupted, m.OutcomeBaselineFailed:
		return neutralStyle
	}

	return neutralStyle
}
