package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/varmint-dev/varmint/internal/domain"
	m "github.com/varmint-dev/varmint/internal/model"
)

// Exit codes reported by the run command.
const (
	exitCodeEscaped        = 2
	exitCodeBaselineFailed = 3
)

var runParallelFlag int
var runTimeoutFlag time.Duration
var runMinTimeoutFlag time.Duration
var runMultiplierFlag float64
var runTestCommandFlag []string
var runInDiffFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Run mutation testing",
		Long: `Generate mutants for the project containing dir (default: current
directory), run the test suite against each one and report the mutants the
suite failed to catch.

Exit codes: 0 when every mutant was caught, 2 when mutants escaped or were
unviable, 3 when the baseline test run failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dir := m.Path(".")
			if len(args) == 1 {
				dir = m.Path(args[0])
			}

			diff, err := readDiffFile(runInDiffFlag)
			if err != nil {
				return err
			}

			runArgs := domain.RunArgs{
				Dir:         dir,
				TestCommand: viper.GetStringSlice(testCommandConfigKey),
				Threads:     viper.GetInt(parallelConfigKey),
				Timeouts: domain.TimeoutOptions{
					Override:   viper.GetDuration(timeoutConfigKey),
					Minimum:    viper.GetDuration(minTimeoutConfigKey),
					Multiplier: viper.GetFloat64(multiplierConfigKey),
				},
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Genres:  parseGenres(viper.GetStringSlice(genreConfigKey)),
				Diff:    diff,
				Output:  m.Path(viper.GetString(outputFlagName)),
				Hooks: domain.SchedulerHooks{
					OnBegin: func(total int) {
						_ = ui.Start(ctx, total)
					},
					OnStart:  ui.ScenarioStarted,
					OnResult: ui.ScenarioFinished,
				},
			}

			return runMutationTest(ctx, cmd, runArgs)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func runMutationTest(ctx context.Context, cmd *cobra.Command, args domain.RunArgs) error {
	summary, result, err := buildWorkflow().Run(ctx, args)

	var baselineErr *domain.BaselineFailedError
	if errors.As(err, &baselineErr) {
		cmd.PrintErrf("baseline test run failed (exit code %d):\n%s\n", baselineErr.ExitCode, baselineErr.Output)
		cmd.SilenceUsage = true

		return &exitError{code: exitCodeBaselineFailed, err: err}
	}

	ui.Close(ctx)

	if err != nil {
		return err
	}

	if displayErr := ui.DisplaySummary(ctx, summary, result, resultMutants(result)); displayErr != nil {
		return displayErr
	}

	if summary.Missed > 0 || summary.Unviable > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		return &exitError{
			code: exitCodeEscaped,
			err:  fmt.Errorf("%d mutant(s) escaped, %d unviable", summary.Missed, summary.Unviable),
		}
	}

	return nil
}

func readDiffFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	content, err := os.ReadFile(path) // #nosec G304 - user-supplied diff path
	if err != nil {
		return "", fmt.Errorf("reading diff file: %w", err)
	}

	return string(content), nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel scenario workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().DurationVar(&runTimeoutFlag, timeoutFlagName, viper.GetDuration(timeoutConfigKey), "fixed scenario timeout (overrides the baseline-derived value)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutConfigKey)

	cmd.Flags().DurationVar(&runMinTimeoutFlag, minTimeoutFlagName, viper.GetDuration(minTimeoutConfigKey), "lower bound for the baseline-derived scenario timeout")
	bindFlagToConfig(cmd.Flags().Lookup(minTimeoutFlagName), minTimeoutConfigKey)

	cmd.Flags().Float64Var(&runMultiplierFlag, multiplierFlagName, viper.GetFloat64(multiplierConfigKey), "baseline multiplier for the scenario timeout")
	bindFlagToConfig(cmd.Flags().Lookup(multiplierFlagName), multiplierConfigKey)

	cmd.Flags().StringArrayVar(&runTestCommandFlag, testCommandFlagName, viper.GetStringSlice(testCommandConfigKey), "test suite argv (can be repeated, one element per flag)")
	bindFlagToConfig(cmd.Flags().Lookup(testCommandFlagName), testCommandConfigKey)

	cmd.Flags().StringVar(&runInDiffFlag, diffFlagName, "", "only mutate lines touched by the unified diff in this file")
}

// resultMutants recovers catalog order for display from the aggregator.
func resultMutants(result *domain.RunResult) []m.Mutant {
	if result == nil {
		return nil
	}

	return result.Mutants()
}
