// Package cmd provides the root command and CLI setup for varmint.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/varmint-dev/varmint/internal/adapter"
	"github.com/varmint-dev/varmint/internal/controller"
	"github.com/varmint-dev/varmint/internal/domain"
	m "github.com/varmint-dev/varmint/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var goFileAdapter adapter.GoFileAdapter
var procRunner adapter.ProcRunnerAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// genreNames restricts commands to the named mutation genres.
var genreNames []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	procRunner = adapter.NewLocalProcRunnerAdapter()
	reportStore = adapter.NewReportStore()
}

// buildWorkflow is deferred past flag parsing so the logger reflects the
// final verbosity settings.
func buildWorkflow() domain.Workflow {
	if workflow == nil {
		if globalLogger == nil {
			configureLogger("", false)
		}

		workflow = domain.NewLocalWorkflow(fsAdapter, goFileAdapter, procRunner, reportStore, globalLogger)
	}

	return workflow
}

const rootLongDescription = `Varmint is a mutation testing tool for Go. It plants small bugs (mutants)
in your code, runs your test suite against each one, and reports the
mutants your tests fail to catch.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "varmint",
		Short: "Go mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&genreNames, genreFlagName, "g", viper.GetStringSlice(genreConfigKey), "restrict to the named mutation genres (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(genreFlagName), genreConfigKey)

	cmd.PersistentFlags().Bool("verbose", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}

		os.Exit(1)
	}
}

func parseGenres(names []string) []m.Genre {
	genres := make([]m.Genre, 0, len(names))
	for _, name := range names {
		genres = append(genres, m.Genre(name))
	}

	return genres
}

// exitError carries a specific process exit code up through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}
