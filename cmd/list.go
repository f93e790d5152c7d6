package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/varmint-dev/varmint/internal/domain"
	m "github.com/varmint-dev/varmint/internal/model"
)

var listDiffsFlag bool
var listInDiffFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List generated mutants without running tests",
		Long: `Show every mutant that would be tested for the project containing dir
(default: current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := m.Path(".")
			if len(args) == 1 {
				dir = m.Path(args[0])
			}

			diff, err := readDiffFile(listInDiffFlag)
			if err != nil {
				return err
			}

			catalog, err := buildWorkflow().List(cmd.Context(), domain.ListArgs{
				Dir:     dir,
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Genres:  parseGenres(viper.GetStringSlice(genreConfigKey)),
				Diff:    diff,
			})
			if err != nil {
				return err
			}

			return ui.DisplayCatalog(cmd.Context(), catalog, listDiffsFlag)
		},
	}

	cmd.Flags().BoolVar(&listDiffsFlag, diffsFlagName, false, "show a unified diff for each mutant")
	cmd.Flags().StringVar(&listInDiffFlag, diffFlagName, "", "only list mutants on lines touched by the unified diff in this file")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
