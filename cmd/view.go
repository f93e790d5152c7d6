package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "github.com/varmint-dev/varmint/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View a previously saved mutation report",
		Long:  "Display the run report saved in the reports directory by a prior run.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))

			report, err := reportStore.LoadReport(cmd.Context(), reportsPath)
			if err != nil {
				return err
			}

			return ui.DisplayReport(cmd.Context(), report)
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
