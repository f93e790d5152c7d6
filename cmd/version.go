package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the varmint version",
		Long:  "Print the version varmint was built as and the Go toolchain that built it.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("varmint %s\n", buildVersion())
		},
	}
}

// buildVersion reads the module version stamped into the binary. Builds from
// a source checkout carry no release version and report as devel.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "(devel)"
	}

	return info.Main.Version + " (" + info.GoVersion + ")"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
