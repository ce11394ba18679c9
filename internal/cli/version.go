package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Build-time variables set via ldflags
var (
	commit = "unknown"
	date   = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "fsbridge", versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = types.Version
	rootCmd.SetVersionTemplate("{{ .Name }} " + versionString() + "\n")
}

func versionString() string {
	return fmt.Sprintf("%s (%s, %s) %s/%s", types.Version, commit, date, runtime.GOOS, runtime.GOARCH)
}
