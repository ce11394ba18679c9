package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fsbridge",
	Short: "Filesystem bridge for desktop front-ends",
	Long: `fsbridge exposes a small set of filesystem commands (read, write, list,
stat, mkdir, remove, exists, base dir) to a front-end over HTTP, WebSocket
and optionally gRPC. Paths are host paths; relative paths resolve against
the bridge's working directory.

Exit Codes:
  0 - Success
  1 - Command failed or the bridge could not be reached`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
