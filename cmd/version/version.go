package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	CoreVersion = "unknown"
	BuildTime   = "unknown"
)

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of diffguard",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("diffguard %s (built %s, %s)\n", CoreVersion, BuildTime, runtime.Version())
		},
	}
}
