package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffguard/diffguard/cmd/gate"
	"github.com/diffguard/diffguard/cmd/review"
	"github.com/diffguard/diffguard/cmd/version"
	"github.com/diffguard/diffguard/pkg/shared/config"
	sharederrors "github.com/diffguard/diffguard/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "diffguard [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Diffguard reviews version-control diffs for security vulnerabilities.",
		Long: `Diffguard is an automated code-review pipeline: it scans the diff between two
refs for security vulnerabilities and produces a single, deduplicated,
evidence-backed assessment with a merge recommendation, for CI pipelines and
local developer tooling.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is diffguard.yml)")
	rootCmd.AddCommand(review.ReviewCmd)
	rootCmd.AddCommand(gate.GateCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and maps the result to a process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var rec *sharederrors.RecommendationError
		if errors.As(err, &rec) {
			return rec.Code
		}
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "diffguard.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	review.Init(AppConfig)
	gate.Init(AppConfig)
}
