package gate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffguard/diffguard/internal/assess"
	"github.com/diffguard/diffguard/pkg/shared/config"
	sharederrors "github.com/diffguard/diffguard/pkg/shared/errors"
	"github.com/diffguard/diffguard/pkg/shared/logger"
)

// RunOptionsGate holds the arguments for the gate command.
type RunOptionsGate struct {
	InputFile string
}

var (
	AppConfig        *config.Config
	gateOptions      RunOptionsGate
	exampleGateUsage = `  # Gate a CI job on a previously written assessment
  diffguard gate --input-file review.json`
)

// GateCmd reads an assessment JSON and exits with the code its merge
// recommendation maps to: 0 approve, 1 needs_changes, 2 block.
var GateCmd = &cobra.Command{
	Use:                   "gate --input-file/-i PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleGateUsage,
	Short:                 "Maps a stored assessment onto a CI gate exit code",
	RunE:                  runGateCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runGateCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-gate")

	if gateOptions.InputFile == "" {
		return fmt.Errorf("the --input-file flag is required")
	}

	data, err := os.ReadFile(gateOptions.InputFile)
	if err != nil {
		log.Error("failed to read assessment", "path", gateOptions.InputFile, "error", err)
		return err
	}

	var assessment assess.Assessment
	if err := json.Unmarshal(data, &assessment); err != nil {
		log.Error("failed to parse assessment", "path", gateOptions.InputFile, "error", err)
		return fmt.Errorf("failed to parse assessment %q: %w", gateOptions.InputFile, err)
	}

	log.Info("gate decision",
		"recommendation", assessment.MergeRecommendation,
		"overall_severity", assessment.OverallSeverity,
		"findings", len(assessment.Findings))

	if code := assessment.ExitCode(); code != 0 {
		return sharederrors.NewRecommendationError(string(assessment.MergeRecommendation), code)
	}
	return nil
}

func init() {
	GateCmd.Flags().StringVarP(&gateOptions.InputFile, "input-file", "i", "", "path to an assessment JSON produced by 'diffguard review --format json'")
}
