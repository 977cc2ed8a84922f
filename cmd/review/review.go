package review

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diffguard/diffguard/internal/advisor"
	"github.com/diffguard/diffguard/internal/engine"
	"github.com/diffguard/diffguard/internal/gitdiff"
	"github.com/diffguard/diffguard/internal/report"
	"github.com/diffguard/diffguard/internal/scanners"
	"github.com/diffguard/diffguard/pkg/shared/config"
	sharederrors "github.com/diffguard/diffguard/pkg/shared/errors"
	"github.com/diffguard/diffguard/pkg/shared/logger"
)

// RunOptionsReview holds the arguments for the review command.
type RunOptionsReview struct {
	RepoRoot            string
	BaseRef             string
	HeadRef             string
	ConcurrencyCap      int
	DiffChunkBudget     int
	ConfidenceThreshold float64
	MaxIterations       int
	Timeout             time.Duration
	ReportFormat        string
	OutputPath          string
	FailOnFindings      bool
}

var (
	AppConfig          *config.Config
	reviewOptions      RunOptionsReview
	exampleReviewUsage = `  # Review the working branch against main
  diffguard review --repo . --base main --head HEAD

  # Review with a stricter confidence threshold and write JSON for CI
  diffguard review --repo . --base origin/main --head HEAD --confidence-threshold 0.8 --format json --output review.json

  # Review with more scanner parallelism and a SARIF report
  diffguard review --repo /path/to/repo --base v1.2.0 --head v1.3.0 -j 8 --format sarif`
)

// ReviewCmd represents the review command.
var ReviewCmd = &cobra.Command{
	Use:                   "review --base REF --head REF [--repo PATH] [-j CAP] [--format FORMAT] [--output PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleReviewUsage,
	Short:                 "Runs the security review pipeline over the diff between two refs",
	RunE:                  runReviewCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runReviewCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-review")

	if err := validateReviewArgs(&reviewOptions); err != nil {
		log.Error("invalid review arguments", "error", err)
		return err
	}
	applyConfigDefaults(&reviewOptions, AppConfig)

	diff, err := gitdiff.Resolve(reviewOptions.RepoRoot, reviewOptions.BaseRef, reviewOptions.HeadRef, log)
	if err != nil {
		log.Error("failed to resolve diff", "error", err)
		return err
	}

	var adv *advisor.Advisor
	if client := advisor.NewHTTPClient(AppConfig, log); client != nil {
		adv = advisor.New(client, log)
	}

	eng := engine.New(scanners.DefaultRegistry(), adv, log)
	result, err := eng.Run(cmd.Context(), engine.Options{
		RepoRoot:            diff.RepoRoot,
		BaseRef:             diff.BaseRef,
		HeadRef:             diff.HeadRef,
		ChangedFiles:        diff.ChangedFiles,
		DiffText:            diff.UnifiedDiff,
		ConcurrencyCap:      reviewOptions.ConcurrencyCap,
		DiffChunkBudget:     reviewOptions.DiffChunkBudget,
		ConfidenceThreshold: reviewOptions.ConfidenceThreshold,
		MaxIterations:       reviewOptions.MaxIterations,
		ScannerTimeout:      AppConfig.Review.ScannerTimeout,
		RunTimeout:          reviewOptions.Timeout,
	})
	if err != nil {
		log.Error("review run failed", "error", err, "state", result.FinalState)
		return err
	}

	if err := writeAssessment(result, reviewOptions.ReportFormat, reviewOptions.OutputPath); err != nil {
		log.Error("failed to write assessment", "error", err)
		return err
	}

	if reviewOptions.FailOnFindings {
		if code := result.Assessment.ExitCode(); code != 0 {
			return sharederrors.NewRecommendationError(string(result.Assessment.MergeRecommendation), code)
		}
	}

	log.Info("review command completed successfully",
		"recommendation", result.Assessment.MergeRecommendation,
		"findings", len(result.Assessment.Findings))
	return nil
}

func writeAssessment(result *engine.Result, format, outputPath string) error {
	renderer, err := report.New(format)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, ferr := os.Create(outputPath)
		if ferr != nil {
			return fmt.Errorf("failed to create output file %q: %w", outputPath, ferr)
		}
		defer f.Close()
		out = f
	}

	return renderer.Render(out, result.Assessment)
}

func applyConfigDefaults(opts *RunOptionsReview, cfg *config.Config) {
	rev := config.DefaultReviewConfig()
	if cfg != nil {
		rev = cfg.Review
	}
	opts.ConcurrencyCap = config.SetThen(opts.ConcurrencyCap, rev.ConcurrencyCap)
	opts.DiffChunkBudget = config.SetThen(opts.DiffChunkBudget, rev.DiffChunkBudget)
	opts.ConfidenceThreshold = config.SetThen(opts.ConfidenceThreshold, rev.ConfidenceThreshold)
	opts.MaxIterations = config.SetThen(opts.MaxIterations, rev.MaxIterations)
	opts.Timeout = config.SetThen(opts.Timeout, rev.RunTimeout)
}

func init() {
	ReviewCmd.Flags().StringVar(&reviewOptions.RepoRoot, "repo", ".", "path to the repository root")
	ReviewCmd.Flags().StringVar(&reviewOptions.BaseRef, "base", "", "base ref of the diff")
	ReviewCmd.Flags().StringVar(&reviewOptions.HeadRef, "head", "HEAD", "head ref of the diff")
	ReviewCmd.Flags().IntVarP(&reviewOptions.ConcurrencyCap, "concurrency", "j", 0, "maximum concurrent scanner invocations")
	ReviewCmd.Flags().IntVar(&reviewOptions.DiffChunkBudget, "chunk-budget", 0, "diff chunk budget in characters")
	ReviewCmd.Flags().Float64Var(&reviewOptions.ConfidenceThreshold, "confidence-threshold", 0, "minimum confidence for a finding to be reported")
	ReviewCmd.Flags().IntVar(&reviewOptions.MaxIterations, "max-iterations", 0, "iteration cap for the review loop")
	ReviewCmd.Flags().DurationVar(&reviewOptions.Timeout, "timeout", 0, "wall-clock timeout for the run")
	ReviewCmd.Flags().StringVarP(&reviewOptions.ReportFormat, "format", "f", report.FormatText, "report format: json, markdown, sarif, text")
	ReviewCmd.Flags().StringVarP(&reviewOptions.OutputPath, "output", "o", "", "write the report to a file instead of stdout")
	ReviewCmd.Flags().BoolVar(&reviewOptions.FailOnFindings, "fail-on-findings", true, "exit non-zero when the recommendation is not approve")
}
