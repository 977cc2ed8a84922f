// Package assess reduces the validated, confidence-filtered finding set into
// the final assessment. The Assessment schema is the stable contract every
// renderer consumes.
package assess

import (
	"fmt"
	"strings"

	"github.com/diffguard/diffguard/internal/findings"
)

// MergeRecommendation is the engine's verdict for the change under review.
type MergeRecommendation string

const (
	RecommendBlock        MergeRecommendation = "block"
	RecommendNeedsChanges MergeRecommendation = "needs_changes"
	RecommendApprove      MergeRecommendation = "approve"
)

// Notes carries the always-present audit counters of a run. An advisor
// narrative, when available, is additive and lives in Assessment.Narrative.
type Notes struct {
	Iterations           int     `json:"iterations"`
	TasksCreated         int     `json:"tasks_created"`
	TasksCompleted       int     `json:"tasks_completed"`
	ConfidenceThreshold  float64 `json:"confidence_threshold"`
	FilteredByConfidence int     `json:"filtered_by_confidence"`
	StopReason           string  `json:"stop_reason"`
}

// Assessment is the final, renderer-facing result of a review run.
type Assessment struct {
	RunID               string              `json:"run_id"`
	OverallSeverity     findings.Severity   `json:"overall_severity"`
	MergeRecommendation MergeRecommendation `json:"merge_recommendation"`
	Findings            []findings.Finding  `json:"findings"`
	Summary             string              `json:"summary"`
	Notes               Notes               `json:"notes"`
	Narrative           string              `json:"narrative,omitempty"`
}

// Assemble runs once at the terminal state. included must already be
// confidence-filtered and deterministically ordered.
func Assemble(runID string, included []findings.Finding, notes Notes) Assessment {
	overall := findings.SeverityLow
	counts := map[findings.Severity]int{}
	for _, f := range included {
		counts[f.Severity]++
		if findings.SeverityRank(f.Severity) > findings.SeverityRank(overall) {
			overall = f.Severity
		}
	}

	return Assessment{
		RunID:               runID,
		OverallSeverity:     overall,
		MergeRecommendation: recommend(counts),
		Findings:            included,
		Summary:             summarize(included, counts),
		Notes:               notes,
	}
}

func recommend(counts map[findings.Severity]int) MergeRecommendation {
	switch {
	case counts[findings.SeverityCritical] > 0 || counts[findings.SeverityHigh] > 0:
		return RecommendBlock
	case counts[findings.SeverityMedium] > 0:
		return RecommendNeedsChanges
	default:
		return RecommendApprove
	}
}

func summarize(included []findings.Finding, counts map[findings.Severity]int) string {
	if len(included) == 0 {
		return "No security findings in the reviewed changes."
	}

	var parts []string
	for _, sev := range []findings.Severity{
		findings.SeverityCritical, findings.SeverityHigh,
		findings.SeverityMedium, findings.SeverityLow,
	} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}

	files := map[string]bool{}
	for _, f := range included {
		files[f.File] = true
	}

	return fmt.Sprintf("%d finding(s) across %d file(s): %s.",
		len(included), len(files), strings.Join(parts, ", "))
}

// ExitCode maps the recommendation onto a CI-friendly process exit code.
func (a Assessment) ExitCode() int {
	switch a.MergeRecommendation {
	case RecommendBlock:
		return 2
	case RecommendNeedsChanges:
		return 1
	default:
		return 0
	}
}
