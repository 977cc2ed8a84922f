package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/diffguard/diffguard/internal/assess"
)

// MarkdownRenderer emits a PR-comment-friendly markdown report.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, a assess.Assessment) error {
	fmt.Fprintf(w, "## Diffguard Security Review\n\n")
	fmt.Fprintf(w, "**Recommendation:** `%s` | **Overall severity:** `%s`\n\n",
		a.MergeRecommendation, a.OverallSeverity)
	fmt.Fprintf(w, "%s\n\n", a.Summary)

	if len(a.Findings) > 0 {
		fmt.Fprintf(w, "| Severity | Category | Location | Confidence | Evidence |\n")
		fmt.Fprintf(w, "|----------|----------|----------|------------|----------|\n")
		for _, f := range a.Findings {
			fmt.Fprintf(w, "| %s | %s | `%s:%d` | %.0f%% | `%s` |\n",
				f.Severity, f.Category, f.File, f.LineStart, f.Confidence*100,
				mdEscape(f.Evidence))
		}
		fmt.Fprintln(w)
	}

	if a.Narrative != "" {
		fmt.Fprintf(w, "%s\n\n", a.Narrative)
	}

	n := a.Notes
	fmt.Fprintf(w, "<sub>run %s | %d iteration(s) | %d/%d task(s) completed | "+
		"threshold %.2f | %d filtered by confidence | stop: %s</sub>\n",
		a.RunID, n.Iterations, n.TasksCompleted, n.TasksCreated,
		n.ConfidenceThreshold, n.FilteredByConfidence, n.StopReason)
	return nil
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "'")
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}
