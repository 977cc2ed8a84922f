package report

import (
	"fmt"
	"io"

	"github.com/diffguard/diffguard/internal/assess"
)

// TextRenderer emits a terminal-oriented plain text report.
type TextRenderer struct{}

func (r *TextRenderer) Render(w io.Writer, a assess.Assessment) error {
	fmt.Fprintf(w, "diffguard review %s\n", a.RunID)
	fmt.Fprintf(w, "recommendation: %s (overall severity: %s)\n\n",
		a.MergeRecommendation, a.OverallSeverity)
	fmt.Fprintf(w, "%s\n", a.Summary)

	for _, f := range a.Findings {
		fmt.Fprintf(w, "\n[%s] %s %s:%d-%d (confidence %.2f, scanner %s)\n",
			f.Severity, f.Category, f.File, f.LineStart, f.LineEnd, f.Confidence, f.Scanner)
		fmt.Fprintf(w, "    %s\n", f.Evidence)
	}

	if a.Narrative != "" {
		fmt.Fprintf(w, "\n%s\n", a.Narrative)
	}

	n := a.Notes
	fmt.Fprintf(w, "\niterations=%d tasks=%d/%d threshold=%.2f filtered=%d stop=%s\n",
		n.Iterations, n.TasksCompleted, n.TasksCreated,
		n.ConfidenceThreshold, n.FilteredByConfidence, n.StopReason)
	return nil
}
