package assess

import (
	"strings"
	"testing"

	"github.com/diffguard/diffguard/internal/findings"
)

func mkFinding(file string, sev findings.Severity) findings.Finding {
	return findings.Finding{
		File:     file,
		Category: findings.CategorySecret,
		Severity: sev,
	}
}

func TestAssembleEmpty(t *testing.T) {
	a := Assemble("run-1", nil, Notes{StopReason: "evaluation_passed"})

	if a.OverallSeverity != findings.SeverityLow {
		t.Fatalf("empty set defaults to low, got %s", a.OverallSeverity)
	}
	if a.MergeRecommendation != RecommendApprove {
		t.Fatalf("expected approve, got %s", a.MergeRecommendation)
	}
	if !strings.Contains(a.Summary, "No security findings") {
		t.Fatalf("unexpected summary %q", a.Summary)
	}
	if a.ExitCode() != 0 {
		t.Fatalf("expected exit 0, got %d", a.ExitCode())
	}
}

func TestAssembleRecommendations(t *testing.T) {
	tests := []struct {
		name     string
		included []findings.Finding
		overall  findings.Severity
		want     MergeRecommendation
		exit     int
	}{
		{
			name:     "critical blocks",
			included: []findings.Finding{mkFinding("a.py", findings.SeverityCritical)},
			overall:  findings.SeverityCritical,
			want:     RecommendBlock,
			exit:     2,
		},
		{
			name:     "high blocks",
			included: []findings.Finding{mkFinding("a.py", findings.SeverityHigh)},
			overall:  findings.SeverityHigh,
			want:     RecommendBlock,
			exit:     2,
		},
		{
			name:     "medium needs changes",
			included: []findings.Finding{mkFinding("a.py", findings.SeverityMedium)},
			overall:  findings.SeverityMedium,
			want:     RecommendNeedsChanges,
			exit:     1,
		},
		{
			name:     "low approves",
			included: []findings.Finding{mkFinding("a.py", findings.SeverityLow)},
			overall:  findings.SeverityLow,
			want:     RecommendApprove,
			exit:     0,
		},
		{
			name: "overall takes the maximum",
			included: []findings.Finding{
				mkFinding("a.py", findings.SeverityLow),
				mkFinding("b.py", findings.SeverityHigh),
				mkFinding("c.py", findings.SeverityMedium),
			},
			overall: findings.SeverityHigh,
			want:    RecommendBlock,
			exit:    2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Assemble("run-1", tc.included, Notes{})
			if a.OverallSeverity != tc.overall {
				t.Errorf("overall = %s, want %s", a.OverallSeverity, tc.overall)
			}
			if a.MergeRecommendation != tc.want {
				t.Errorf("recommendation = %s, want %s", a.MergeRecommendation, tc.want)
			}
			if a.ExitCode() != tc.exit {
				t.Errorf("exit = %d, want %d", a.ExitCode(), tc.exit)
			}
		})
	}
}

func TestAssembleSummaryCounts(t *testing.T) {
	included := []findings.Finding{
		mkFinding("a.py", findings.SeverityCritical),
		mkFinding("a.py", findings.SeverityMedium),
		mkFinding("b.py", findings.SeverityMedium),
	}
	a := Assemble("run-1", included, Notes{})

	for _, want := range []string{"3 finding(s)", "2 file(s)", "1 critical", "2 medium"} {
		if !strings.Contains(a.Summary, want) {
			t.Errorf("summary %q missing %q", a.Summary, want)
		}
	}
}

func TestAssembleCarriesNotes(t *testing.T) {
	notes := Notes{
		Iterations:           2,
		TasksCreated:         3,
		TasksCompleted:       3,
		ConfidenceThreshold:  0.5,
		FilteredByConfidence: 1,
		StopReason:           "no_further_findings",
	}
	a := Assemble("run-1", nil, notes)
	if a.Notes != notes {
		t.Fatalf("notes not preserved: %+v", a.Notes)
	}
}
