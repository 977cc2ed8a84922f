package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/diffguard/diffguard/internal/assess"
	"github.com/diffguard/diffguard/internal/findings"
)

// SARIFRenderer emits a SARIF 2.1.0 log with one run and one rule per category.
type SARIFRenderer struct{}

func (r *SARIFRenderer) Render(w io.Writer, a assess.Assessment) error {
	rpt, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("diffguard", "https://github.com/diffguard/diffguard")

	seen := make(map[findings.Category]bool)
	for _, f := range a.Findings {
		if !seen[f.Category] {
			run.AddRule(string(f.Category)).
				WithDescription(fmt.Sprintf("diffguard %s scanner finding", f.Category))
			seen[f.Category] = true
		}

		run.CreateResultForRule(string(f.Category)).
			WithLevel(sarifLevel(f.Severity)).
			WithMessage(sarif.NewTextMessage(f.Evidence)).
			AddLocation(
				sarif.NewLocationWithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewSimpleArtifactLocation(f.File)).
						WithRegion(sarif.NewSimpleRegion(f.LineStart, f.LineEnd)),
				),
			)
	}

	rpt.AddRun(run)
	return rpt.PrettyWrite(w)
}

func sarifLevel(s findings.Severity) string {
	switch s {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
