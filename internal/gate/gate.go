// Package gate filters raw scanner findings before they reach the ledger.
// Every rejection carries the would-be finding id and a machine-readable
// reason code; nothing is dropped silently.
package gate

import (
	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/internal/diffctx"
	"github.com/diffguard/diffguard/internal/findings"
	"github.com/diffguard/diffguard/internal/ledger"
)

// Rejection reason codes.
const (
	ReasonOutOfScope      = "OUT_OF_SCOPE"
	ReasonMissingEvidence = "MISSING_EVIDENCE"
	ReasonInvalidCategory = "INVALID_CATEGORY"
	ReasonDuplicate       = "DUPLICATE"
)

// Rejection records why a raw finding was refused.
type Rejection struct {
	ID     string `json:"id"`
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Gate validates raw findings against the run's diff context and ledger.
type Gate struct {
	dctx   *diffctx.Context
	ledger *ledger.Ledger
	logger hclog.Logger
}

// New builds a gate bound to one run's context and ledger.
func New(dctx *diffctx.Context, led *ledger.Ledger, logger hclog.Logger) *Gate {
	return &Gate{dctx: dctx, ledger: led, logger: logger}
}

// Check applies the validation rules in order: scope, evidence, uniqueness.
// On success it returns the canonical finding ready for the ledger merge and a
// nil rejection. Duplicate ids are reported as rejections here only when the id
// was previously rejected; merge-level dedup is the ledger's job.
func (g *Gate) Check(raw findings.RawFinding) (findings.Finding, *Rejection) {
	id := findings.IDFor(raw)

	reject := func(reason string) (findings.Finding, *Rejection) {
		r := &Rejection{ID: id, File: raw.File, Reason: reason}
		g.ledger.RecordRejection(id, reason)
		g.logger.Warn("finding rejected",
			"finding_id", id, "file", raw.File, "reason", reason, "scanner", raw.Scanner)
		return findings.Finding{}, r
	}

	if raw.File == "" || !g.dctx.InScope(raw.File) {
		return reject(ReasonOutOfScope)
	}
	if !validLocation(raw) {
		return reject(ReasonOutOfScope)
	}
	if !findings.ValidCategory(raw.Category) {
		return reject(ReasonInvalidCategory)
	}
	if raw.Evidence == "" || !g.dctx.ContainsEvidence(raw.File, raw.Evidence) {
		return reject(ReasonMissingEvidence)
	}
	if reason, was := g.ledger.WasRejected(id); was {
		g.logger.Debug("previously rejected finding retried",
			"finding_id", id, "file", raw.File, "first_reason", reason)
		return findings.Finding{}, &Rejection{ID: id, File: raw.File, Reason: reason}
	}

	return findings.Finding{
		ID:        id,
		File:      raw.File,
		LineStart: raw.LineStart,
		LineEnd:   lineEnd(raw),
		Category:  raw.Category,
		Severity:  normalizeSeverity(raw.Severity),
		Evidence:  raw.Evidence,
		Scanner:   raw.Scanner,
	}, nil
}

func validLocation(raw findings.RawFinding) bool {
	return raw.LineStart > 0
}

func lineEnd(raw findings.RawFinding) int {
	if raw.LineEnd < raw.LineStart {
		return raw.LineStart
	}
	return raw.LineEnd
}

// normalizeSeverity maps unknown severities to low rather than failing the
// finding; severity and confidence stay independent axes.
func normalizeSeverity(s findings.Severity) findings.Severity {
	if findings.SeverityRank(s) == 0 {
		return findings.SeverityLow
	}
	return s
}
