// Package policy normalizes finding confidence and applies the inclusion
// threshold. Malformed confidence never crashes a run: it maps to a fixed safe
// default and the substitution is logged.
package policy

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/internal/findings"
)

// DefaultConfidence replaces out-of-range or non-numeric confidence values.
const DefaultConfidence = 0.5

// Normalize converts a raw confidence payload into a value in [0,1]. The second
// return reports whether the safe default was substituted.
func Normalize(raw interface{}) (float64, bool) {
	v, ok := asFloat(raw)
	if !ok {
		return DefaultConfidence, true
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return DefaultConfidence, true
	}
	return v, false
}

func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Policy carries the per-run inclusion threshold.
type Policy struct {
	Threshold float64
	logger    hclog.Logger
}

// New builds a policy; thresholds outside [0,1] fall back to the default 0.50.
func New(threshold float64, logger hclog.Logger) *Policy {
	if threshold < 0 || threshold > 1 {
		logger.Warn("confidence threshold out of range, using default",
			"requested", threshold, "default", DefaultConfidence)
		threshold = DefaultConfidence
	}
	return &Policy{Threshold: threshold, logger: logger}
}

// Includes reports whether a finding meets the threshold. Excluded findings
// stay in the ledger for audit; exclusion never demotes severity.
func (p *Policy) Includes(f findings.Finding) bool {
	return f.Confidence >= p.Threshold
}

// Partition splits findings into included and excluded sets, preserving order.
func (p *Policy) Partition(all []findings.Finding) (included, excluded []findings.Finding) {
	for _, f := range all {
		if p.Includes(f) {
			included = append(included, f)
		} else {
			excluded = append(excluded, f)
		}
	}
	return included, excluded
}
