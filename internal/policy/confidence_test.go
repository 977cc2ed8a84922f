package policy

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/internal/findings"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      interface{}
		want     float64
		fallback bool
	}{
		{"float in range", 0.95, 0.95, false},
		{"zero", 0.0, 0, false},
		{"one", 1.0, 1, false},
		{"float32", float32(0.25), 0.25, false},
		{"int zero", 0, 0, false},
		{"int one", 1, 1, false},
		{"json number", json.Number("0.8"), 0.8, false},
		{"numeric string", "0.7", 0.7, false},
		{"non-numeric string", "not-a-number", DefaultConfidence, true},
		{"nil", nil, DefaultConfidence, true},
		{"negative", -0.1, DefaultConfidence, true},
		{"above one", 1.5, DefaultConfidence, true},
		{"nan", math.NaN(), DefaultConfidence, true},
		{"infinity", math.Inf(1), DefaultConfidence, true},
		{"bool", true, DefaultConfidence, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, fellBack := Normalize(tc.raw)
			if fellBack != tc.fallback {
				t.Fatalf("fallback = %v, want %v", fellBack, tc.fallback)
			}
			if math.Abs(got-tc.want) > 1e-6 {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewClampsBadThreshold(t *testing.T) {
	p := New(1.8, hclog.NewNullLogger())
	if p.Threshold != DefaultConfidence {
		t.Fatalf("expected threshold %v, got %v", DefaultConfidence, p.Threshold)
	}
}

func TestIncludesBoundary(t *testing.T) {
	p := New(0.5, hclog.NewNullLogger())

	at := findings.Finding{Confidence: 0.5}
	if !p.Includes(at) {
		t.Fatalf("confidence equal to the threshold must be included")
	}
	below := findings.Finding{Confidence: 0.49}
	if p.Includes(below) {
		t.Fatalf("confidence below the threshold must be excluded")
	}
}

func TestPartitionPreservesOrderAndSeverity(t *testing.T) {
	p := New(0.5, hclog.NewNullLogger())
	all := []findings.Finding{
		{ID: "a", Severity: findings.SeverityCritical, Confidence: 0.9},
		{ID: "b", Severity: findings.SeverityHigh, Confidence: 0.2},
		{ID: "c", Severity: findings.SeverityMedium, Confidence: 0.6},
	}

	included, excluded := p.Partition(all)
	if len(included) != 2 || included[0].ID != "a" || included[1].ID != "c" {
		t.Fatalf("unexpected included set: %+v", included)
	}
	if len(excluded) != 1 || excluded[0].ID != "b" {
		t.Fatalf("unexpected excluded set: %+v", excluded)
	}
	if excluded[0].Severity != findings.SeverityHigh {
		t.Fatalf("exclusion must not rewrite severity")
	}
}
