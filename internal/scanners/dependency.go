package scanners

import (
	"regexp"

	"github.com/diffguard/diffguard/internal/findings"
)

// NewDependencyScanner inspects manifest changes for risky dependency pins.
func NewDependencyScanner() Scanner {
	return &patternScanner{
		name:     "dependency",
		category: findings.CategoryDependency,
		filePatterns: []string{
			"go.mod", "go.sum", "package.json", "package-lock.json",
			"requirements.txt", "Gemfile", "Gemfile.lock", "pom.xml", "Cargo.toml",
		},
		patterns: []pattern{
			{
				Name:       "insecure-registry-url",
				Expr:       regexp.MustCompile(`http://[^\s"']+`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.8,
			},
			{
				Name:       "wildcard-version",
				Expr:       regexp.MustCompile(`(?i)("version"\s*:\s*"\*"|:\s*"latest"|==\s*\*|\s+\*\s*$)`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.7,
			},
			{
				Name:       "git-ref-dependency",
				Expr:       regexp.MustCompile(`(?i)(git\+|github\.com/[^\s]+#|branch\s*=\s*["']master["'])`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.6,
			},
			{
				Name:       "local-replace-directive",
				Expr:       regexp.MustCompile(`^replace\s+\S+\s*=>\s*(\.|/)`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.65,
			},
		},
	}
}
