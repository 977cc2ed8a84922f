package scanners

import (
	"regexp"

	"github.com/diffguard/diffguard/internal/findings"
)

// NewUnsafeFunctionScanner detects calls to functions that are unsafe by
// contract regardless of their arguments.
func NewUnsafeFunctionScanner() Scanner {
	return &patternScanner{
		name:     "unsafe-function",
		category: findings.CategoryUnsafeFunction,
		filePatterns: []string{
			"*.c", "*.h", "*.cpp", "*.cc", "*.go", "*.py", "*.js", "*.ts",
		},
		patterns: []pattern{
			{
				Name:       "c-gets",
				Expr:       regexp.MustCompile(`\bgets\s*\(`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.9,
			},
			{
				Name:       "c-strcpy",
				Expr:       regexp.MustCompile(`\b(strcpy|strcat|sprintf)\s*\(`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.8,
			},
			{
				Name:       "go-unsafe-pointer",
				Expr:       regexp.MustCompile(`unsafe\.Pointer\(`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.6,
			},
			{
				Name:       "python-pickle-load",
				Expr:       regexp.MustCompile(`pickle\.loads?\s*\(`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.75,
			},
			{
				Name:       "python-yaml-load",
				Expr:       regexp.MustCompile(`yaml\.load\s*\((?:[^)]*)?\)`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.6,
			},
			{
				Name:       "document-write",
				Expr:       regexp.MustCompile(`document\.write\s*\(`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.6,
			},
		},
	}
}
