package scanners

import (
	"regexp"

	"github.com/diffguard/diffguard/internal/findings"
)

// NewInjectionScanner detects injection-prone constructs in source files.
func NewInjectionScanner() Scanner {
	return &patternScanner{
		name:     "injection",
		category: findings.CategoryInjection,
		filePatterns: []string{
			"*.go", "*.py", "*.js", "*.ts", "*.java", "*.rb", "*.php", "*.cs",
		},
		patterns: []pattern{
			{
				Name:       "sql-string-concat",
				Expr:       regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|DROP)\s+[^;]*["']\s*\+\s*\w+`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.8,
			},
			{
				Name:       "sql-sprintf",
				Expr:       regexp.MustCompile(`(?i)fmt\.Sprintf\(\s*["'].*(SELECT|INSERT|UPDATE|DELETE)`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.8,
			},
			{
				Name:       "sql-fstring",
				Expr:       regexp.MustCompile(`(?i)execute\s*\(\s*f["'].*(SELECT|INSERT|UPDATE|DELETE)`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.8,
			},
			{
				Name:       "shell-true",
				Expr:       regexp.MustCompile(`subprocess\.\w+\([^)]*shell\s*=\s*True`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.75,
			},
			{
				Name:       "os-system",
				Expr:       regexp.MustCompile(`os\.system\s*\(`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
			{
				Name:       "command-concat",
				Expr:       regexp.MustCompile(`exec\.Command\([^)]*\+\s*\w+`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
			{
				Name:       "eval-call",
				Expr:       regexp.MustCompile(`\beval\s*\(`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.65,
			},
			{
				Name:       "dom-innerhtml",
				Expr:       regexp.MustCompile(`\.innerHTML\s*=\s*[^"']`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
		},
	}
}
