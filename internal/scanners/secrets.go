package scanners

import (
	"regexp"

	"github.com/diffguard/diffguard/internal/findings"
)

// NewSecretsScanner detects hard-coded credentials in any changed file.
func NewSecretsScanner() Scanner {
	return &patternScanner{
		name:     "secrets",
		category: findings.CategorySecret,
		patterns: []pattern{
			{
				Name:       "private-key-block",
				Expr:       regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.95,
			},
			{
				Name:       "aws-access-key-id",
				Expr:       regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.95,
			},
			{
				Name:       "github-token",
				Expr:       regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.95,
			},
			{
				Name:       "slack-token",
				Expr:       regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.9,
			},
			{
				Name:       "api-key-assignment",
				Expr:       regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?[A-Za-z0-9/+=_-]{16,}["']?`),
				Severity:   findings.SeverityCritical,
				Confidence: 0.85,
			},
			{
				Name:       "bearer-token",
				Expr:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
			{
				Name:       "generic-credential-assignment",
				Expr:       regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["'][^"']{8,}["']`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
			{
				Name:       "jwt-literal",
				Expr:       regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.8,
			},
		},
	}
}
