package scanners

import (
	"regexp"

	"github.com/diffguard/diffguard/internal/findings"
)

// NewConfigScanner inspects configuration and deployment files for insecure
// settings.
func NewConfigScanner() Scanner {
	return &patternScanner{
		name:     "config",
		category: findings.CategoryConfig,
		filePatterns: []string{
			"Dockerfile", "*.yml", "*.yaml", "*.toml", "*.ini", "*.conf",
			"*.env", ".env", "*.properties", "*.json",
		},
		patterns: []pattern{
			{
				Name:       "debug-enabled",
				Expr:       regexp.MustCompile(`(?i)^\s*(debug|DEBUG)\s*[:=]\s*(true|1|on)\b`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.7,
			},
			{
				Name:       "tls-verification-off",
				Expr:       regexp.MustCompile(`(?i)(verify|ssl_verify|tls_verify)\s*[:=]\s*false\b`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.6,
			},
			{
				Name:       "tls-skip-verify-on",
				Expr:       regexp.MustCompile(`(?i)insecure[_-]?skip[_-]?verify\s*[:=]\s*true\b`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.75,
			},
			{
				Name:       "bind-all-interfaces",
				Expr:       regexp.MustCompile(`(?i)(host|bind|listen)\s*[:=]\s*["']?0\.0\.0\.0`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.6,
			},
			{
				Name:       "privileged-container",
				Expr:       regexp.MustCompile(`(?i)privileged\s*:\s*true`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.85,
			},
			{
				Name:       "docker-run-as-root",
				Expr:       regexp.MustCompile(`(?i)^USER\s+root\b`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.7,
			},
			{
				Name:       "anonymous-access",
				Expr:       regexp.MustCompile(`(?i)(allow[_-]?anonymous|anonymous[_-]?access)\s*[:=]\s*(true|yes)\b`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.75,
			},
		},
	}
}
