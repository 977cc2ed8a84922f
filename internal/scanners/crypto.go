package scanners

import (
	"regexp"

	"github.com/diffguard/diffguard/internal/findings"
)

// NewCryptoScanner detects weak or misused cryptography.
func NewCryptoScanner() Scanner {
	return &patternScanner{
		name:     "crypto",
		category: findings.CategoryCrypto,
		filePatterns: []string{
			"*.go", "*.py", "*.js", "*.ts", "*.java", "*.rb", "*.c", "*.cpp",
		},
		patterns: []pattern{
			{
				Name:       "weak-hash-md5",
				Expr:       regexp.MustCompile(`(?i)(crypto/)?md5|hashlib\.md5|MessageDigest\.getInstance\(["']MD5`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.75,
			},
			{
				Name:       "weak-hash-sha1",
				Expr:       regexp.MustCompile(`(?i)(crypto/)?sha1\b|hashlib\.sha1`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.65,
			},
			{
				Name:       "weak-cipher",
				Expr:       regexp.MustCompile(`(?i)\b(DES|RC4|3DES|ECB)\b.*(cipher|encrypt|mode)|crypto/des|crypto/rc4`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
			{
				Name:       "insecure-random-for-secret",
				Expr:       regexp.MustCompile(`(?i)(math/rand|random\.random\(\)|Math\.random\(\)).*(token|secret|key|nonce|password)|(?i)(token|secret|key|nonce|password).*(math/rand|random\.random\(\)|Math\.random\(\))`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.7,
			},
			{
				Name:       "tls-verify-disabled",
				Expr:       regexp.MustCompile(`(?i)InsecureSkipVerify\s*:\s*true|verify\s*=\s*False|rejectUnauthorized\s*:\s*false`),
				Severity:   findings.SeverityHigh,
				Confidence: 0.85,
			},
			{
				Name:       "hardcoded-iv",
				Expr:       regexp.MustCompile(`(?i)\b(iv|nonce)\s*[:=]\s*\[?\]?(byte)?\s*[("'{]`),
				Severity:   findings.SeverityMedium,
				Confidence: 0.55,
			},
		},
	}
}
