package scanners

import (
	"context"
	"regexp"
	"strings"

	"github.com/diffguard/diffguard/internal/findings"
)

// pattern is one detection heuristic: a compiled expression with the severity
// and confidence it reports when an added line matches.
type pattern struct {
	Name       string
	Expr       *regexp.Regexp
	Severity   findings.Severity
	Confidence float64
}

// patternScanner applies a table of patterns to every added line of its
// targets. All built-in scanners are instances of it.
type patternScanner struct {
	name         string
	category     findings.Category
	filePatterns []string
	patterns     []pattern
}

func (s *patternScanner) Name() string                { return s.name }
func (s *patternScanner) Category() findings.Category { return s.category }
func (s *patternScanner) FilePatterns() []string      { return s.filePatterns }

// Scan walks targets in the order given and added lines in ascending line
// order. Evidence is the matched line, whitespace-trimmed, taken straight from
// the diff.
func (s *patternScanner) Scan(ctx context.Context, targets []Target) ([]findings.RawFinding, error) {
	var out []findings.RawFinding
	for _, t := range targets {
		for _, lineNo := range sortedLineNumbers(t) {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			line := t.Lines[lineNo]
			for _, p := range s.patterns {
				if !p.Expr.MatchString(line) {
					continue
				}
				out = append(out, findings.RawFinding{
					File:       t.File,
					LineStart:  lineNo,
					LineEnd:    lineNo,
					Category:   s.category,
					Severity:   p.Severity,
					Evidence:   strings.TrimSpace(line),
					Confidence: p.Confidence,
					Scanner:    s.name,
				})
				break // one finding per line per scanner
			}
		}
	}
	return out, nil
}
