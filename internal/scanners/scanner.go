// Package scanners holds the fixed registry of vulnerability detectors run by
// the dispatcher. Scanners are plain in-process values injected as an ordered
// list; there is no ambient global registry.
package scanners

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/diffguard/diffguard/internal/findings"
)

// Target is the per-file slice of diff content handed to a scanner: the added
// lines keyed by 1-based new-file line number, plus the raw chunk text.
type Target struct {
	File      string
	Lines     map[int]string
	Text      string
	Truncated bool
}

// Scanner detects one category of vulnerability in diff targets. Scan returns
// raw findings whose evidence is drawn verbatim from the targets; it must never
// synthesize snippet text.
type Scanner interface {
	Name() string
	Category() findings.Category
	FilePatterns() []string
	Scan(ctx context.Context, targets []Target) ([]findings.RawFinding, error)
}

// DefaultRegistry returns the built-in scanners in their fixed registration
// order. Merge determinism depends on this order staying stable.
func DefaultRegistry() []Scanner {
	return []Scanner{
		NewSecretsScanner(),
		NewInjectionScanner(),
		NewUnsafeFunctionScanner(),
		NewCryptoScanner(),
		NewDependencyScanner(),
		NewConfigScanner(),
	}
}

// MatchesFile reports whether path matches any of the base-name patterns.
// An empty pattern list matches every file.
func MatchesFile(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
		if strings.HasPrefix(p, "*.") && strings.HasSuffix(base, p[1:]) {
			return true
		}
	}
	return false
}

// sortedLineNumbers returns the added line numbers of t in ascending order so
// pattern application is deterministic.
func sortedLineNumbers(t Target) []int {
	nums := make([]int, 0, len(t.Lines))
	for n := range t.Lines {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
