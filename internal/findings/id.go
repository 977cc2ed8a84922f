package findings

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// NormalizeEvidence collapses all whitespace runs to single spaces and trims the
// result, so identity and evidence matching survive reformatting between runs.
func NormalizeEvidence(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ComputeID returns the canonical finding identity: a content hash over file,
// line range, category, and normalized evidence. Stable across re-runs with
// identical input. The producing scanner is deliberately excluded.
func ComputeID(file string, lineStart, lineEnd int, category Category, evidence string) string {
	data := fmt.Sprintf("%s|%d-%d|%s|%s", file, lineStart, lineEnd, category, NormalizeEvidence(evidence))
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum[:8])
}

// IDFor computes the canonical identity of a raw finding.
func IDFor(r RawFinding) string {
	return ComputeID(r.File, r.LineStart, r.LineEnd, r.Category, r.Evidence)
}

// ContentSignature hashes a set of finding ids order-independently. Used to key
// idempotent task creation: the same finding set always yields the same signature.
func ContentSignature(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return fmt.Sprintf("%x", sum[:8])
}
