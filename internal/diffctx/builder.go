// Package diffctx turns a unified diff into ordered, size-bounded chunks with
// stable file and line provenance. Building is a pure function of its inputs:
// identical (diff, budget) pairs always produce byte-identical chunk sequences.
package diffctx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/diffguard/diffguard/internal/findings"
)

// Chunk is a bounded slice of diff content for a single file.
type Chunk struct {
	File      string
	LineStart int
	LineEnd   int
	Text      string
	Truncated bool
}

// Context is the diff-derived state shared by every scanner in a run.
type Context struct {
	ChangedFiles []string
	Chunks       []Chunk

	added    map[string]map[int]string
	fileText map[string]string
}

// Build parses diffText and assembles per-file chunks in alphabetical path
// order, spending at most budget characters of chunk text in total. When a
// file's hunks exceed the remaining budget the chunk is cut at a hunk boundary
// and marked truncated; remaining files still get whatever budget is left.
// Files outside changedFiles are skipped entirely.
func Build(diffText string, changedFiles []string, budget int) (*Context, error) {
	if budget < 1 {
		return nil, fmt.Errorf("chunk budget must be positive, got %d", budget)
	}

	parsed, err := diff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	scope := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		scope[f] = true
	}

	byPath := make(map[string]*diff.FileDiff)
	var paths []string
	for _, fd := range parsed {
		if fd == nil || fd.NewName == "/dev/null" || len(fd.Hunks) == 0 {
			continue
		}
		path := strings.TrimPrefix(fd.NewName, "b/")
		if len(scope) > 0 && !scope[path] {
			continue
		}
		if _, seen := byPath[path]; !seen {
			paths = append(paths, path)
		}
		byPath[path] = fd
	}
	sort.Strings(paths)

	ctx := &Context{
		ChangedFiles: sortedCopy(changedFiles),
		added:        make(map[string]map[int]string),
		fileText:     make(map[string]string),
	}

	remaining := budget
	for _, path := range paths {
		fd := byPath[path]
		ctx.indexFile(path, fd)

		chunk := Chunk{File: path}
		var text strings.Builder
		for _, h := range fd.Hunks {
			if h == nil {
				continue
			}
			body := string(h.Body)
			if text.Len()+len(body) > remaining {
				chunk.Truncated = true
				break
			}
			if chunk.LineStart == 0 {
				chunk.LineStart = int(h.NewStartLine)
			}
			chunk.LineEnd = hunkEndLine(h)
			text.WriteString(body)
		}
		chunk.Text = text.String()
		remaining -= len(chunk.Text)
		ctx.Chunks = append(ctx.Chunks, chunk)
	}

	return ctx, nil
}

// indexFile records the added-line map and full hunk text for evidence checks.
// These indexes are not budget-bound: validation must see the whole diff even
// when the chunk sent to scanners was truncated.
func (c *Context) indexFile(path string, fd *diff.FileDiff) {
	added := make(map[int]string)
	var full strings.Builder

	for _, h := range fd.Hunks {
		if h == nil {
			continue
		}
		full.Write(h.Body)
		lineNo := int(h.NewStartLine)
		if lineNo <= 0 {
			lineNo = 1
		}
		for _, bodyLine := range strings.Split(string(h.Body), "\n") {
			if len(bodyLine) == 0 {
				continue
			}
			switch bodyLine[0] {
			case '+':
				added[lineNo] = bodyLine[1:]
				lineNo++
			case '-':
				// deletion; does not advance the new-file line counter
			default:
				lineNo++
			}
		}
	}

	if len(added) > 0 {
		c.added[path] = added
	}
	c.fileText[path] = full.String()
}

// AddedLines returns the 1-based map of added line numbers to content for path.
func (c *Context) AddedLines(path string) map[int]string {
	return c.added[path]
}

// FileDiffText returns the concatenated hunk bodies for path, empty when the
// file is not part of the diff.
func (c *Context) FileDiffText(path string) string {
	return c.fileText[path]
}

// InScope reports whether path belongs to the changed-file set of the run.
func (c *Context) InScope(path string) bool {
	for _, f := range c.ChangedFiles {
		if f == path {
			return true
		}
	}
	return false
}

// ContainsEvidence reports whether evidence appears in the diff content for
// path, comparing after whitespace normalization so reflowed snippets still match.
func (c *Context) ContainsEvidence(path, evidence string) bool {
	norm := findings.NormalizeEvidence(evidence)
	if norm == "" {
		return false
	}
	return strings.Contains(findings.NormalizeEvidence(c.fileText[path]), norm)
}

func hunkEndLine(h *diff.Hunk) int {
	end := int(h.NewStartLine) + int(h.NewLines) - 1
	if end < int(h.NewStartLine) {
		return int(h.NewStartLine)
	}
	return end
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
