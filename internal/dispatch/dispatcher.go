// Package dispatch fans a fixed scanner registry out over the current diff
// context under a hard concurrency cap, then fans back in and merges results in
// an order independent of completion timing.
package dispatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/internal/diffctx"
	"github.com/diffguard/diffguard/internal/findings"
	"github.com/diffguard/diffguard/internal/scanners"
)

// Failure records an isolated scanner error. It never aborts the iteration.
type Failure struct {
	Scanner string `json:"scanner"`
	Reason  string `json:"reason"`
}

// Failure reason codes.
const (
	ReasonScannerError   = "SCANNER_ERROR"
	ReasonScannerTimeout = "SCANNER_TIMEOUT"
)

// Result is the merged output of one dispatch round.
type Result struct {
	Findings []findings.RawFinding
	Failures []Failure

	// MaxInFlight is the peak number of concurrently executing scanner
	// invocations observed, for instrumentation and tests.
	MaxInFlight int
}

// Dispatcher runs scanners against diff chunks.
type Dispatcher struct {
	registry []scanners.Scanner
	cap      int
	timeout  time.Duration
	logger   hclog.Logger
}

// New builds a dispatcher. cap values below 1 are raised to 1.
func New(registry []scanners.Scanner, concurrencyCap int, timeout time.Duration, logger hclog.Logger) *Dispatcher {
	if concurrencyCap < 1 {
		concurrencyCap = 1
	}
	return &Dispatcher{registry: registry, cap: concurrencyCap, timeout: timeout, logger: logger}
}

// Run executes every scanner in the registry against the chunks relevant to its
// file patterns. At most cap invocations execute at once. A scanner failure or
// timeout is logged and excluded; sibling scanners are unaffected. The merged
// finding list follows scanner-registration order, then (file, line_start), so
// identical inputs always yield the identical sequence.
func (d *Dispatcher) Run(ctx context.Context, dctx *diffctx.Context) Result {
	perScanner := make([][]findings.RawFinding, len(d.registry))
	failures := make([]*Failure, len(d.registry))

	var wg sync.WaitGroup
	sem := make(chan struct{}, d.cap)
	var inFlight, peak int32

	for i, sc := range d.registry {
		targets := d.targetsFor(sc, dctx)
		if len(targets) == 0 {
			continue
		}

		wg.Add(1)
		go func(i int, sc scanners.Scanner, targets []scanners.Target) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cur := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			defer atomic.AddInt32(&inFlight, -1)

			scanCtx := ctx
			var cancel context.CancelFunc
			if d.timeout > 0 {
				scanCtx, cancel = context.WithTimeout(ctx, d.timeout)
				defer cancel()
			}

			found, err := sc.Scan(scanCtx, targets)
			if err != nil {
				reason := ReasonScannerError
				if errors.Is(err, context.DeadlineExceeded) {
					reason = ReasonScannerTimeout
				}
				failures[i] = &Failure{Scanner: sc.Name(), Reason: reason}
				d.logger.Warn("scanner excluded from merge",
					"scanner", sc.Name(), "reason", reason, "error", err)
				return
			}
			perScanner[i] = found
		}(i, sc, targets)
	}

	wg.Wait()

	var res Result
	res.MaxInFlight = int(atomic.LoadInt32(&peak))
	for i := range d.registry {
		if failures[i] != nil {
			res.Failures = append(res.Failures, *failures[i])
			continue
		}
		batch := perScanner[i]
		sort.SliceStable(batch, func(a, b int) bool {
			if batch[a].File != batch[b].File {
				return batch[a].File < batch[b].File
			}
			return batch[a].LineStart < batch[b].LineStart
		})
		res.Findings = append(res.Findings, batch...)
	}
	return res
}

// targetsFor narrows the diff context to the chunks a scanner may see: files
// matching its patterns, added lines clipped to each chunk's line range.
func (d *Dispatcher) targetsFor(sc scanners.Scanner, dctx *diffctx.Context) []scanners.Target {
	var targets []scanners.Target
	for _, chunk := range dctx.Chunks {
		if !scanners.MatchesFile(sc.FilePatterns(), chunk.File) {
			continue
		}
		lines := make(map[int]string)
		for n, content := range dctx.AddedLines(chunk.File) {
			if n >= chunk.LineStart && n <= chunk.LineEnd {
				lines[n] = content
			}
		}
		targets = append(targets, scanners.Target{
			File:      chunk.File,
			Lines:     lines,
			Text:      chunk.Text,
			Truncated: chunk.Truncated,
		})
	}
	return targets
}
