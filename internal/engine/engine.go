// Package engine drives the review orchestration loop: a finite-state machine
// sequencing Intake, Plan, Act, Synthesize, and Evaluate over bounded
// iterations, with a fan-in barrier between scanner work and state changes.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/diffguard/diffguard/internal/advisor"
	"github.com/diffguard/diffguard/internal/assess"
	"github.com/diffguard/diffguard/internal/diffctx"
	"github.com/diffguard/diffguard/internal/dispatch"
	"github.com/diffguard/diffguard/internal/findings"
	"github.com/diffguard/diffguard/internal/gate"
	"github.com/diffguard/diffguard/internal/ledger"
	"github.com/diffguard/diffguard/internal/policy"
	"github.com/diffguard/diffguard/internal/scanners"
	"github.com/diffguard/diffguard/pkg/shared/config"
)

// Stop reasons recorded when the loop terminates.
const (
	StopMaxIterations     = "max_iterations_reached"
	StopNoFurtherFindings = "no_further_findings"
	StopEvaluationPassed  = "evaluation_passed"
	StopWallClockTimeout  = "wall_clock_timeout"
)

// Task-skip reason code.
const reasonTaskAlreadyCreated = "TASK_ALREADY_CREATED"

// Options configures one review run. Zero values fall back to the operational
// defaults from the config package.
type Options struct {
	RepoRoot     string
	BaseRef      string
	HeadRef      string
	ChangedFiles []string
	DiffText     string

	ConcurrencyCap      int
	DiffChunkBudget     int
	ConfidenceThreshold float64
	MaxIterations       int
	ScannerTimeout      time.Duration
	RunTimeout          time.Duration
}

func (o *Options) applyDefaults() {
	if o.ConcurrencyCap < 1 {
		o.ConcurrencyCap = config.DefaultConcurrencyCap
	}
	if o.DiffChunkBudget < 1 {
		o.DiffChunkBudget = config.DefaultDiffChunkBudget
	}
	if o.MaxIterations < 1 {
		o.MaxIterations = config.DefaultMaxIterations
	}
	if o.ConfidenceThreshold == 0 {
		o.ConfidenceThreshold = config.DefaultConfidenceThreshold
	}
}

// Result is the run outcome: the assessment, the structured event log, and the
// terminal FSM state. On failure the last consistent ledger state is still
// reflected in the assessment.
type Result struct {
	Assessment  assess.Assessment
	Events      []Event
	FinalState  State
	FailReason  string
	MaxInFlight int
}

// Engine runs reviews. One Engine may serve many runs; each run owns an
// independent ledger and FSM, so parallel runs never share mutable state.
type Engine struct {
	registry []scanners.Scanner
	adv      *advisor.Advisor
	logger   hclog.Logger
}

// New builds an engine over an explicit, ordered scanner list. adv may be nil;
// the rule-based path is complete without it.
func New(registry []scanners.Scanner, adv *advisor.Advisor, logger hclog.Logger) *Engine {
	return &Engine{registry: registry, adv: adv, logger: logger}
}

// taskTrigger queues idempotent task creation decided in Evaluate for the next
// Plan phase.
type taskTrigger struct {
	kind      ledger.TaskKind
	signature string
	deps      []string
}

// Run executes the full review loop and returns the assembled assessment.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	opts.applyDefaults()
	runID := uuid.NewString()

	if opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.RunTimeout)
		defer cancel()
	}

	fsm := NewFSM()
	events := &eventLog{}
	led := ledger.New()
	pol := policy.New(opts.ConfidenceThreshold, e.logger)

	e.logger.Info("review run started",
		"run_id", runID, "base", opts.BaseRef, "head", opts.HeadRef,
		"changed_files", len(opts.ChangedFiles), "max_iterations", opts.MaxIterations)

	dctx, err := diffctx.Build(opts.DiffText, opts.ChangedFiles, opts.DiffChunkBudget)
	if err != nil {
		fsm.Fail(fmt.Sprintf("diff context build failed: %v", err))
		return e.finish(runID, fsm, events, led, pol, 0, 0, ""), err
	}

	g := gate.New(dctx, led, e.logger)
	disp := dispatch.New(e.registry, opts.ConcurrencyCap, opts.ScannerTimeout, e.logger)

	queued := []taskTrigger{{
		kind:      ledger.TaskInvestigation,
		signature: "scan:" + findings.ContentSignature(dctx.ChangedFiles),
	}}

	var (
		stopReason  string
		fallbacks   int
		maxInFlight int
		iteration   int
		runErr      error
	)

	transition := func(to State) bool {
		if terr := fsm.Transition(to); terr != nil {
			runErr = terr
			return false
		}
		return true
	}

	if transition(StatePlan) {
		for iteration = 1; ; iteration++ {
			// Plan: idempotent task creation from queued triggers.
			var active []ledger.Task
			for _, tr := range queued {
				t, created := led.CreateTask(tr.kind, tr.signature, iteration, tr.deps)
				if !created {
					events.add(Event{Iteration: iteration, Type: EventTaskSkipped,
						ID: t.ID, Reason: reasonTaskAlreadyCreated})
					continue
				}
				events.add(Event{Iteration: iteration, Type: EventTaskCreated,
					ID: t.ID, Detail: string(t.Kind)})
				active = append(active, t)
			}
			queued = nil

			// Act: fan out scanners, fan in before anything else happens.
			if !transition(StateAct) {
				break
			}
			for _, t := range active {
				if terr := led.TransitionTask(t.ID, ledger.TaskInProgress); terr != nil {
					e.logger.Error("task transition rejected", "task_id", t.ID, "error", terr)
				}
			}

			res := disp.Run(ctx, dctx)
			if res.MaxInFlight > maxInFlight {
				maxInFlight = res.MaxInFlight
			}
			for _, f := range res.Failures {
				events.add(Event{Iteration: iteration, Type: EventScannerFailed,
					ID: f.Scanner, Reason: f.Reason})
			}

			newIDs := e.mergeResults(iteration, res.Findings, g, led, pol, events, &fallbacks)

			for _, t := range active {
				if terr := led.TransitionTask(t.ID, ledger.TaskCompleted); terr != nil {
					e.logger.Error("task transition rejected", "task_id", t.ID, "error", terr)
				}
			}

			// Synthesize: optional advisor pass, skipped entirely without one.
			var proposals []advisor.Proposal
			if e.adv != nil && len(newIDs) > 0 && ctx.Err() == nil {
				if !transition(StateSynthesize) {
					break
				}
				props, status := e.adv.ProposeFollowUps(ctx, led.FindingsSorted())
				if status != advisor.StatusOK {
					events.add(Event{Iteration: iteration, Type: EventAdvisorFallback,
						Reason: strings.ToUpper(string(status))})
				}
				proposals = props
			}
			if !transition(StateEvaluate) {
				break
			}

			// Evaluate: stop, or queue follow-up triggers and loop back to Plan.
			queued, stopReason = e.evaluate(ctx, iteration, opts, newIDs, proposals, led)
			if stopReason != "" {
				events.add(Event{Iteration: iteration, Type: EventRunStopped, Reason: stopReason})
				if !transition(StateDone) {
					break
				}
				break
			}
			if !transition(StatePlan) {
				break
			}
		}
	}

	result := e.finish(runID, fsm, events, led, pol, iteration, fallbacks, stopReason)
	result.MaxInFlight = maxInFlight
	if fsm.State() == StateFailed && runErr == nil {
		runErr = fmt.Errorf("review run failed: %s", fsm.FailReason())
	}
	return result, runErr
}

// mergeResults pushes raw scanner output through confidence normalization, the
// validation gate, and the ledger merge, emitting one event per outcome. It
// returns the ids of findings that are new this iteration.
func (e *Engine) mergeResults(iteration int, raws []findings.RawFinding, g *gate.Gate,
	led *ledger.Ledger, pol *policy.Policy, events *eventLog, fallbacks *int) []string {

	var newIDs []string
	for _, raw := range raws {
		conf, fellBack := policy.Normalize(raw.Confidence)
		if fellBack {
			*fallbacks++
			events.add(Event{Iteration: iteration, Type: EventConfidenceFallback,
				ID: findings.IDFor(raw),
				Detail: fmt.Sprintf("substituted %.2f", conf)})
			e.logger.Warn("confidence fallback applied",
				"finding_id", findings.IDFor(raw), "scanner", raw.Scanner, "substituted", conf)
		}

		f, rejection := g.Check(raw)
		if rejection != nil {
			events.add(Event{Iteration: iteration, Type: EventFindingRejected,
				ID: rejection.ID, Reason: rejection.Reason})
			continue
		}
		f.Confidence = conf

		outcome, stored := led.Merge(f)
		switch outcome {
		case ledger.MergeInserted:
			events.add(Event{Iteration: iteration, Type: EventFindingAccepted,
				ID: stored.ID, Detail: fmt.Sprintf("%s %s:%d", stored.Category, stored.File, stored.LineStart)})
			newIDs = append(newIDs, stored.ID)
		case ledger.MergeDuplicate:
			events.add(Event{Iteration: iteration, Type: EventFindingDuplicate,
				ID: stored.ID, Reason: gate.ReasonDuplicate})
		case ledger.MergeSuppressed:
			events.add(Event{Iteration: iteration, Type: EventFindingRejected,
				ID: stored.ID, Reason: gate.ReasonDuplicate})
		}
	}
	return newIDs
}

// evaluate decides whether the loop continues. It returns the triggers for the
// next Plan phase, or a stop reason.
func (e *Engine) evaluate(ctx context.Context, iteration int, opts Options,
	newIDs []string, proposals []advisor.Proposal, led *ledger.Ledger) ([]taskTrigger, string) {

	if ctx.Err() != nil {
		return nil, StopWallClockTimeout
	}
	if len(newIDs) == 0 {
		if len(led.Findings()) == 0 {
			return nil, StopEvaluationPassed
		}
		return nil, StopNoFurtherFindings
	}
	if iteration >= opts.MaxIterations {
		return nil, StopMaxIterations
	}

	queued := []taskTrigger{{
		kind:      ledger.TaskFollowUpReview,
		signature: "followup:" + findings.ContentSignature(newIDs),
		deps:      newIDs,
	}}
	for _, p := range proposals {
		queued = append(queued, taskTrigger{
			kind:      ledger.TaskInvestigation,
			signature: "advisor:" + findings.ContentSignature(append([]string{p.Focus}, p.Files...)),
		})
	}
	return queued, ""
}

// finish assembles the assessment from whatever the ledger holds. Runs that
// failed mid-way still return their last consistent state.
func (e *Engine) finish(runID string, fsm *FSM, events *eventLog, led *ledger.Ledger,
	pol *policy.Policy, iterations, fallbacks int, stopReason string) *Result {

	all := led.FindingsSorted()
	included, excluded := pol.Partition(all)
	created, completed := led.TaskCounts()

	notes := assess.Notes{
		Iterations:           iterations,
		TasksCreated:         created,
		TasksCompleted:       completed,
		ConfidenceThreshold:  pol.Threshold,
		FilteredByConfidence: len(excluded),
		StopReason:           stopReason,
	}

	assessment := assess.Assemble(runID, included, notes)

	if e.adv != nil && fsm.State() == StateDone {
		narrative, status := e.adv.Narrative(context.Background(), included)
		if status == advisor.StatusOK {
			assessment.Narrative = narrative
		} else {
			events.add(Event{Iteration: iterations, Type: EventAdvisorFallback,
				Reason: strings.ToUpper(string(status))})
		}
	}

	e.logger.Info("review run finished",
		"run_id", runID, "state", fsm.State(), "stop_reason", stopReason,
		"findings", len(included), "filtered", len(excluded),
		"recommendation", assessment.MergeRecommendation)

	return &Result{
		Assessment: assessment,
		Events:     events.events,
		FinalState: fsm.State(),
		FailReason: fsm.FailReason(),
	}
}
