// Package ledger is the single source of truth for findings and tasks during a
// review run. All mutation goes through one mutex so concurrent scanner results
// merge atomically; readers of the final state run after the iteration barrier.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/diffguard/diffguard/internal/findings"
)

// MergeOutcome describes what happened to a finding offered to the ledger.
type MergeOutcome string

const (
	MergeInserted   MergeOutcome = "inserted"
	MergeDuplicate  MergeOutcome = "duplicate"
	MergeSuppressed MergeOutcome = "suppressed"
)

// Ledger owns the canonical finding set and the task set for one run. Each run
// gets its own instance; instances share no state.
type Ledger struct {
	mu sync.Mutex

	byID  map[string]*findings.Finding
	order []string

	rejected map[string]string // finding id -> reason code, remembered across iterations

	tasks       map[string]*Task
	taskOrder   []string
	byTrigger   map[string]string // trigger signature -> task id
	taskCounter int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		byID:      make(map[string]*findings.Finding),
		rejected:  make(map[string]string),
		tasks:     make(map[string]*Task),
		byTrigger: make(map[string]string),
	}
}

// Merge offers a validated finding to the ledger. A finding whose id is already
// present collapses into the existing one (observation counter incremented, no
// duplicate). A finding whose id was previously rejected stays suppressed.
func (l *Ledger) Merge(f findings.Finding) (MergeOutcome, findings.Finding) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, was := l.rejected[f.ID]; was {
		return MergeSuppressed, f
	}

	if existing, ok := l.byID[f.ID]; ok {
		existing.Observations++
		return MergeDuplicate, *existing
	}

	f.Observations = 1
	stored := f
	l.byID[f.ID] = &stored
	l.order = append(l.order, f.ID)
	return MergeInserted, stored
}

// Has reports whether a finding with the given id is already canonical.
func (l *Ledger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.byID[id]
	return ok
}

// RecordRejection remembers a rejected finding id so retried duplicates across
// iterations collapse rather than re-entering validation.
func (l *Ledger) RecordRejection(id, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rejected[id]; !ok {
		l.rejected[id] = reason
	}
}

// WasRejected reports whether the id was rejected in this run, and why.
func (l *Ledger) WasRejected(id string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	reason, ok := l.rejected[id]
	return reason, ok
}

// Findings returns the canonical findings in insertion order.
func (l *Ledger) Findings() []findings.Finding {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]findings.Finding, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.byID[id])
	}
	return out
}

// FindingsSorted returns the canonical findings ordered by severity (most
// severe first), then file, then start line. Used by the assembler.
func (l *Ledger) FindingsSorted() []findings.Finding {
	out := l.Findings()
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := findings.SeverityRank(out[i].Severity), findings.SeverityRank(out[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].LineStart < out[j].LineStart
	})
	return out
}

// CreateTask creates a task keyed by the content signature of its triggering
// findings. Creation is idempotent: a signature that already produced a task
// returns the existing task and created=false, regardless of task status.
func (l *Ledger) CreateTask(kind TaskKind, triggerSignature string, iteration int, deps []string) (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.byTrigger[triggerSignature]; ok {
		return *l.tasks[id], false
	}

	l.taskCounter++
	t := &Task{
		ID:               fmt.Sprintf("task-%04d", l.taskCounter),
		Kind:             kind,
		Status:           TaskPending,
		CreatedIteration: iteration,
		DependencyIDs:    append([]string(nil), deps...),
		TriggerSignature: triggerSignature,
	}
	l.tasks[t.ID] = t
	l.taskOrder = append(l.taskOrder, t.ID)
	l.byTrigger[triggerSignature] = t.ID
	return *t, true
}

// TransitionTask moves a task forward. Disallowed moves leave the task untouched
// and return a typed error; completed and failed tasks never return to pending.
func (l *Ledger) TransitionTask(id string, to TaskStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.tasks[id]
	if !ok {
		return fmt.Errorf("task %q not found", id)
	}
	if !validTaskTransition(t.Status, to) {
		return &InvalidTaskTransitionError{TaskID: id, From: t.Status, To: to}
	}
	t.Status = to
	return nil
}

// Tasks returns all tasks in creation order.
func (l *Ledger) Tasks() []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Task, 0, len(l.taskOrder))
	for _, id := range l.taskOrder {
		out = append(out, *l.tasks[id])
	}
	return out
}

// PendingTasks returns tasks still awaiting work, in creation order.
func (l *Ledger) PendingTasks() []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Task
	for _, id := range l.taskOrder {
		if l.tasks[id].Status == TaskPending {
			out = append(out, *l.tasks[id])
		}
	}
	return out
}

// TaskCounts returns created and completed task totals.
func (l *Ledger) TaskCounts() (created, completed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	created = len(l.taskOrder)
	for _, t := range l.tasks {
		if t.Status == TaskCompleted {
			completed++
		}
	}
	return created, completed
}
