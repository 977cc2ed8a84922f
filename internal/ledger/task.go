package ledger

import "fmt"

// TaskKind classifies delegated work created during evaluation.
type TaskKind string

const (
	TaskInvestigation  TaskKind = "investigation"
	TaskFollowUpReview TaskKind = "follow-up-review"
)

// TaskStatus is the lifecycle state of a task. Transitions are forward-only.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskSkipped    TaskStatus = "skipped"
)

// Task is a unit of delegated work, created idempotently from a finding-set
// content signature.
type Task struct {
	ID               string     `json:"id"`
	Kind             TaskKind   `json:"kind"`
	Status           TaskStatus `json:"status"`
	CreatedIteration int        `json:"created_iteration"`
	DependencyIDs    []string   `json:"dependency_ids,omitempty"`
	TriggerSignature string     `json:"trigger_signature"`
}

// taskTransitions enumerates the allowed forward moves. Completed, failed, and
// skipped are terminal; nothing resets a task to pending.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskSkipped},
	TaskInProgress: {TaskCompleted, TaskFailed},
}

func validTaskTransition(from, to TaskStatus) bool {
	for _, allowed := range taskTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidTaskTransitionError reports a rejected task status change.
type InvalidTaskTransitionError struct {
	TaskID string
	From   TaskStatus
	To     TaskStatus
}

func (e *InvalidTaskTransitionError) Error() string {
	return fmt.Sprintf("task %q: invalid status transition %s -> %s", e.TaskID, e.From, e.To)
}
