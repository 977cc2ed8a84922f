package engine

// EventType identifies one entry kind in the per-run event log.
type EventType string

const (
	EventTaskCreated        EventType = "task_created"
	EventTaskSkipped        EventType = "task_skipped"
	EventFindingAccepted    EventType = "finding_accepted"
	EventFindingRejected    EventType = "finding_rejected"
	EventFindingDuplicate   EventType = "finding_duplicate"
	EventConfidenceFallback EventType = "confidence_fallback"
	EventScannerFailed      EventType = "scanner_failed"
	EventAdvisorFallback    EventType = "advisor_fallback"
	EventRunStopped         EventType = "run_stopped"
)

// Event is one structured entry of the run's audit trail. Every skip or reject
// carries the task or finding identifier and a machine-readable reason code.
type Event struct {
	Iteration int       `json:"iteration"`
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// eventLog collects events. It is only appended to from the FSM control loop,
// which runs single-threaded after each fan-in barrier, so it needs no lock.
type eventLog struct {
	events []Event
}

func (l *eventLog) add(e Event) {
	l.events = append(l.events, e)
}
