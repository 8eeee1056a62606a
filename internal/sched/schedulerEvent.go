// internal/sched/schedulerEvent.go

package sched

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusEnqueue
	StatusDispatch
	StatusPreempt
	StatusDemote
	StatusFinish
)

// StatusEvent is emitted on every scheduling action, and once per tick the CPU stays empty
type StatusEvent struct {
	Now       Millis
	Kind      StatusKind
	TaskID    TaskID
	Level     int // MLFQ level involved; 0 for single-queue policies
	ElapsedMS Millis
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusDispatch:
		return "Dispatch"
	case StatusPreempt:
		return "Preempt"
	case StatusDemote:
		return "Demote"
	case StatusFinish:
		return "Finish"
	default:
		return "Unknown"
	}
}
