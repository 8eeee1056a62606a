package sched

import (
	"fmt"
	"io"
)

// TaskID identifies a task towards its owner. It never takes part in
// scheduling decisions.
type TaskID uint32

// Millis is simulated time in milliseconds.
type Millis uint32

// Task is the process control block of one schedulable unit.
type Task struct {
	ID           TaskID
	Channel      io.Writer // where the completion notice goes; write-only
	TotalMS      Millis    // CPU time required, fixed at creation
	ElapsedMS    Millis    // CPU time granted so far
	SliceStartMS Millis    // ElapsedMS when the current slice began
	ArrivalMS    Millis    // admission time, informational only
}

// NewTask creates a task that has not run yet.
// NOTE: SliceStartMS is left at zero. It is set whenever the task is granted the CPU.
func NewTask(id TaskID, totalMS Millis, ch io.Writer) *Task {
	return &Task{
		ID:      id,
		Channel: ch,
		TotalMS: totalMS,
	}
}

// Remaining is the CPU time still owed to the task.
func (t *Task) Remaining() Millis {
	return t.TotalMS - t.ElapsedMS
}

// SliceUsed is the CPU time consumed since the current slice started.
func (t *Task) SliceUsed() Millis {
	return t.ElapsedMS - t.SliceStartMS
}

// Done reports whether the task has received all of its runtime.
func (t *Task) Done() bool {
	return t.ElapsedMS >= t.TotalMS
}

// charge grants one tick of CPU, never beyond TotalMS.
func (t *Task) charge(tick Millis) {
	if tick >= t.Remaining() {
		t.ElapsedMS = t.TotalMS
		return
	}
	t.ElapsedMS += tick
}

// Validate rejects records the core cannot schedule.
func (t *Task) Validate() error {
	if t.TotalMS == 0 {
		return fmt.Errorf("%w: task %d has zero runtime", ErrInvalidTask, t.ID)
	}
	if t.ElapsedMS != 0 {
		return fmt.Errorf("%w: task %d already ran %dms", ErrInvalidTask, t.ID, t.ElapsedMS)
	}
	return nil
}
