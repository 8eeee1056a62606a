// internal/sched/core.go

package sched

import (
	"go.uber.org/zap"

	"ticksched/internal/msg"
)

// Core carries what every policy needs to act on the CPU slot: the arena
// that owns the tasks, the fixed tick size and the notification path.
type Core struct {
	arena      *Arena
	tick       Millis
	dispatcher Dispatcher
	log        *zap.Logger
	emit       func(StatusEvent)
}

// NewCore wires the shared policy state. A nil dispatcher means synchronous
// delivery; a nil emit drops events.
func NewCore(arena *Arena, tick Millis, d Dispatcher, log *zap.Logger, emit func(StatusEvent)) *Core {
	if d == nil {
		d = SyncDispatcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if emit == nil {
		emit = func(StatusEvent) {}
	}
	return &Core{arena: arena, tick: tick, dispatcher: d, log: log, emit: emit}
}

// Tick is the fixed amount of CPU time charged per Advance.
func (c *Core) Tick() Millis { return c.tick }

// run charges one tick to the occupant, if any.
func (c *Core) run(cpu *CPU) (Handle, *Task, bool) {
	h, ok := cpu.Current()
	if !ok {
		return 0, nil, false
	}
	t, ok := c.arena.Get(h)
	if !ok {
		// The slot points at a destroyed task; free it rather than stall.
		c.log.Error("cpu occupant missing from arena", zap.Uint64("handle", uint64(h)))
		cpu.vacate()
		return 0, nil, false
	}
	t.charge(c.tick)
	return h, t, true
}

// retire notifies the owner, destroys the task and frees the CPU. Delivery
// failures are logged and not retried.
func (c *Core) retire(now Millis, cpu *CPU, h Handle, t *Task, level int) *msg.Message {
	m := msg.Done(uint32(t.ID), uint32(now))
	if err := c.dispatcher.Dispatch(t.Channel, m); err != nil {
		c.log.Warn("completion notice lost",
			zap.Uint32("task_id", uint32(t.ID)),
			zap.Uint32("now_ms", uint32(now)),
			zap.Error(err))
	}
	c.arena.Remove(h)
	cpu.vacate()
	c.emit(StatusEvent{Now: now, Kind: StatusFinish, TaskID: t.ID, Level: level, ElapsedMS: t.ElapsedMS})
	return &m
}

// requeue takes the occupant off the CPU, starts a fresh slice baseline and
// appends it to q.
func (c *Core) requeue(now Millis, cpu *CPU, h Handle, t *Task, q *ReadyQueue, kind StatusKind, level int) {
	t.SliceStartMS = t.ElapsedMS
	cpu.vacate()
	q.Push(h)
	c.emit(StatusEvent{Now: now, Kind: kind, TaskID: t.ID, Level: level, ElapsedMS: t.ElapsedMS})
}

// grant puts h on the empty CPU and starts its slice.
func (c *Core) grant(now Millis, cpu *CPU, h Handle, level int) bool {
	t, ok := c.arena.Get(h)
	if !ok {
		c.log.Error("queued handle missing from arena", zap.Uint64("handle", uint64(h)))
		return false
	}
	t.SliceStartMS = t.ElapsedMS
	cpu.assign(h)
	c.emit(StatusEvent{Now: now, Kind: StatusDispatch, TaskID: t.ID, Level: level, ElapsedMS: t.ElapsedMS})
	return true
}
