package sched

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ticksched/internal/msg"
)

// harness drives a policy directly, without the Scheduler facade.
type harness struct {
	t      *testing.T
	arena  *Arena
	core   *Core
	rq     *ReadyQueue
	cpu    CPU
	events []StatusEvent
	chans  map[TaskID]*bytes.Buffer
	now    Millis
}

func newHarness(t *testing.T, tick Millis, log *zap.Logger) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		arena: NewArena(),
		rq:    NewReadyQueue(),
		chans: make(map[TaskID]*bytes.Buffer),
	}
	h.core = NewCore(h.arena, tick, nil, log, func(ev StatusEvent) {
		h.events = append(h.events, ev)
	})
	return h
}

// add admits a fresh task into the intake queue.
func (h *harness) add(id TaskID, total Millis) Handle {
	h.t.Helper()
	buf := &bytes.Buffer{}
	h.chans[id] = buf
	task := NewTask(id, total, buf)
	require.NoError(h.t, task.Validate())
	hd := h.arena.Insert(task)
	h.rq.Push(hd)
	return hd
}

// step runs one Advance at the current time and moves the clock one tick.
func (h *harness) step(p Policy) *msg.Message {
	m := p.Advance(h.now, h.rq, &h.cpu)
	h.now += h.core.Tick()
	return m
}

// drain steps until the arena is empty, checking the invariants after every tick.
func (h *harness) drain(p Policy, queues ...*ReadyQueue) []msg.Message {
	h.t.Helper()
	var out []msg.Message
	last := make(map[Handle]Millis)
	for i := 0; h.arena.Len() > 0; i++ {
		require.Less(h.t, i, 100000, "policy never drained the arena")
		if m := h.step(p); m != nil {
			out = append(out, *m)
		}
		h.checkInvariants(last, append([]*ReadyQueue{h.rq}, queues...))
	}
	return out
}

func (h *harness) checkInvariants(last map[Handle]Millis, queues []*ReadyQueue) {
	h.t.Helper()
	h.arena.Each(func(hd Handle, task *Task) bool {
		require.LessOrEqual(h.t, task.ElapsedMS, task.TotalMS, "task %d overran", task.ID)
		require.GreaterOrEqual(h.t, task.ElapsedMS, last[hd], "task %d went backwards", task.ID)
		require.False(h.t, task.Done(), "finished task %d still alive", task.ID)
		last[hd] = task.ElapsedMS

		places := 0
		if cur, ok := h.cpu.Current(); ok && cur == hd {
			places++
		}
		for _, q := range queues {
			if q.Contains(hd) {
				places++
			}
		}
		require.Equal(h.t, 1, places, "task %d must live in exactly one place", task.ID)
		return true
	})
}

// dispatches lists the task IDs granted the CPU, in order.
func (h *harness) dispatches() []TaskID {
	var ids []TaskID
	for _, ev := range h.events {
		if ev.Kind == StatusDispatch {
			ids = append(ids, ev.TaskID)
		}
	}
	return ids
}

func (h *harness) eventsOf(id TaskID) []StatusEvent {
	var out []StatusEvent
	for _, ev := range h.events {
		if ev.TaskID == id {
			out = append(out, ev)
		}
	}
	return out
}

// notices decodes every frame written to the task's channel.
func (h *harness) notices(id TaskID) []msg.Message {
	h.t.Helper()
	buf := bytes.NewBuffer(h.chans[id].Bytes())
	var out []msg.Message
	for buf.Len() > 0 {
		m, err := msg.Read(buf)
		require.NoError(h.t, err)
		out = append(out, m)
	}
	return out
}
