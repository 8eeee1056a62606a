// internal/sched/sjf.go

package sched

import (
	"go.uber.org/zap"

	"ticksched/internal/msg"
)

// SJF is non-preemptive Shortest-Job-First. Once a task gets the CPU it keeps
// it until it finishes.
//
// Tasks are ranked by TotalMS. Because nothing that has run ever goes back to
// the ready queue, TotalMS equals the remaining runtime for every candidate.
// Ties go to the task that was queued first.
type SJF struct {
	core *Core
}

func NewSJF(core *Core) *SJF { return &SJF{core: core} }

func (p *SJF) Name() string { return PolicySJF }

func (p *SJF) Advance(now Millis, rq *ReadyQueue, cpu *CPU) *msg.Message {
	var done *msg.Message

	if h, t, ok := p.core.run(cpu); ok && t.Done() {
		done = p.core.retire(now, cpu, h, t, 0)
	}

	for !cpu.Occupied() {
		i, ok := p.shortest(rq)
		if !ok {
			break
		}
		h, _ := rq.RemoveAt(i)
		p.core.grant(now, cpu, h, 0)
	}
	return done
}

// shortest returns the queue position of the task with the smallest TotalMS.
// The strict comparison keeps the earliest of equal candidates.
func (p *SJF) shortest(rq *ReadyQueue) (int, bool) {
	best := -1
	var bestTotal Millis
	rq.Each(func(i int, h Handle) bool {
		t, ok := p.core.arena.Get(h)
		if !ok {
			// stale entry: select it so grant drops it
			best = i
			return false
		}
		if t.ElapsedMS != 0 {
			p.core.log.Warn("partially run task in SJF ready queue; ranking by total runtime",
				zap.Uint32("task_id", uint32(t.ID)),
				zap.Uint32("elapsed_ms", uint32(t.ElapsedMS)))
		}
		if best < 0 || t.TotalMS < bestTotal {
			best = i
			bestTotal = t.TotalMS
		}
		return true
	})
	return best, best >= 0
}
