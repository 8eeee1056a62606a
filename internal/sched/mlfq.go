// internal/sched/mlfq.go

package sched

import (
	"ticksched/internal/msg"
)

// DefaultSlicesMS are the MLFQ time slices, highest priority first.
var DefaultSlicesMS = []Millis{500, 1000, 2000}

// MLFQ is a multi-level feedback queue. New tasks enter level 0; a task that
// uses up its slice drops one level, and tasks on the last level cycle there.
// There is no promotion, so a steady stream of new work can starve the last
// level.
type MLFQ struct {
	core    *Core
	slices  []Millis
	levels  []*ReadyQueue
	running int // level of the task currently on the CPU
}

// NewMLFQ creates one queue per slice. An empty slices uses DefaultSlicesMS.
func NewMLFQ(core *Core, slices []Millis) *MLFQ {
	if len(slices) == 0 {
		slices = DefaultSlicesMS
	}
	p := &MLFQ{
		core:   core,
		slices: append([]Millis(nil), slices...),
		levels: make([]*ReadyQueue, len(slices)),
	}
	for i := range p.levels {
		p.levels[i] = NewReadyQueue()
	}
	return p
}

func (p *MLFQ) Name() string { return PolicyMLFQ }

// Levels is the number of priority levels.
func (p *MLFQ) Levels() int { return len(p.levels) }

// Level exposes the ready queue of level i.
func (p *MLFQ) Level(i int) *ReadyQueue { return p.levels[i] }

// Slice is the time slice of level i.
func (p *MLFQ) Slice(i int) Millis { return p.slices[i] }

// RunningLevel is the level of the CPU occupant. Meaningless while the CPU is empty.
func (p *MLFQ) RunningLevel() int { return p.running }

func (p *MLFQ) Advance(now Millis, rq *ReadyQueue, cpu *CPU) *msg.Message {
	var done *msg.Message

	// 1) everything that arrived starts at the top
	for {
		h, ok := rq.Pop()
		if !ok {
			break
		}
		p.levels[0].Push(h)
	}

	// 2) charge the running task
	if h, t, ok := p.core.run(cpu); ok {
		switch {
		case t.Done():
			done = p.core.retire(now, cpu, h, t, p.running)
		case t.SliceUsed() >= p.slices[p.running]:
			kind := StatusPreempt
			if p.running < len(p.levels)-1 {
				p.running++
				kind = StatusDemote
			}
			p.core.requeue(now, cpu, h, t, p.levels[p.running], kind, p.running)
		}
	}

	// 3) free CPU takes the head of the highest non-empty level
	for lvl := 0; lvl < len(p.levels) && !cpu.Occupied(); {
		h, ok := p.levels[lvl].Pop()
		if !ok {
			lvl++
			continue
		}
		if p.core.grant(now, cpu, h, lvl) {
			p.running = lvl
		}
	}
	return done
}
