// internal/sched/rr.go

package sched

import "ticksched/internal/msg"

// DefaultQuantumMS is the Round Robin time slice.
const DefaultQuantumMS = 500

// RoundRobin runs each task for at most one quantum, then sends it to the
// back of the ready queue.
type RoundRobin struct {
	core    *Core
	quantum Millis
}

// NewRoundRobin creates the policy; a zero quantum falls back to DefaultQuantumMS.
func NewRoundRobin(core *Core, quantum Millis) *RoundRobin {
	if quantum == 0 {
		quantum = DefaultQuantumMS
	}
	return &RoundRobin{core: core, quantum: quantum}
}

func (p *RoundRobin) Name() string { return PolicyRR }

// Quantum returns the configured time slice.
func (p *RoundRobin) Quantum() Millis { return p.quantum }

func (p *RoundRobin) Advance(now Millis, rq *ReadyQueue, cpu *CPU) *msg.Message {
	var done *msg.Message

	// 1) charge the running task
	if h, t, ok := p.core.run(cpu); ok {
		switch {
		case t.Done():
			done = p.core.retire(now, cpu, h, t, 0)
		case t.SliceUsed() >= p.quantum:
			// quantum used up but not finished: back of the line
			p.core.requeue(now, cpu, h, t, rq, StatusPreempt, 0)
		}
	}

	// 2) free CPU takes the head of the queue
	for !cpu.Occupied() {
		h, ok := rq.Pop()
		if !ok {
			break
		}
		p.core.grant(now, cpu, h, 0)
	}
	return done
}
