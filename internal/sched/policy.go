// internal/sched/policy.go

package sched

import (
	"fmt"
	"strings"

	"ticksched/internal/msg"
)

// Policy decides, once per tick, who holds the CPU.
//
// Advance charges one tick to the occupant, retires or preempts it as the
// policy dictates, and fills an empty slot from the ready queue(s). It
// returns the completion notice emitted during this tick, if any. now only
// stamps notices; elapsed time comes from the fixed tick, so callers must
// invoke Advance at a uniform cadence.
type Policy interface {
	Name() string
	Advance(now Millis, rq *ReadyQueue, cpu *CPU) *msg.Message
}

const (
	PolicyRR   = "rr"
	PolicySJF  = "sjf"
	PolicyMLFQ = "mlfq"
)

// PolicyNames lists the policies NewPolicy understands.
func PolicyNames() []string { return []string{PolicyRR, PolicySJF, PolicyMLFQ} }

// NewPolicy builds the policy named in cfg on top of core.
func NewPolicy(cfg Config, core *Core) (Policy, error) {
	switch strings.ToLower(cfg.Policy) {
	case PolicyRR:
		return NewRoundRobin(core, Millis(cfg.QuantumMS)), nil
	case PolicySJF:
		return NewSJF(core), nil
	case PolicyMLFQ:
		slices := make([]Millis, len(cfg.SlicesMS))
		for i, s := range cfg.SlicesMS {
			slices[i] = Millis(s)
		}
		return NewMLFQ(core, slices), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, cfg.Policy)
	}
}
