// Package sim drives a scheduler through a job trace, one tick at a time.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ticksched/internal/job"
	"ticksched/internal/sched"
)

var ErrTickLimit = errors.New("tick limit reached")

// Options tune the outer loop.
type Options struct {
	Realtime bool // pace ticks with a TickClock instead of running flat out
	MaxTicks int  // stop with ErrTickLimit after this many ticks; 0 = unlimited
}

// Simulation admits jobs as they arrive and ticks the scheduler until the
// trace is exhausted and the CPU has nothing left to do.
type Simulation struct {
	s       *sched.Scheduler
	feeder  *job.Feeder
	clients []*job.Client
	opts    Options
	log     *zap.Logger
	ticks   int64
	lastNow sched.Millis
}

// New prepares a simulation of tr on s.
func New(s *sched.Scheduler, tr job.Trace, opts Options, log *zap.Logger) *Simulation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulation{
		s:      s,
		feeder: job.NewFeeder(tr),
		opts:   opts,
		log:    log.With(zap.String("component", "sim")),
	}
}

// Run blocks until the workload completes, ctx is cancelled or the tick
// limit is hit. now for tick k is k*tick_ms, so the cadence is uniform by
// construction even in realtime mode.
func (sim *Simulation) Run(ctx context.Context) error {
	tick := sched.Millis(sim.s.Config().TickMS)

	var clock *sched.TickClock
	if sim.opts.Realtime {
		clock = sched.NewTickClock(1)
		clock.Start(time.Duration(tick) * time.Millisecond)
		defer clock.Stop()
	}

	sim.log.Info("simulation started",
		zap.Int("jobs", sim.feeder.Len()),
		zap.Uint32("tick_ms", uint32(tick)),
		zap.Bool("realtime", sim.opts.Realtime))

	for k := int64(0); ; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sim.opts.MaxTicks > 0 && k >= int64(sim.opts.MaxTicks) {
			return fmt.Errorf("%w: %d ticks", ErrTickLimit, k)
		}
		if clock != nil && k > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-clock.Ch:
				if !ok {
					return errors.New("tick clock stopped")
				}
			}
		}

		now := sched.Millis(k) * tick
		sim.admit(now)
		sim.s.Tick(now)
		sim.ticks = k + 1
		sim.lastNow = now

		if sim.feeder.Drained() && sim.s.Idle() {
			sim.log.Info("simulation finished", zap.Int64("ticks", sim.ticks), zap.Uint32("now_ms", uint32(now)))
			return nil
		}
	}
}

func (sim *Simulation) admit(now sched.Millis) {
	for _, spec := range sim.feeder.Due(uint32(now)) {
		c := job.NewClient(spec)
		t := sched.NewTask(sched.TaskID(spec.ID), sched.Millis(spec.RuntimeMS), c)
		if _, err := sim.s.Add(t, now); err != nil {
			sim.log.Warn("job rejected", zap.Uint32("job_id", spec.ID), zap.Error(err))
			continue
		}
		sim.clients = append(sim.clients, c)
	}
}

// Ticks is the number of ticks executed so far.
func (sim *Simulation) Ticks() int64 { return sim.ticks }

// Report summarises the run. With asynchronous notices, close the scheduler
// first so every notice has been delivered.
func (sim *Simulation) Report() Report {
	r := Report{
		Policy: sim.s.Policy().Name(),
		Ticks:  sim.ticks,
		EndMS:  uint32(sim.lastNow),
	}
	var turnSum, waitSum uint64
	for _, c := range sim.clients {
		res := Result{Spec: c.Spec, Notices: c.Notices()}
		if done, ok := c.Completion(); ok {
			res.Completed = true
			res.CompletionMS = done
			res.TurnaroundMS = done - c.Spec.ArrivalMS
			if res.TurnaroundMS > c.Spec.RuntimeMS {
				res.WaitingMS = res.TurnaroundMS - c.Spec.RuntimeMS
			}
			turnSum += uint64(res.TurnaroundMS)
			waitSum += uint64(res.WaitingMS)
			r.Completed++
			if done > r.MakespanMS {
				r.MakespanMS = done
			}
		}
		r.Jobs = append(r.Jobs, res)
	}
	if r.Completed > 0 {
		r.AvgTurnaroundMS = float64(turnSum) / float64(r.Completed)
		r.AvgWaitingMS = float64(waitSum) / float64(r.Completed)
	}
	return r
}
