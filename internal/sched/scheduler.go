// internal/sched/scheduler.go

package sched

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"ticksched/internal/msg"
)

// Scheduler owns one CPU slot, the tasks admitted to it and the policy that
// arbitrates between them. Add may be called from any goroutine; every Tick
// runs exactly one policy step under the same lock.
type Scheduler struct {
	// Scheduler-related
	mu         sync.Mutex  // protects the scheduler state
	cfg        Config      // configuration the scheduler was built with
	arena      *Arena      // owner of every live task
	intake     *ReadyQueue // newly admitted tasks; the ready queue itself for rr/sjf
	cpu        CPU         // the single execution slot
	core       *Core       // shared policy plumbing
	policy     Policy      // active policy instance
	dispatcher Dispatcher  // completion notice delivery
	ticks      int64       // number of Tick calls so far
	observers  []func(StatusEvent)

	// logging-related
	log       *zap.Logger
	csvFile   *os.File
	csvWriter *csv.Writer
}

// New creates a new Scheduler instance with the given configuration.
func New(cfg Config, log *zap.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scheduler{
		cfg:    cfg,
		arena:  NewArena(),
		intake: NewReadyQueue(),
		log:    log.With(zap.String("component", "scheduler"), zap.String("policy", cfg.Policy)),
	}

	if cfg.Notify.Mode == NotifyAsync {
		s.dispatcher = NewAsyncDispatcher(cfg.Notify.Buffer, log)
	} else {
		s.dispatcher = SyncDispatcher{}
	}

	s.core = NewCore(s.arena, Millis(cfg.TickMS), s.dispatcher, s.log, s.handleEvent)
	p, err := NewPolicy(cfg, s.core)
	if err != nil {
		s.dispatcher.Close()
		return nil, err
	}
	s.policy = p
	return s, nil
}

// EnableCSVLogging opens the given file path for CSV logging of events.
// Must be called before the first Tick.
func (s *Scheduler) EnableCSVLogging(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv log: %w", err)
	}
	w := csv.NewWriter(f)

	// write header
	if err := w.Write([]string{"tick", "now_ms", "event", "task_id", "level", "elapsed_ms"}); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()

	s.mu.Lock()
	s.csvFile = f
	s.csvWriter = w
	s.mu.Unlock()
	return nil
}

// Subscribe registers fn to receive every status event. Events are delivered
// synchronously from inside Add and Tick, so fn must not call back into s.
func (s *Scheduler) Subscribe(fn func(StatusEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Policy returns the active policy.
func (s *Scheduler) Policy() Policy { return s.policy }

// Config returns the configuration the scheduler was built with.
func (s *Scheduler) Config() Config { return s.cfg }

// Add admits a task and emits a StatusEnqueue event.
func (s *Scheduler) Add(t *Task, now Millis) (Handle, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.arena.lookup(t.ID); dup {
		return 0, fmt.Errorf("%w: task %d", ErrDuplicateTask, t.ID)
	}

	t.ArrivalMS = now
	h := s.arena.Insert(t)
	s.intake.Push(h)
	s.handleEvent(StatusEvent{Now: now, Kind: StatusEnqueue, TaskID: t.ID})
	return h, nil
}

// Tick runs one policy step and returns the completion notice it produced.
func (s *Scheduler) Tick(now Millis) *msg.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticks++
	done := s.policy.Advance(now, s.intake, &s.cpu)
	if !s.cpu.Occupied() {
		s.handleEvent(StatusEvent{Now: now, Kind: StatusIdle})
	}
	return done
}

// Idle reports whether no task is left, either queued or running.
func (s *Scheduler) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.arena.Len() == 0
}

// Snapshot is a point-in-time view of the scheduler.
type Snapshot struct {
	Ticks     int64
	Running   TaskID
	Occupied  bool
	ElapsedMS Millis // of the running task
	Intake    int
	Levels    []int // MLFQ queue lengths, highest priority first
	Live      int
}

// Snapshot captures the current state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Ticks:  s.ticks,
		Intake: s.intake.Len(),
		Live:   s.arena.Len(),
	}
	if h, ok := s.cpu.Current(); ok {
		if t, ok := s.arena.Get(h); ok {
			snap.Running = t.ID
			snap.Occupied = true
			snap.ElapsedMS = t.ElapsedMS
		}
	}
	if m, ok := s.policy.(*MLFQ); ok {
		for i := 0; i < m.Levels(); i++ {
			snap.Levels = append(snap.Levels, m.Level(i).Len())
		}
	}
	return snap
}

// Close flushes the CSV log and waits for pending notices.
func (s *Scheduler) Close() error {
	err := s.dispatcher.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.csvFile != nil {
		s.csvWriter.Flush()
		if werr := s.csvWriter.Error(); werr != nil && err == nil {
			err = werr
		}
		if cerr := s.csvFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.csvFile = nil
		s.csvWriter = nil
	}
	return err
}

// handleEvent is called with s.mu held.
func (s *Scheduler) handleEvent(ev StatusEvent) {
	fields := []zap.Field{
		zap.Int64("tick", s.ticks),
		zap.Uint32("now_ms", uint32(ev.Now)),
		zap.String("event", ev.Kind.String()),
	}
	if ev.Kind != StatusIdle {
		fields = append(fields,
			zap.Uint32("task_id", uint32(ev.TaskID)),
			zap.Int("level", ev.Level),
			zap.Uint32("elapsed_ms", uint32(ev.ElapsedMS)))
	}

	// idle ticks happen a lot; keep them out of the normal log
	if ev.Kind == StatusIdle {
		s.log.Debug("cpu idle", fields...)
	} else {
		s.log.Info("scheduler event", fields...)
	}

	// CSV output
	if s.csvWriter != nil {
		rec := []string{
			strconv.FormatInt(s.ticks, 10),
			strconv.FormatUint(uint64(ev.Now), 10),
			ev.Kind.String(),
			strconv.FormatUint(uint64(ev.TaskID), 10),
			strconv.Itoa(ev.Level),
			strconv.FormatUint(uint64(ev.ElapsedMS), 10),
		}
		if err := s.csvWriter.Write(rec); err != nil {
			s.log.Warn("csv log write failed", zap.Error(err))
		}
		s.csvWriter.Flush()
	}

	for _, fn := range s.observers {
		fn(ev)
	}
}
