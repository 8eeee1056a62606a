// internal/sched/notify.go

package sched

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"ticksched/internal/msg"
)

// Dispatcher delivers completion notices to task owners.
type Dispatcher interface {
	Dispatch(ch io.Writer, m msg.Message) error
	Close() error
}

// SyncDispatcher writes the notice inside the tick. A client that does not
// drain its channel stalls the whole tick.
type SyncDispatcher struct{}

func (SyncDispatcher) Dispatch(ch io.Writer, m msg.Message) error { return msg.Write(ch, m) }

func (SyncDispatcher) Close() error { return nil }

type delivery struct {
	ch io.Writer
	m  msg.Message
}

// AsyncDispatcher hands notices to a single writer goroutine through a
// bounded backlog, so ticks never wait on a client. A notice that does not
// fit in the backlog is dropped with ErrBacklogFull.
type AsyncDispatcher struct {
	mu      sync.RWMutex
	closed  bool
	backlog chan delivery
	done    chan struct{}
	log     *zap.Logger
}

// NewAsyncDispatcher starts the writer goroutine.
func NewAsyncDispatcher(buffer int, log *zap.Logger) *AsyncDispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	d := &AsyncDispatcher{
		backlog: make(chan delivery, buffer),
		done:    make(chan struct{}),
		log:     log.With(zap.String("component", "notify")),
	}
	go d.drain()
	return d
}

func (d *AsyncDispatcher) drain() {
	defer close(d.done)
	for dl := range d.backlog {
		if err := msg.Write(dl.ch, dl.m); err != nil {
			d.log.Warn("completion notice lost", zap.Uint32("pid", dl.m.PID), zap.Error(err))
		}
	}
}

// Dispatch queues m for delivery without blocking.
func (d *AsyncDispatcher) Dispatch(ch io.Writer, m msg.Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.backlog <- delivery{ch: ch, m: m}:
		return nil
	default:
		return ErrBacklogFull
	}
}

// Close stops accepting notices and waits until the backlog is written out.
func (d *AsyncDispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.backlog)
	}
	d.mu.Unlock()
	<-d.done
	return nil
}
