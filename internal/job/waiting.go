package job

import "sort"

// Feeder holds jobs that are waiting for their arrival time.
type Feeder struct {
	pending []Spec
	next    int
}

// NewFeeder orders the trace by arrival. Jobs arriving together keep their
// trace order, which becomes their queue order.
func NewFeeder(tr Trace) *Feeder {
	pending := append([]Spec(nil), tr.Jobs...)
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].ArrivalMS < pending[j].ArrivalMS
	})
	return &Feeder{pending: pending}
}

// Due returns the jobs whose arrival time is at or before now and that have
// not been returned yet.
func (f *Feeder) Due(now uint32) []Spec {
	start := f.next
	for f.next < len(f.pending) && f.pending[f.next].ArrivalMS <= now {
		f.next++
	}
	return f.pending[start:f.next]
}

// Drained reports whether every job has been released.
func (f *Feeder) Drained() bool { return f.next >= len(f.pending) }

// Len is the total number of jobs in the trace.
func (f *Feeder) Len() int { return len(f.pending) }
