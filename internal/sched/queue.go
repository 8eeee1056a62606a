// internal/sched/queue.go

package sched

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
)

// ReadyQueue is a FIFO of task handles waiting for the CPU. Besides push at
// the tail and pop at the head it supports removing an interior element while
// keeping the others in order.
type ReadyQueue struct {
	list *doublylinkedlist.List
}

// NewReadyQueue creates an empty queue.
func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{list: doublylinkedlist.New()}
}

// Push appends h at the tail.
func (q *ReadyQueue) Push(h Handle) {
	q.list.Add(h)
}

// Pop removes and returns the head.
func (q *ReadyQueue) Pop() (Handle, bool) {
	return q.RemoveAt(0)
}

// Peek returns the head without removing it.
func (q *ReadyQueue) Peek() (Handle, bool) {
	v, ok := q.list.Get(0)
	if !ok {
		return 0, false
	}
	return v.(Handle), true
}

// RemoveAt removes the element at position i (0 is the head).
func (q *ReadyQueue) RemoveAt(i int) (Handle, bool) {
	v, ok := q.list.Get(i)
	if !ok {
		return 0, false
	}
	q.list.Remove(i)
	return v.(Handle), true
}

// Each walks the queue head to tail until fn returns false.
func (q *ReadyQueue) Each(fn func(i int, h Handle) bool) {
	it := q.list.Iterator()
	for it.Next() {
		if !fn(it.Index(), it.Value().(Handle)) {
			return
		}
	}
}

// Handles returns a copy of the queue contents, head first.
func (q *ReadyQueue) Handles() []Handle {
	out := make([]Handle, 0, q.list.Size())
	q.Each(func(_ int, h Handle) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Contains reports whether h is queued.
func (q *ReadyQueue) Contains(h Handle) bool { return q.list.Contains(h) }

// Len is the number of queued handles.
func (q *ReadyQueue) Len() int { return q.list.Size() }

// Empty reports whether nothing is queued.
func (q *ReadyQueue) Empty() bool { return q.list.Empty() }
