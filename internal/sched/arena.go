// internal/sched/arena.go

package sched

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// Handle refers to a task owned by an Arena. The zero Handle refers to nothing.
type Handle uint64

// Arena owns every live task. Queues and the CPU slot only hold handles, so
// destroying a task is a single Remove and a stale handle simply misses.
type Arena struct {
	tasks *treemap.Map // Handle -> *Task, ordered by handle (= admission order)
	next  Handle
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{tasks: treemap.NewWith(handleCmp)}
}

// Insert takes ownership of t and returns its handle. Handles are never reused.
func (a *Arena) Insert(t *Task) Handle {
	a.next++
	a.tasks.Put(a.next, t)
	return a.next
}

// Get resolves h, reporting false if the task was destroyed or never existed.
func (a *Arena) Get(h Handle) (*Task, bool) {
	v, ok := a.tasks.Get(h)
	if !ok {
		return nil, false
	}
	return v.(*Task), true
}

// Remove destroys the task behind h and returns it for a last look.
func (a *Arena) Remove(h Handle) (*Task, bool) {
	t, ok := a.Get(h)
	if ok {
		a.tasks.Remove(h)
	}
	return t, ok
}

// Len is the number of live tasks.
func (a *Arena) Len() int { return a.tasks.Size() }

// Each visits live tasks in admission order until fn returns false.
func (a *Arena) Each(fn func(Handle, *Task) bool) {
	it := a.tasks.Iterator()
	for it.Next() {
		if !fn(it.Key().(Handle), it.Value().(*Task)) {
			return
		}
	}
}

// lookup finds the handle of a live task by ID.
func (a *Arena) lookup(id TaskID) (Handle, bool) {
	var found Handle
	a.Each(func(h Handle, t *Task) bool {
		if t.ID == id {
			found = h
			return false
		}
		return true
	})
	return found, found != 0
}

// handleCmp implements the Comparator for the arena's tree map.
func handleCmp(a, b any) int {
	ha, hb := a.(Handle), b.(Handle)
	switch {
	case ha < hb:
		return -1
	case ha > hb:
		return 1
	default:
		return 0
	}
}
