package sched

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyQueueFIFO(t *testing.T) {
	q := NewReadyQueue()
	assert.True(t, q.Empty())
	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, Handle(1), head)

	for _, want := range []Handle{1, 2, 3} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.True(t, q.Empty())
}

func TestReadyQueueRemoveAt(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		want   Handle
		remain []Handle
	}{
		{"head", 0, 10, []Handle{20, 30, 40}},
		{"interior", 2, 30, []Handle{10, 20, 40}},
		{"tail", 3, 40, []Handle{10, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewReadyQueue()
			for _, h := range []Handle{10, 20, 30, 40} {
				q.Push(h)
			}
			got, ok := q.RemoveAt(tt.index)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.remain, q.Handles())

			q.Push(50)
			assert.Equal(t, append(append([]Handle(nil), tt.remain...), 50), q.Handles())
		})
	}
}

func TestReadyQueueRemoveAtOutOfRange(t *testing.T) {
	q := NewReadyQueue()
	q.Push(1)
	_, ok := q.RemoveAt(1)
	assert.False(t, ok)
	_, ok = q.RemoveAt(-1)
	assert.False(t, ok)
	assert.Equal(t, 1, q.Len())
}

func TestReadyQueueEachStopsEarly(t *testing.T) {
	q := NewReadyQueue()
	for h := Handle(1); h <= 5; h++ {
		q.Push(h)
	}
	var seen []int
	q.Each(func(i int, h Handle) bool {
		seen = append(seen, i)
		return h < 3
	})
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.True(t, q.Contains(5))
	assert.False(t, q.Contains(6))
}

func TestArenaLifecycle(t *testing.T) {
	a := NewArena()
	h1 := a.Insert(NewTask(1, 100, &bytes.Buffer{}))
	h2 := a.Insert(NewTask(2, 200, &bytes.Buffer{}))
	assert.NotEqual(t, h1, h2)
	assert.NotZero(t, h1)
	assert.Equal(t, 2, a.Len())

	task, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, TaskID(2), task.ID)

	removed, ok := a.Remove(h1)
	require.True(t, ok)
	assert.Equal(t, TaskID(1), removed.ID)

	// stale handles miss instead of dangling
	_, ok = a.Get(h1)
	assert.False(t, ok)
	_, ok = a.Remove(h1)
	assert.False(t, ok)

	// handles are never reused
	h3 := a.Insert(NewTask(3, 300, &bytes.Buffer{}))
	assert.Greater(t, h3, h2)

	var order []TaskID
	a.Each(func(_ Handle, t *Task) bool {
		order = append(order, t.ID)
		return true
	})
	assert.Equal(t, []TaskID{2, 3}, order)

	h, ok := a.lookup(3)
	require.True(t, ok)
	assert.Equal(t, h3, h)
	_, ok = a.lookup(1)
	assert.False(t, ok)
}

func TestTaskValidate(t *testing.T) {
	assert.ErrorIs(t, NewTask(1, 0, nil).Validate(), ErrInvalidTask)

	ran := NewTask(1, 100, nil)
	ran.ElapsedMS = 10
	assert.ErrorIs(t, ran.Validate(), ErrInvalidTask)

	assert.NoError(t, NewTask(1, 100, nil).Validate())
}

func TestTaskChargeNeverOvershoots(t *testing.T) {
	task := NewTask(1, 250, nil)
	for i := 0; i < 5; i++ {
		task.charge(100)
		assert.LessOrEqual(t, task.ElapsedMS, task.TotalMS)
	}
	assert.True(t, task.Done())
	assert.Equal(t, Millis(0), task.Remaining())
}
