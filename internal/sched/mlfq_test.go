package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMLFQDemotesThroughAllLevels(t *testing.T) {
	h := newHarness(t, 100, zap.NewNop())
	m := NewMLFQ(h.core, nil)
	h.add(1, 4000)

	got := h.drain(m, m.Level(0), m.Level(1), m.Level(2))
	require.Len(t, got, 1)
	assert.Equal(t, uint32(4000), got[0].TimeMS)

	type step struct {
		kind  StatusKind
		now   Millis
		level int
	}
	var trail []step
	for _, ev := range h.eventsOf(1) {
		trail = append(trail, step{ev.Kind, ev.Now, ev.Level})
	}
	assert.Equal(t, []step{
		{StatusDispatch, 0, 0},
		{StatusDemote, 500, 1},
		{StatusDispatch, 500, 1},
		{StatusDemote, 1500, 2},
		{StatusDispatch, 1500, 2},
		{StatusPreempt, 3500, 2}, // full slice on the last level: stays there
		{StatusDispatch, 3500, 2},
		{StatusFinish, 4000, 2},
	}, trail)

	// CPU time per level: 500 on L0, 1000 on L1, the remaining 2500 on L2
	perLevel := make(map[int]Millis)
	var since Millis
	for _, s := range trail {
		switch s.kind {
		case StatusDispatch:
			since = s.now
		default:
			lvl := s.level
			if s.kind == StatusDemote {
				lvl--
			}
			perLevel[lvl] += s.now - since
		}
	}
	assert.Equal(t, map[int]Millis{0: 500, 1: 1000, 2: 2500}, perLevel)
}

func TestMLFQNewArrivalWaitsForSliceThenWins(t *testing.T) {
	h := newHarness(t, 100, zap.NewNop())
	m := NewMLFQ(h.core, nil)
	h.add(1, 2000)

	for h.now <= 500 {
		h.step(m)
	}
	assert.Equal(t, 1, m.RunningLevel())

	h.add(2, 300) // arrives at now=600
	h.step(m)
	assert.Equal(t, 1, m.Level(0).Len(), "arrival routed to the top level")
	assert.True(t, h.rq.Empty())

	got := h.drain(m, m.Level(0), m.Level(1), m.Level(2))

	require.Len(t, got, 2)
	assert.Equal(t, uint32(2), got[0].PID)
	assert.Equal(t, uint32(1800), got[0].TimeMS)
	assert.Equal(t, uint32(1), got[1].PID)
	assert.Equal(t, uint32(2300), got[1].TimeMS)
	assert.Equal(t, []TaskID{1, 1, 2, 1}, h.dispatches())
}

func TestMLFQNeverPromotes(t *testing.T) {
	h := newHarness(t, 100, zap.NewNop())
	m := NewMLFQ(h.core, nil)
	h.add(1, 10000)

	// keep feeding short jobs; task 1 must never climb back up
	for i := 0; h.arena.Len() > 0; i++ {
		require.Less(t, i, 10000)
		if i%4 == 0 && i < 400 {
			h.add(TaskID(100+i), 200)
		}
		h.step(m)
	}

	reachedBottom := false
	for _, ev := range h.eventsOf(1) {
		if ev.Level == m.Levels()-1 {
			reachedBottom = true
		}
		if reachedBottom {
			assert.Equal(t, m.Levels()-1, ev.Level, "task 1 left the last level at %d", ev.Now)
		}
	}
	assert.True(t, reachedBottom)
}

func TestMLFQCustomSlices(t *testing.T) {
	h := newHarness(t, 100, zap.NewNop())
	m := NewMLFQ(h.core, []Millis{200, 400})
	require.Equal(t, 2, m.Levels())
	assert.Equal(t, Millis(400), m.Slice(1))
	h.add(1, 1000)

	h.drain(m, m.Level(0), m.Level(1))

	var demotes, preempts int
	for _, ev := range h.events {
		switch ev.Kind {
		case StatusDemote:
			demotes++
		case StatusPreempt:
			preempts++
		}
	}
	// 200 on L0, then 400 + 400 on L1
	assert.Equal(t, 1, demotes)
	assert.Equal(t, 1, preempts)
}

func TestMLFQEmptyIsNoop(t *testing.T) {
	h := newHarness(t, 100, zap.NewNop())
	m := NewMLFQ(h.core, nil)
	for i := 0; i < 3; i++ {
		assert.Nil(t, h.step(m))
	}
	assert.Empty(t, h.events)
	for i := 0; i < m.Levels(); i++ {
		assert.True(t, m.Level(i).Empty())
	}
}
