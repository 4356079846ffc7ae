package stk

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFsmTransitionTable(t *testing.T) {
	cases := []struct {
		from  FsmState
		event FsmEvent
		want  FsmState
		ok    bool
	}{
		{StateSwitching, EventSwitch, StateSwitching, true},
		{StateSwitching, EventSleep, StateSleeping, true},
		{StateSwitching, EventWake, 0, false},
		{StateSwitching, EventExit, StateExiting, true},
		{StateSleeping, EventWake, StateWaking, true},
		{StateSleeping, EventSwitch, 0, false},
		{StateSleeping, EventSleep, 0, false},
		{StateSleeping, EventExit, 0, false},
		{StateWaking, EventSwitch, StateSwitching, true},
		{StateWaking, EventSleep, StateSleeping, true},
		{StateWaking, EventExit, StateExiting, true},
		{StateWaking, EventWake, 0, false},
		{StateExiting, EventSwitch, 0, false},
		{StateExiting, EventSleep, 0, false},
		{StateExiting, EventWake, 0, false},
		{StateExiting, EventExit, 0, false},
	}

	for _, c := range cases {
		s := newFastState(c.from)
		got, ok := s.TryTransition(c.event)
		assert.Equalf(t, c.ok, ok, "from=%v event=%v", c.from, c.event)
		if c.ok {
			assert.Equalf(t, c.want, got, "from=%v event=%v", c.from, c.event)
			assert.Equal(t, c.want, s.Load())
		} else {
			assert.Equal(t, c.from, s.Load(), "state must not change on an invalid transition")
		}
	}
}

func TestFastStateIsExiting(t *testing.T) {
	s := newFastState(StateSwitching)
	assert.False(t, s.IsExiting())

	_, ok := s.TryTransition(EventExit)
	assert.True(t, ok)
	assert.True(t, s.IsExiting())
}

func TestFastStateStore(t *testing.T) {
	s := newFastState(StateSwitching)
	s.Store(StateSleeping)
	assert.Equal(t, StateSleeping, s.Load())
}

// TestFastStateConcurrentTransitionsExactlyOneWinner exercises the CAS loop
// under contention: many goroutines race to apply the same Switching ->
// Exiting transition, and it must succeed exactly once.
func TestFastStateConcurrentTransitionsExactlyOneWinner(t *testing.T) {
	s := newFastState(StateSwitching)

	const n = 64
	var wg sync.WaitGroup
	var wins atomic.Int32
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, ok := s.TryTransition(EventExit); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, s.IsExiting())
}
