package stk

import "sync/atomic"

// FsmState is one of the four states the Kernel FSM can occupy.
type FsmState uint32

const (
	StateSwitching FsmState = iota
	StateSleeping
	StateWaking
	StateExiting
)

func (s FsmState) String() string {
	switch s {
	case StateSwitching:
		return "Switching"
	case StateSleeping:
		return "Sleeping"
	case StateWaking:
		return "Waking"
	case StateExiting:
		return "Exiting"
	default:
		return "Unknown"
	}
}

// FsmEvent drives a state transition of the Kernel FSM.
type FsmEvent uint32

const (
	EventSwitch FsmEvent = iota
	EventSleep
	EventWake
	EventExit
)

func (e FsmEvent) String() string {
	switch e {
	case EventSwitch:
		return "Switch"
	case EventSleep:
		return "Sleep"
	case EventWake:
		return "Wake"
	case EventExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// fsmTransitions implements the table from spec.md §4.D. A zero value of
// (valid=false) marks a cell of "—": the event is not defined in that state
// and attempting it is a programming error.
var fsmTransitions = [4][4]struct {
	to    FsmState
	valid bool
}{
	StateSwitching: {
		EventSwitch: {StateSwitching, true},
		EventSleep:  {StateSleeping, true},
		EventWake:   {0, false},
		EventExit:   {StateExiting, true},
	},
	StateSleeping: {
		EventSwitch: {0, false},
		EventSleep:  {0, false},
		EventWake:   {StateWaking, true},
		EventExit:   {0, false},
	},
	StateWaking: {
		EventSwitch: {StateSwitching, true},
		EventSleep:  {StateSleeping, true},
		EventWake:   {0, false},
		EventExit:   {StateExiting, true},
	},
	StateExiting: {
		EventSwitch: {0, false},
		EventSleep:  {0, false},
		EventWake:   {0, false},
		EventExit:   {0, false},
	},
}

// fastState is a cache-line padded atomic holder for an FsmState, modelled
// on the lock-free state machine pattern used throughout the teacher
// codebase (compare-and-swap transitions, no mutex). Padding on both sides
// keeps it from sharing a cache line with neighboring fields when embedded
// in a larger struct under contention from the tick goroutine and task
// goroutines simultaneously.
type fastState struct {
	_ [64]byte
	v atomic.Uint32
	_ [60]byte
}

func newFastState(initial FsmState) *fastState {
	s := &fastState{}
	s.v.Store(uint32(initial))
	return s
}

func (s *fastState) Load() FsmState { return FsmState(s.v.Load()) }

func (s *fastState) Store(state FsmState) { s.v.Store(uint32(state)) }

// TryTransition applies event to the current state using the fixed
// transition table. It returns the new state and true on success; on
// failure (the event is not valid from the current state, or the state
// changed concurrently) it returns the observed state and false.
func (s *fastState) TryTransition(event FsmEvent) (FsmState, bool) {
	for {
		from := s.Load()
		cell := fsmTransitions[from][event]
		if !cell.valid {
			return from, false
		}
		if s.v.CompareAndSwap(uint32(from), uint32(cell.to)) {
			return cell.to, true
		}
	}
}

func (s *fastState) IsExiting() bool { return s.Load() == StateExiting }
