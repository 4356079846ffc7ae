package stk

import "time"

// Event is a binary synchronization flag with two reset disciplines,
// per spec.md §4.F. A manual-reset Event stays signaled across any
// number of Wait calls until an explicit Reset; an auto-reset Event
// is consumed by the first Wait that observes it signaled (whether
// that Wait blocked or found it already set), mirroring Win32's
// ManualResetEvent / AutoResetEvent split.
type Event struct {
	k           *Kernel
	sync        syncObject
	signal      bool
	manualReset bool
}

// NewEvent constructs an Event. manualReset selects whether Set stays
// latched across multiple Wait calls (true) or is consumed by the
// first waiter to observe it (false); signaled is the Event's initial
// state.
func NewEvent(k *Kernel, manualReset, signaled bool) *Event {
	return &Event{k: k, manualReset: manualReset, signal: signaled}
}

// Wait blocks until the event is signaled. On an auto-reset Event, a
// successful Wait (blocked or not) consumes the signal: per spec.md
// §8's invariant, if no concurrent Set intervenes, IsSet is false
// immediately afterward.
func (e *Event) Wait() { e.wait(0) }

// WaitTimeout is Wait bounded by timeout.
func (e *Event) WaitTimeout(timeout time.Duration) error {
	if !e.wait(timeout) {
		return kerr("Event.Wait", ErrTimeout)
	}
	return nil
}

// TryWait is Wait with a zero timeout: it returns immediately, true
// only if the event was already signaled.
func (e *Event) TryWait() bool { return e.wait(-1) }

func (e *Event) wait(timeout time.Duration) bool {
	k := e.k
	k.mu.Lock()
	defer k.mu.Unlock()

	if timeout < 0 { // TryWait: never enters the wait list, callable from an ISR
		ok := e.signal
		if ok && !e.manualReset {
			e.signal = false
		}
		return ok
	}

	idx := k.callerLocked()
	if !e.signal {
		// Only Set and Pulse unlink a waiter from e.sync, and each has
		// already applied the reset discipline for the waiter it woke,
		// so being woken is a successful Wait with nothing left to consume.
		return k.waitOnLocked(&e.sync, idx, timeout)
	}
	if !e.manualReset {
		e.signal = false
	}
	return true
}

// Set raises the event, waking every blocked waiter (manual-reset) or
// exactly one (auto-reset), per spec.md §4.F and §5's ordering
// guarantee. A Set on an already-signaled Event is a no-op: it neither
// re-wakes anyone nor double-posts.
func (e *Event) Set() {
	k := e.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx, ok := k.callerIndexLocked()
	if e.signal {
		return
	}
	e.signal = true
	if e.manualReset {
		k.wakeAllLocked(&e.sync)
	} else if _, woke := k.wakeOneLocked(&e.sync); woke {
		// Hand the signal to exactly the one FIFO waiter just woken and
		// clear it under the same lock, rather than leaving it for that
		// waiter's own Wait call to consume on its way out: no other
		// task can observe the handed-off signal in between.
		e.signal = false
	}
	if ok {
		k.yieldPointLocked(idx)
	} else {
		k.rescheduleLocked()
	}
}

// Reset lowers the event; it does not wake or affect anyone currently
// blocked in Wait (they keep waiting for the next Set).
func (e *Event) Reset() {
	k := e.k
	k.mu.Lock()
	defer k.mu.Unlock()
	e.signal = false
}

// Pulse signals the event, wakes waiters according to the reset mode,
// then force-clears the signal regardless of mode. This mirrors
// Win32's PulseEvent, which spec.md §4.F explicitly documents as
// racy: a task not yet parked in Wait when Pulse runs never observes
// the pulse.
func (e *Event) Pulse() {
	k := e.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx, ok := k.callerIndexLocked()
	e.signal = true
	if e.manualReset {
		k.wakeAllLocked(&e.sync)
	} else {
		k.wakeOneLocked(&e.sync)
	}
	e.signal = false
	if ok {
		k.yieldPointLocked(idx)
	} else {
		k.rescheduleLocked()
	}
}

// IsSet reports whether the event is currently signaled.
func (e *Event) IsSet() bool {
	k := e.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return e.signal
}
