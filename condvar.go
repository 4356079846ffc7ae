package stk

import "time"

// ConditionVariable pairs with a Mutex the way sync.Cond does: Wait
// atomically releases the mutex and blocks, reacquiring it before
// returning. Per spec.md §8's predicate-loop test scenario, a wake is
// never by itself proof the awaited condition holds — callers must
// still re-check their predicate in a loop around Wait.
type ConditionVariable struct {
	k    *Kernel
	sync syncObject
}

// NewConditionVariable constructs a ConditionVariable.
func NewConditionVariable(k *Kernel) *ConditionVariable { return &ConditionVariable{k: k} }

// Wait releases mtx (which the caller must hold), blocks until Notify or
// NotifyAll, then reacquires mtx before returning.
func (c *ConditionVariable) Wait(mtx *Mutex) { c.wait(mtx, 0) }

// WaitTimeout is Wait bounded by timeout. mtx is reacquired either way.
func (c *ConditionVariable) WaitTimeout(mtx *Mutex, timeout time.Duration) error {
	if !c.wait(mtx, timeout) {
		return kerr("ConditionVariable.Wait", ErrTimeout)
	}
	return nil
}

func (c *ConditionVariable) wait(mtx *Mutex, timeout time.Duration) bool {
	k := c.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.callerLocked()
	assertInvariant(mtx.owner == idx, "condvar_wait_without_mutex", "ConditionVariable.Wait called without holding the paired mutex")

	// Release mtx fully (regardless of recursion depth) for the duration
	// of the wait, the way a plain (non-recursive) mutex release would
	// read at the call site; the depth is restored verbatim on reacquire
	// below, so a caller holding it recursively sees no difference.
	savedDepth := mtx.count
	if next, ok := k.wakeOneLocked(&mtx.sync); ok {
		mtx.owner = next
		mtx.count = 1
	} else {
		mtx.owner = nilIndex
		mtx.count = 0
	}

	woken := k.waitOnLocked(&c.sync, idx, timeout)

	for mtx.owner != idx && mtx.owner != nilIndex {
		k.waitOnLocked(&mtx.sync, idx, 0)
	}
	mtx.owner = idx
	mtx.count = savedDepth

	return woken
}

// Notify wakes one task blocked in Wait, if any.
func (c *ConditionVariable) Notify() {
	k := c.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx, ok := k.callerIndexLocked()
	k.wakeOneLocked(&c.sync)
	if ok {
		k.yieldPointLocked(idx)
	} else {
		k.rescheduleLocked()
	}
}

// NotifyAll wakes every task blocked in Wait.
func (c *ConditionVariable) NotifyAll() {
	k := c.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx, ok := k.callerIndexLocked()
	k.wakeAllLocked(&c.sync)
	if ok {
		k.yieldPointLocked(idx)
	} else {
		k.rescheduleLocked()
	}
}
