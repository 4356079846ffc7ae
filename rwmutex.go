package stk

import "time"

// RWMutex is a writer-priority reader/writer lock: once a writer is
// waiting, no new reader is admitted until it (and any writer that
// arrived before it) has run, preventing writer starvation under a
// steady stream of readers. Per spec.md §4.F.
type RWMutex struct {
	k *Kernel

	readWait  syncObject
	writeWait syncObject

	activeWriter   bool
	activeReaders  int
	waitingWriters int
}

// NewRWMutex constructs an unlocked RWMutex.
func NewRWMutex(k *Kernel) *RWMutex { return &RWMutex{k: k} }

// RLock blocks until a shared (read) lock is granted.
func (m *RWMutex) RLock() { m.rlock(0) }

// RLockTimeout is RLock bounded by timeout.
func (m *RWMutex) RLockTimeout(timeout time.Duration) error {
	if !m.rlock(timeout) {
		return kerr("RWMutex.RLock", ErrTimeout)
	}
	return nil
}

func (m *RWMutex) rlock(timeout time.Duration) bool {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.callerLocked()
	for m.activeWriter || m.waitingWriters > 0 {
		if !k.waitOnLocked(&m.readWait, idx, timeout) {
			return false
		}
	}
	m.activeReaders++
	return true
}

// RUnlock releases a shared lock held by the calling task.
func (m *RWMutex) RUnlock() {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.callerLocked()
	assertInvariant(m.activeReaders > 0, "rwmutex_runlock_not_held", "RUnlock called with no active reader")
	m.activeReaders--
	if m.activeReaders == 0 {
		k.wakeOneLocked(&m.writeWait)
	}
	k.yieldPointLocked(idx)
}

// Lock blocks until the exclusive (write) lock is granted.
func (m *RWMutex) Lock() { m.lock(0) }

// LockTimeout is Lock bounded by timeout.
func (m *RWMutex) LockTimeout(timeout time.Duration) error {
	if !m.lock(timeout) {
		return kerr("RWMutex.Lock", ErrTimeout)
	}
	return nil
}

func (m *RWMutex) lock(timeout time.Duration) bool {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.callerLocked()
	m.waitingWriters++
	for m.activeWriter || m.activeReaders > 0 {
		if !k.waitOnLocked(&m.writeWait, idx, timeout) {
			m.waitingWriters--
			return false
		}
	}
	m.waitingWriters--
	m.activeWriter = true
	return true
}

// Unlock releases the exclusive lock, preferring to wake a single
// waiting writer over a batch of waiting readers.
func (m *RWMutex) Unlock() {
	k := m.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.callerLocked()
	assertInvariant(m.activeWriter, "rwmutex_unlock_not_held", "Unlock called without holding the write lock")
	m.activeWriter = false
	if _, ok := k.wakeOneLocked(&m.writeWait); !ok {
		k.wakeAllLocked(&m.readWait)
	}
	k.yieldPointLocked(idx)
}
