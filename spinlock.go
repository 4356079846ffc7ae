package stk

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// spinLockMaxDepth mirrors mutexMaxDepth: a recursive SpinLock accepts
// one more Lock at depth 0xFFFE and asserts past it, per spec.md §8.
const spinLockMaxDepth = 0xfffe

// defaultSpinCount is used when NewSpinLock is given spinCount <= 0.
const defaultSpinCount = 1000

// SpinLock is a recursive, cooperative-yielding mutual-exclusion
// primitive for critical sections too short to justify a
// scheduler-mediated Mutex, per spec.md §4.F. Its outermost acquire is
// a hardware-atomic CAS loop, identical in ownership discipline to
// Mutex (the same task may Lock it again without blocking), but it
// never parks on a sync wait list: a contended Lock busy-spins up to
// spinCount hardware pauses, then yields the calling task and retries.
// It therefore has no timeout variant and must never be used from an
// ISR-equivalent context (there is no calling task to attribute
// ownership to).
type SpinLock struct {
	k         *Kernel
	spinCount int

	locked atomic.Bool

	mu    sync.Mutex // guards owner/count bookkeeping only
	owner listIndex
	count int
}

// NewSpinLock constructs a SpinLock for tasks admitted on k. spinCount
// is the number of CAS attempts tried before yielding the calling task
// and retrying; spinCount <= 0 uses a default of 1000.
func NewSpinLock(k *Kernel, spinCount int) *SpinLock {
	if spinCount <= 0 {
		spinCount = defaultSpinCount
	}
	return &SpinLock{k: k, spinCount: spinCount, owner: nilIndex}
}

func (s *SpinLock) callerIndex() listIndex {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.callerLocked()
}

// Lock blocks the calling task until it owns the lock. Must be called
// from inside a Task.Entry.
func (s *SpinLock) Lock() {
	idx := s.callerIndex()

	if s.tryRecurse(idx) {
		return
	}

	spins := 0
	for !s.locked.CompareAndSwap(false, true) {
		spins++
		if spins >= s.spinCount {
			s.k.Service().Yield()
			spins = 0
			continue
		}
		runtime.Gosched()
	}

	s.mu.Lock()
	s.owner = idx
	s.count = 1
	s.mu.Unlock()
}

// TryLock acquires the lock only if it is immediately free, or the
// calling task already owns it.
func (s *SpinLock) TryLock() bool {
	idx := s.callerIndex()

	if s.tryRecurse(idx) {
		return true
	}

	if !s.locked.CompareAndSwap(false, true) {
		return false
	}
	s.mu.Lock()
	s.owner = idx
	s.count = 1
	s.mu.Unlock()
	return true
}

// tryRecurse reports whether idx already owns the lock, bumping the
// recursion depth if so.
func (s *SpinLock) tryRecurse(idx listIndex) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != idx {
		return false
	}
	assertInvariant(s.count <= spinLockMaxDepth, "spinlock_recursion_overflow", "SpinLock locked recursively past %#x", spinLockMaxDepth+1)
	s.count++
	return true
}

// Unlock releases one level of recursion. Unlock by a task that
// doesn't own the lock is a fault.
func (s *SpinLock) Unlock() {
	idx := s.callerIndex()

	release := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		assertInvariant(s.owner == idx, "spinlock_unlock_not_owner", "Unlock called by a task that does not hold the SpinLock")
		s.count--
		if s.count > 0 {
			return false
		}
		s.owner = nilIndex
		return true
	}()

	if release {
		s.locked.Store(false)
	}
}
