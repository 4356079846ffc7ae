package stk

import "time"

// Semaphore is a counting semaphore with FIFO wakeup order, per spec.md
// §8's semaphore test scenario: Post always wakes the longest-waiting
// Wait call first, never a newer arrival, regardless of how many permits
// accumulate.
type Semaphore struct {
	k     *Kernel
	sync  syncObject
	count int32
	max   int32
}

// NewSemaphore constructs a Semaphore starting with initial permits
// available, never exceeding max (max <= 0 means unbounded).
func NewSemaphore(k *Kernel, initial, max int32) *Semaphore {
	return &Semaphore{k: k, count: initial, max: max}
}

// Wait blocks until a permit is available, then consumes one.
func (s *Semaphore) Wait() { s.wait(0) }

// WaitTimeout is Wait bounded by timeout.
func (s *Semaphore) WaitTimeout(timeout time.Duration) error {
	if !s.wait(timeout) {
		return kerr("Semaphore.Wait", ErrTimeout)
	}
	return nil
}

// TryWait consumes a permit only if one is immediately available.
func (s *Semaphore) TryWait() bool {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	if s.count <= 0 {
		return false
	}
	s.count--
	return true
}

func (s *Semaphore) wait(timeout time.Duration) bool {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := k.callerLocked()
	for s.count <= 0 {
		if !k.waitOnLocked(&s.sync, idx, timeout) {
			return false
		}
	}
	s.count--
	return true
}

// Post adds one permit, waking the longest-waiting blocked task if any.
// A woken task still decrements count itself on its way out of Wait, so
// Post never hands out more permits than it adds even if several tasks
// are waiting.
func (s *Semaphore) Post() { s.post(1) }

// PostN adds n permits at once, waking up to n waiters in FIFO order.
func (s *Semaphore) PostN(n int32) { s.post(n) }

func (s *Semaphore) post(n int32) {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx, ok := k.callerIndexLocked()

	s.count += n
	if s.max > 0 && s.count > s.max {
		s.count = s.max
	}
	for i := int32(0); i < n; i++ {
		if _, woke := k.wakeOneLocked(&s.sync); !woke {
			break
		}
	}
	if ok {
		k.yieldPointLocked(idx)
	} else {
		k.rescheduleLocked()
	}
}
