package stk

import "time"

// KernelService is the API a Task.Entry uses to interact with the
// Kernel running it: sleep, yield, and per-task local storage. Sync
// primitives (Mutex, Semaphore, ...) are used directly rather than
// through this type; they reach into the Kernel themselves since they
// are part of the same package.
type KernelService struct {
	k *Kernel
}

func newKernelService(k *Kernel) *KernelService { return &KernelService{k: k} }

// Ticks returns the number of platform ticks observed since Start.
func (s *KernelService) Ticks() int64 { return s.k.Ticks() }

// TickResolution returns the platform's programmed tick period.
func (s *KernelService) TickResolution() time.Duration { return s.k.TickResolution() }

func (s *KernelService) callerLocked() listIndex { return s.k.callerLocked() }

// TaskID returns the kernel-assigned id of the calling task.
func (s *KernelService) TaskID() uint64 {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tasks[s.callerLocked()].id
}

// TLS returns the calling task's local storage slot, nil until SetTLS is
// first called.
func (s *KernelService) TLS() any {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tasks[s.callerLocked()].tls
}

// SetTLS stores v in the calling task's local storage slot.
func (s *KernelService) SetTLS(v any) {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	k.tasks[s.callerLocked()].tls = v
}

// Yield gives up the remainder of the current tick. Equivalent to
// Sleep for exactly one tick, it guarantees at least one other runnable
// task (if any) gets a turn before this one runs again.
func (s *KernelService) Yield() {
	s.sleepTicks(1)
}

// Sleep blocks the calling task for d, rounded down to a whole number of
// platform ticks (minimum one tick).
func (s *KernelService) Sleep(d time.Duration) {
	ticks := int64(d / s.k.TickResolution())
	if ticks < 1 {
		ticks = 1
	}
	s.sleepTicks(ticks)
}

func (s *KernelService) sleepTicks(ticks int64) {
	k := s.k
	k.mu.Lock()
	defer k.mu.Unlock()
	idx := s.callerLocked()
	kt := &k.tasks[idx]

	wasAsleep := kt.isAsleep()
	if kt.hrt != nil {
		k.hrtOnWorkCompletedLocked(idx)
	}
	kt.timeSleep -= ticks
	if !wasAsleep && kt.timeSleep < 0 {
		k.strategy.OnTaskSleep(k, idx)
	}

	k.blockSelfLocked(idx)
}
