package stk

// MonotonicStrategy implements the Rate-Monotonic and Deadline-Monotonic
// families from spec.md §4.C: a single list kept sorted ascending by
// periodicity (RM) or deadline (DM) at admission time, so the front of the
// list is always the highest-priority task. Unlike RoundRobin/
// FixedPriority, sleeping tasks stay in the list; Next rescans from the
// front every call and returns the first non-sleeping entry, which is
// exactly "always run the highest-priority task that is currently ready" —
// the defining behavior of a monotonic priority assignment, as opposed to
// a continuation/round-robin policy.
type MonotonicStrategy struct {
	order         listHead
	deadlineBased bool
}

// NewRateMonotonicStrategy orders tasks by ascending periodicity.
func NewRateMonotonicStrategy() *MonotonicStrategy { return &MonotonicStrategy{} }

// NewDeadlineMonotonicStrategy orders tasks by ascending deadline.
func NewDeadlineMonotonicStrategy() *MonotonicStrategy { return &MonotonicStrategy{deadlineBased: true} }

func (s *MonotonicStrategy) keyOf(k *Kernel, idx listIndex) int64 {
	hrt := k.tasks[idx].hrt
	if hrt == nil {
		return int64(^uint64(0) >> 1) // math.MaxInt64, avoids importing math here
	}
	if s.deadlineBased {
		return hrt.deadline
	}
	return hrt.periodicity
}

func (s *MonotonicStrategy) Add(k *Kernel, idx listIndex) {
	key := s.keyOf(k, idx)
	before := nilIndex
	forEach(&s.order, k.taskNode, func(other listIndex) bool {
		if s.keyOf(k, other) > key {
			before = other
			return false
		}
		return true
	})
	linkBefore(&s.order, k.taskNode, idx, before)
}

func (s *MonotonicStrategy) Remove(k *Kernel, idx listIndex) {
	unlink(&s.order, k.taskNode, idx)
}

func (s *MonotonicStrategy) First(k *Kernel) listIndex { return s.order.First() }

func (s *MonotonicStrategy) Next(k *Kernel, current listIndex) listIndex {
	result := nilIndex
	forEach(&s.order, k.taskNode, func(idx listIndex) bool {
		if !k.tasks[idx].isAsleep() {
			result = idx
			return false
		}
		return true
	})
	return result
}

func (s *MonotonicStrategy) OnTaskSleep(k *Kernel, idx listIndex) {}
func (s *MonotonicStrategy) OnTaskWake(k *Kernel, idx listIndex)  {}
