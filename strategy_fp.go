package stk

import "math/bits"

const maxPriority = 32

// FixedPriorityStrategy implements preemptive fixed-priority scheduling
// with up to 32 priority levels (0 lowest, 31 highest) and round-robin
// among tasks that share a priority, as spec.md §4.C describes. A 32-bit
// ready bitmap tracks which priority lists are non-empty so Next can find
// the highest ready priority in O(1) via bits.Len32 - 1 (equivalently,
// 31 minus the count of leading zeros).
type FixedPriorityStrategy struct {
	runnable    [maxPriority]listHead
	sleeping    listHead
	readyBitmap uint32
}

// NewFixedPriorityStrategy constructs an empty FixedPriorityStrategy.
func NewFixedPriorityStrategy() *FixedPriorityStrategy { return &FixedPriorityStrategy{} }

func highestSetBit(bitmap uint32) int {
	if bitmap == 0 {
		return -1
	}
	return bits.Len32(bitmap) - 1
}

func (s *FixedPriorityStrategy) Add(k *Kernel, idx listIndex) {
	p := k.tasks[idx].priority
	linkBack(&s.runnable[p], k.taskNode, idx)
	s.readyBitmap |= 1 << p
}

func (s *FixedPriorityStrategy) Remove(k *Kernel, idx listIndex) {
	if k.tasks[idx].isAsleep() {
		unlink(&s.sleeping, k.taskNode, idx)
		return
	}
	p := k.tasks[idx].priority
	unlink(&s.runnable[p], k.taskNode, idx)
	if s.runnable[p].Empty() {
		s.readyBitmap &^= 1 << p
	}
}

func (s *FixedPriorityStrategy) First(k *Kernel) listIndex {
	if top := highestSetBit(s.readyBitmap); top >= 0 {
		return s.runnable[top].First()
	}
	return s.sleeping.First()
}

func (s *FixedPriorityStrategy) Next(k *Kernel, current listIndex) listIndex {
	top := highestSetBit(s.readyBitmap)
	if top < 0 {
		return nilIndex
	}
	head := &s.runnable[top]
	if current != nilIndex && !k.tasks[current].isAsleep() && int(k.tasks[current].priority) == top {
		return nextOf(k.taskNode, current)
	}
	return head.First()
}

func (s *FixedPriorityStrategy) OnTaskSleep(k *Kernel, idx listIndex) {
	p := k.tasks[idx].priority
	unlink(&s.runnable[p], k.taskNode, idx)
	if s.runnable[p].Empty() {
		s.readyBitmap &^= 1 << p
	}
	linkBack(&s.sleeping, k.taskNode, idx)
}

func (s *FixedPriorityStrategy) OnTaskWake(k *Kernel, idx listIndex) {
	unlink(&s.sleeping, k.taskNode, idx)
	p := k.tasks[idx].priority
	linkBack(&s.runnable[p], k.taskNode, idx)
	s.readyBitmap |= 1 << p
}
