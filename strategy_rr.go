package stk

// RoundRobinStrategy cycles through runnable tasks in admission order,
// maintaining a separate sleep queue so that Next never has to skip over a
// sleeping candidate itself (the kernel's generic skip loop still runs,
// but is a no-op for this strategy). Grounded on spec.md §4.C's
// description: "Two closed-loop lists: runnable and sleep."
type RoundRobinStrategy struct {
	runnable listHead
	sleeping listHead
}

// NewRoundRobinStrategy constructs an empty RoundRobinStrategy.
func NewRoundRobinStrategy() *RoundRobinStrategy { return &RoundRobinStrategy{} }

func (s *RoundRobinStrategy) Add(k *Kernel, idx listIndex) {
	linkBack(&s.runnable, k.taskNode, idx)
}

func (s *RoundRobinStrategy) Remove(k *Kernel, idx listIndex) {
	if k.tasks[idx].isAsleep() {
		unlink(&s.sleeping, k.taskNode, idx)
	} else {
		unlink(&s.runnable, k.taskNode, idx)
	}
}

func (s *RoundRobinStrategy) First(k *Kernel) listIndex {
	if !s.runnable.Empty() {
		return s.runnable.First()
	}
	return s.sleeping.First()
}

func (s *RoundRobinStrategy) Next(k *Kernel, current listIndex) listIndex {
	if s.runnable.Empty() {
		return nilIndex
	}
	if current == nilIndex || k.tasks[current].isAsleep() {
		return s.runnable.First()
	}
	return nextOf(k.taskNode, current)
}

func (s *RoundRobinStrategy) OnTaskSleep(k *Kernel, idx listIndex) {
	unlink(&s.runnable, k.taskNode, idx)
	linkBack(&s.sleeping, k.taskNode, idx)
}

func (s *RoundRobinStrategy) OnTaskWake(k *Kernel, idx listIndex) {
	unlink(&s.sleeping, k.taskNode, idx)
	linkBack(&s.runnable, k.taskNode, idx)
}
