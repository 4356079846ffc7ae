package stk

// SmoothWeightedRRStrategy implements Nginx-style smooth weighted
// round-robin: every task carries a static weight and a mutable
// current-weight; each selection adds every task's weight to its
// current-weight, picks the highest, then subtracts the sum of all
// weights from the winner. This converges to each task's weight share of
// CPU time without bursting, exactly as spec.md §4.C describes.
//
// There is no separate sleep queue: all admitted tasks stay in one list
// regardless of sleep state, and the Kernel's generic "skip sleeping
// candidates" walk is what keeps a sleeping task from actually being
// selected. Per spec.md, SWRR tasks are expected to be always runnable or
// to cooperate via sleep-managed strategies instead.
type SmoothWeightedRRStrategy struct {
	all           listHead
	currentWeight []int32 // indexed by task idx
}

// NewSmoothWeightedRRStrategy constructs a strategy sized for capacity
// admitted tasks; capacity must match the Kernel's configured capacity.
func NewSmoothWeightedRRStrategy(capacity int) *SmoothWeightedRRStrategy {
	return &SmoothWeightedRRStrategy{currentWeight: make([]int32, capacity)}
}

func (s *SmoothWeightedRRStrategy) Add(k *Kernel, idx listIndex) {
	linkBack(&s.all, k.taskNode, idx)
	s.currentWeight[idx] = 0
}

func (s *SmoothWeightedRRStrategy) Remove(k *Kernel, idx listIndex) {
	unlink(&s.all, k.taskNode, idx)
	s.currentWeight[idx] = 0
}

func (s *SmoothWeightedRRStrategy) First(k *Kernel) listIndex { return s.all.First() }

func (s *SmoothWeightedRRStrategy) Next(k *Kernel, current listIndex) listIndex {
	if s.all.Empty() {
		return nilIndex
	}

	winner := nilIndex
	var totalWeight, bestWeight int32
	bestWeight = -1

	forEach(&s.all, k.taskNode, func(idx listIndex) bool {
		w := k.tasks[idx].weight
		if w <= 0 {
			w = 1
		}
		totalWeight += w
		s.currentWeight[idx] += w
		if s.currentWeight[idx] > bestWeight {
			bestWeight = s.currentWeight[idx]
			winner = idx
		}
		return true
	})

	if winner != nilIndex {
		s.currentWeight[winner] -= totalWeight
	}
	return winner
}

func (s *SmoothWeightedRRStrategy) OnTaskSleep(k *Kernel, idx listIndex) {}
func (s *SmoothWeightedRRStrategy) OnTaskWake(k *Kernel, idx listIndex)  {}
