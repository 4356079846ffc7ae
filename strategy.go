package stk

// SwitchStrategy selects which admitted task runs next. It is the pure
// selection-policy component of spec.md §4.C: given the kernel's task
// arena and a starting point, it returns the next task to run, or
// nilIndex meaning "no runnable task; enter the sleep state".
//
// Strategies that maintain a separate sleep queue (RoundRobin,
// FixedPriority) implement OnTaskSleep/OnTaskWake to move tasks between
// their runnable and sleep lists; strategies that keep all admitted tasks
// in one ordering (SWRR, the monotonic family, EDF) leave those as no-ops.
// The monotonic family and EDF skip sleeping tasks in their own Next;
// SWRR relies on the Kernel's own "skip sleeping candidates" walk in
// fetchNextEvent.
type SwitchStrategy interface {
	// Add links a freshly admitted task into the strategy's queues.
	Add(k *Kernel, idx listIndex)
	// Remove unlinks a task that is being removed from the kernel.
	Remove(k *Kernel, idx listIndex)
	// First returns some admitted task, used only to seed the very first
	// scheduling decision at Kernel.Start.
	First(k *Kernel) listIndex
	// Next returns the task after current in the strategy's policy order,
	// or nilIndex if the strategy has no runnable task.
	Next(k *Kernel, current listIndex) listIndex
	// OnTaskSleep notifies the strategy that idx transitioned from
	// runnable to asleep/waiting.
	OnTaskSleep(k *Kernel, idx listIndex)
	// OnTaskWake notifies the strategy that idx transitioned from
	// asleep/waiting back to runnable.
	OnTaskWake(k *Kernel, idx listIndex)
}

// Schedulable is the optional interface for a strategy that reports a
// WCRT/RMUB schedulability analysis of its admitted task set. No strategy
// in this package implements it, the monotonic family included; the
// analysis is available through AnalyzeWCRT and RMUtilizationBound in
// hrt.go, which take an explicit []HRTTaskSpec.
type Schedulable interface {
	// Analyze returns the per-task and aggregate schedulability report for
	// the currently admitted task set.
	Analyze() SchedulabilityReport
}
