package stk

import (
	"math"
	"time"
)

// maxWCRTIterations bounds the fixed-point iteration below; a task set
// that hasn't converged or blown its deadline within this many rounds is
// treated as non-schedulable rather than looped on forever.
const maxWCRTIterations = 64

// HRTTaskSpec is the pure-math input to the WCRT/RMUB schedulability
// analysis described in spec.md §4.C: a priority-ordered task set (index 0
// is highest priority — ascending periodicity for RM, ascending deadline
// for DM), each with a worst-case execution time and a deadline. This is
// independent of a live Kernel so it can be used at design time, before
// any task is admitted.
type HRTTaskSpec struct {
	Name          string
	ExecutionTime time.Duration // C_i
	Period        time.Duration // T_i; bounds this task's interference on lower-priority tasks
	Deadline      time.Duration // deadline; defaults to Period if zero
}

// TaskSchedulability is one task's row of a SchedulabilityReport.
type TaskSchedulability struct {
	Spec                  HRTTaskSpec
	WCRT                  time.Duration
	Schedulable           bool
	CPULoadPercent        float64
	CumulativeLoadPercent float64
}

// SchedulabilityReport is the result of AnalyzeWCRT over a task set.
type SchedulabilityReport struct {
	Tasks               []TaskSchedulability
	Schedulable         bool
	TotalCPULoadPercent float64
}

// AnalyzeWCRT computes the worst-case response time of every task in tasks
// (ordered highest priority first) using the standard iterative formula
// from spec.md §4.C:
//
//	W_i^(0)   = C_i
//	W_i^(k+1) = C_i + Σ_{j<i} ⌈W_i^(k) / T_j⌉ · C_j
//
// iterated until it converges or exceeds the task's deadline. A task set
// is schedulable iff every task's WCRT is within its deadline.
func AnalyzeWCRT(tasks []HRTTaskSpec) SchedulabilityReport {
	results := make([]TaskSchedulability, len(tasks))
	overall := true
	var cumulative float64

	for i, t := range tasks {
		deadline := t.Deadline
		if deadline <= 0 {
			deadline = t.Period
		}

		c := float64(t.ExecutionTime)
		w := c
		for iter := 0; iter < maxWCRTIterations; iter++ {
			var interference float64
			for j := 0; j < i; j++ {
				cj := float64(tasks[j].ExecutionTime)
				tj := float64(tasks[j].Period)
				interference += math.Ceil(w/tj) * cj
			}
			next := c + interference
			if next == w {
				w = next
				break
			}
			w = next
			if w > float64(deadline) {
				break
			}
		}

		schedulable := w <= float64(deadline)
		if !schedulable {
			overall = false
		}

		load := 0.0
		if t.Period > 0 {
			load = float64(t.ExecutionTime) * 100 / float64(t.Period)
		}
		cumulative += load

		results[i] = TaskSchedulability{
			Spec:                  t,
			WCRT:                  time.Duration(w),
			Schedulable:           schedulable,
			CPULoadPercent:        load,
			CumulativeLoadPercent: cumulative,
		}
	}

	return SchedulabilityReport{Tasks: results, Schedulable: overall, TotalCPULoadPercent: cumulative}
}

// RMUtilizationBound returns the Liu & Layland least upper bound on total
// CPU utilization for n rate-monotonic tasks to be guaranteed schedulable:
// n(2^(1/n) - 1), converging to ln(2) ≈ 0.693 as n grows.
func RMUtilizationBound(n int) float64 {
	if n <= 0 {
		return 1
	}
	return float64(n) * (math.Pow(2, 1.0/float64(n)) - 1)
}

// TotalUtilization sums ExecutionTime/Period across tasks, for a quick
// sufficient (not necessary) schedulability check against
// RMUtilizationBound: a set at or under the bound is schedulable under RM,
// while a set above it may or may not be.
func TotalUtilization(tasks []HRTTaskSpec) float64 {
	var total float64
	for _, t := range tasks {
		if t.Period > 0 {
			total += float64(t.ExecutionTime) / float64(t.Period)
		}
	}
	return total
}
