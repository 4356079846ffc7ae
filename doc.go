// Package stk is a deterministic, preemptive real-time scheduling
// kernel, reworked from a small bare-metal C++ RTOS into a goroutine-
// based simulation: one goroutine per admitted task, a channel handoff
// standing in for a hardware context switch, and a Platform driver
// standing in for the timer-tick ISR.
//
// A Kernel admits Task values (AddTask, or AddTaskHRT for tasks with a
// periodicity/deadline budget), schedules them under a pluggable
// SwitchStrategy (RoundRobin, SmoothWeightedRR, FixedPriority,
// RateMonotonic/DeadlineMonotonic, or EDF), and exposes a KernelService
// to running tasks for Sleep/Yield/TLS. Mutex, Semaphore, Event,
// ConditionVariable, RWMutex, SpinLock, and the generic Pipe are the
// blocking primitives tasks use to coordinate with each other.
package stk
