package stk

import "time"

// Platform is the hardware abstraction described in spec.md §4.B, reduced
// to what a simulated, goroutine-based kernel can meaningfully own: the
// periodic tick source, the (symbolic) context-switch request, the tick
// resolution, and the access-mode toggle. Context save/restore and the
// exit/sleep traps from the original contract have no analogue here — Go
// already owns every goroutine's stack — so they are not part of this
// interface; see DESIGN.md.
type Platform interface {
	// Start programs the tick source at resolution (clamped to the
	// driver's minimum) and begins invoking onTick once per elapsed tick,
	// from a dedicated goroutine, until Stop is called. onTick must
	// return quickly; Kernel's implementation does all its own locking.
	Start(resolution time.Duration, onTick func()) error

	// Stop halts the tick source and waits for the tick goroutine to
	// exit. Safe to call on a Platform that was never started.
	Stop() error

	// SwitchContext is invoked by the Kernel immediately after it has
	// performed the (channel-based) handoff between the outgoing and
	// incoming task. On real hardware this is where PendSV would be
	// pended; here it exists for contract symmetry and as an
	// instrumentation point for a Platform implementation that wants one.
	SwitchContext()

	// TickResolution returns the resolution Start was actually programmed
	// with, after any minimum-resolution clamping.
	TickResolution() time.Duration

	// SetAccessMode records the privilege level of the task about to run.
	// Simulated platforms cannot enforce it; it exists so application code
	// written against real hardware semantics still compiles and runs.
	SetAccessMode(mode AccessMode)
}

// NewDefaultPlatform returns the Platform implementation appropriate for
// GOOS: LinuxPlatform (timerfd-backed) on Linux, PortablePlatform
// (time.Ticker-backed) everywhere else.
func NewDefaultPlatform() Platform { return newDefaultPlatform() }
