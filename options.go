package stk

import "time"

// Option configures a Kernel at construction time. Grounded on the
// functional-options pattern the teacher codebase uses for its event
// loop configuration.
type Option func(*Kernel)

// WithLogger overrides the package-global logger for this Kernel only.
func WithLogger(logger Logger) Option {
	return func(k *Kernel) {
		if logger != nil {
			k.logger = logger
		}
	}
}

// WithTickResolution overrides the resolution requested from the
// platform driver. The platform may still clamp it to its own minimum;
// call Kernel.TickResolution after Start to see the effective value.
func WithTickResolution(d time.Duration) Option {
	return func(k *Kernel) {
		if d > 0 {
			k.tickResolution = d
		}
	}
}

// WithFaultHandler overrides the handler invoked on an unrecoverable
// fault (a missed HRT deadline, or an invariant violation). The default
// handler logs and panics with the FaultError; a custom handler that
// returns without panicking resumes the kernel (not recommended outside
// tests).
func WithFaultHandler(h func(*FaultError)) Option {
	return func(k *Kernel) {
		if h != nil {
			k.faultHandler = h
		}
	}
}
