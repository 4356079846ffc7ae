package stk

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the blocking and non-blocking primitive APIs.
// All of them satisfy errors.Is against themselves; wrapped forms returned
// by the package always unwrap back to one of these.
var (
	// ErrTimeout is returned by a blocking wait that expired before it was
	// woken by a signal or ownership transfer.
	ErrTimeout = errors.New("stk: wait timed out")

	// ErrWouldBlock names the outcome of a non-blocking (NoWait) call that
	// could not complete immediately. No function in this package returns
	// it: the Try* methods report that outcome as a false result.
	ErrWouldBlock = errors.New("stk: operation would block")

	// ErrCapacityExceeded is returned by AddTask when the kernel's task
	// table is already at its configured capacity.
	ErrCapacityExceeded = errors.New("stk: task capacity exceeded")

	// ErrNotRunning names an operation attempted on a kernel that has not
	// been started. No function in this package returns it.
	ErrNotRunning = errors.New("stk: kernel is not running")

	// ErrAlreadyRunning is returned by Start when called more than once.
	ErrAlreadyRunning = errors.New("stk: kernel already running")

	// ErrUnknownTask is returned by RemoveTask for a task the kernel does
	// not recognize.
	ErrUnknownTask = errors.New("stk: task not found")

	// ErrStaticKernel is returned by RemoveTask when the kernel was
	// constructed without ModeDynamic.
	ErrStaticKernel = errors.New("stk: kernel does not allow task removal")
)

// KernelError wraps one of the sentinel errors above with operation context.
// It unwraps to the sentinel so callers can keep using errors.Is.
type KernelError struct {
	Op  string
	Err error
}

func (e *KernelError) Error() string { return fmt.Sprintf("stk: %s: %v", e.Op, e.Err) }
func (e *KernelError) Unwrap() error { return e.Err }

func kerr(op string, sentinel error) error {
	return &KernelError{Op: op, Err: sentinel}
}

// FaultError reports a fatal condition: an invariant violation or, in HRT
// mode, a missed deadline. It is passed to the configured FaultHandler and,
// if no handler recovers from it, the default handler panics with it.
type FaultError struct {
	// Reason is a short machine-readable tag, e.g. "deadline_missed",
	// "stack_sentinel_corrupted", "mutex_unlock_not_owner".
	Reason string
	// Message is a human-readable detail string.
	Message string
	// Task, if non-nil, identifies the task involved in the fault.
	Task Task
}

func (e *FaultError) Error() string {
	if e.Task != nil {
		return fmt.Sprintf("stk: fault(%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("stk: fault(%s): %s", e.Reason, e.Message)
}

func newFault(reason, format string, args ...any) *FaultError {
	return &FaultError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// assertInvariant panics with a FaultError when cond is false. It is used
// throughout the kernel for the programming-error class of the error
// taxonomy: conditions that are always fatal and never recoverable at
// runtime (starting a kernel with no admitted tasks, unlocking a mutex you
// don't own, unlinking an entry that is not linked, and so on).
func assertInvariant(cond bool, reason, format string, args ...any) {
	if !cond {
		panic(newFault(reason, format, args...))
	}
}
