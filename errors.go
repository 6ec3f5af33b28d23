package uthread

import (
	"errors"
)

// Standard errors. All are reported without mutating runtime state: a failed
// operation is a no-op.
var (
	// ErrCapacityExhausted is returned by Create when every thread slot is in
	// use. A slot is in use until its thread has been reaped via Wait.
	ErrCapacityExhausted = errors.New("uthread: no free thread slot")

	// ErrOutOfMemory is returned by Create when a thread slot is available
	// but the stack pool is exhausted. The slot is left free.
	ErrOutOfMemory = errors.New("uthread: stack allocation failed")

	// ErrInvalidThread is returned for thread identifiers that do not name a
	// valid target: out of range, a free slot, the caller itself (Kill, Wait),
	// an already-dead thread (Kill), an already-reaped thread (Wait), or a
	// thread not present in the ready queue (explicit Yield).
	ErrInvalidThread = errors.New("uthread: invalid target thread")

	// ErrNoRunnableThread is returned when an operation needs to transfer
	// control but the ready queue is empty. The caller remains running.
	ErrNoRunnableThread = errors.New("uthread: no runnable thread")

	// ErrInvalidQueue is returned by Sleep for a nil wait queue, a destroyed
	// wait queue, or a wait queue belonging to another runtime.
	ErrInvalidQueue = errors.New("uthread: invalid wait queue")

	// ErrTimerSignalUnsupported is returned by New when WithTimerSignal is
	// requested on a platform without interval-timer signal support.
	ErrTimerSignalUnsupported = errors.New("uthread: timer signal preemption is not supported on this platform")
)

// threadExit is the sentinel panic value used to unwind a created thread's
// goroutine back to its trampoline, which recovers it and finalizes the
// thread. It does not implement error: user code recovering arbitrary panics
// should rethrow values it does not recognize.
type threadExit struct {
	code int
}
