package uthread

import (
	"errors"
	"sync/atomic"
)

// intrGate is the interrupt mask for one runtime. Every operation that
// mutates the ready queue, a wait queue, or the thread table disables the
// gate for its duration and restores the prior value on every exit path,
// error returns included.
//
// enabled is mutated only by the running logical thread; the handoff channel
// provides the happens-before edge across goroutines. pending is the
// asynchronous part: the tick source raises it at any time, like a kernel
// holding a masked signal, and delivery is deferred until the gate is next
// re-enabled.
type intrGate struct {
	enabled bool
	pending atomic.Bool
}

// disable masks interrupts, returning the prior enabled flag.
func (g *intrGate) disable() bool {
	prior := g.enabled
	g.enabled = false
	return prior
}

// restore re-establishes the saved interrupt flag and, when that re-enables
// the gate with a tick pending, delivers the tick: one round-robin yield on
// behalf of the running thread.
func (r *Runtime) restore(prior bool) {
	r.intr.enabled = prior
	if prior && r.intr.pending.CompareAndSwap(true, false) {
		r.deliverTick()
	}
}

// deliverTick preempts the running thread with a round-robin yield. A sole
// remaining thread has nothing to yield to; the tick is consumed regardless.
func (r *Runtime) deliverTick() {
	if _, ok := r.tickLog.Allow(logCategoryTick); ok {
		r.logger.Trace().Int("thread", int(r.current.id)).Log("delivering preemption tick")
	}
	if _, err := r.Yield(Any); err != nil && !errors.Is(err, ErrNoRunnableThread) {
		r.logger.Err().Err(err).Log("preemption tick yield failed")
	}
}

// logCategoryTick is the catrate category for tick-delivery logging, which
// would otherwise flood the logs at short preemption intervals.
const logCategoryTick = "uthread.tick"
