package uthread

// Cond is a Mesa-style condition variable. Instances must be created through
// Runtime.NewCond and are always used with a Lock guarding the condition's
// predicate.
//
// Mesa semantics: a woken waiter re-acquires the lock before Wait returns,
// but holds no guarantee the predicate is still true — callers must re-check
// it in a loop:
//
//	lk.Acquire()
//	for !predicate() {
//	    cv.Wait(lk)
//	}
//	// ... predicate holds, lock held ...
//	lk.Release()
type Cond struct {
	r       *Runtime
	waiters WaitQueue
}

// NewCond creates a condition variable owned by this runtime.
func (r *Runtime) NewCond() *Cond {
	r.checkGoroutine()
	return &Cond{r: r, waiters: WaitQueue{r: r}}
}

// Wait atomically releases lk, blocks the caller on the condition variable,
// and re-acquires lk before returning. Calling Wait without holding lk is a
// contract violation and panics, as is blocking when no other thread is
// runnable (nobody could ever signal).
func (c *Cond) Wait(lk *Lock) {
	r := c.r
	r.checkGoroutine()
	prior := r.intr.disable()

	if lk == nil || lk.owner != r.current {
		r.restore(prior)
		panic("uthread: condition wait without holding the lock")
	}

	// Release and block as one step under the gate: no wakeup between them
	// can be missed.
	lk.owner = nil
	r.wakeupLocked(&lk.waiters.threads, WakeOne)
	if _, err := r.sleepLocked(&c.waiters); err != nil {
		r.restore(prior)
		panic("uthread: condition wait with no runnable thread (deadlock)")
	}

	// Woken: re-acquire before returning. Ownership is not handed off at
	// signal time, so contend like any other acquirer.
	for lk.owner != nil {
		if _, err := r.sleepLocked(&lk.waiters); err != nil {
			r.restore(prior)
			panic("uthread: lock acquire with no runnable thread (deadlock)")
		}
	}
	lk.owner = r.current

	r.restore(prior)
}

// Signal wakes one waiter, if any. The lock handle is accepted for symmetry
// with Wait; callers conventionally hold it, but only Wait enforces that.
func (c *Cond) Signal(lk *Lock) {
	r := c.r
	r.checkGoroutine()
	prior := r.intr.disable()
	r.wakeupLocked(&c.waiters.threads, WakeOne)
	r.restore(prior)
}

// Broadcast wakes every waiter, in their blocking order.
func (c *Cond) Broadcast(lk *Lock) {
	r := c.r
	r.checkGoroutine()
	prior := r.intr.disable()
	r.wakeupLocked(&c.waiters.threads, WakeAll)
	r.restore(prior)
}

// Destroy releases the condition variable's resources. Destroying one with
// blocked waiters is a contract violation and panics.
func (c *Cond) Destroy() {
	c.r.checkGoroutine()
	if !c.waiters.threads.empty() {
		panic("uthread: destroy of condition variable in use")
	}
	c.r = nil
}
