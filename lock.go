package uthread

// Lock provides mutual exclusion between threads of one runtime. Instances
// must be created through Runtime.NewLock.
//
// Ownership transfers only when a woken waiter is actually scheduled, never
// at wake time: Release makes the head waiter a candidate owner, and Acquire
// re-checks ownership in a loop after every wakeup.
type Lock struct {
	r *Runtime
	// owner is nil while unlocked.
	owner   *thread
	waiters WaitQueue
}

// NewLock creates an unlocked lock owned by this runtime.
func (r *Runtime) NewLock() *Lock {
	r.checkGoroutine()
	return &Lock{r: r, waiters: WaitQueue{r: r}}
}

// Acquire blocks until the caller holds the lock. If the lock is free it is
// taken immediately; otherwise the caller joins the lock's wait queue.
// Acquiring a lock the caller already holds, or blocking when no other
// thread is runnable (nobody could ever release the lock), is a programming
// error and panics.
func (l *Lock) Acquire() {
	r := l.r
	r.checkGoroutine()
	prior := r.intr.disable()

	if l.owner == r.current {
		r.restore(prior)
		panic("uthread: lock acquired twice by the same thread")
	}
	for l.owner != nil {
		if _, err := r.sleepLocked(&l.waiters); err != nil {
			r.restore(prior)
			panic("uthread: lock acquire with no runnable thread (deadlock)")
		}
	}
	l.owner = r.current

	r.restore(prior)
}

// Release unlocks the lock and wakes exactly one waiter, if any. Releasing a
// lock the caller does not own is a contract violation and panics.
func (l *Lock) Release() {
	r := l.r
	r.checkGoroutine()
	prior := r.intr.disable()

	if l.owner != r.current {
		r.restore(prior)
		panic("uthread: lock released by non-owner")
	}
	l.owner = nil
	r.wakeupLocked(&l.waiters.threads, WakeOne)

	r.restore(prior)
}

// Held reports whether the calling thread owns the lock.
func (l *Lock) Held() bool {
	l.r.checkGoroutine()
	return l.owner == l.r.current
}

// Destroy releases the lock's resources. Destroying a held or contended lock
// is a contract violation and panics.
func (l *Lock) Destroy() {
	l.r.checkGoroutine()
	if l.owner != nil || !l.waiters.threads.empty() {
		panic("uthread: destroy of lock in use")
	}
	l.r = nil
}
