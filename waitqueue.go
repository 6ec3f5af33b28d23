package uthread

// WakeMode selects how many threads Wakeup moves to the ready queue.
type WakeMode uint8

const (
	// WakeOne moves the head of the wait queue (FIFO).
	WakeOne WakeMode = iota
	// WakeAll moves every queued thread, preserving their blocking order.
	WakeAll
)

// WaitQueue is a FIFO list of blocked threads. Instances must be created
// through Runtime.NewWaitQueue (or implicitly by Lock and Cond, which are
// thin policy layers over wait queues).
type WaitQueue struct {
	r       *Runtime
	threads threadQueue
}

// NewWaitQueue creates an empty wait queue owned by this runtime.
func (r *Runtime) NewWaitQueue() *WaitQueue {
	r.checkGoroutine()
	return &WaitQueue{r: r}
}

// Destroy releases the queue. Destroying a queue with blocked threads is a
// contract violation and panics.
func (q *WaitQueue) Destroy() {
	if !q.threads.empty() {
		panic("uthread: destroy of non-empty wait queue")
	}
	q.r = nil
}

// Sleep atomically removes the caller from scheduling, appends it to q, and
// switches to the next ready thread. It returns the identifier of the thread
// chosen to run. If no thread is runnable the caller remains running and
// Sleep fails with ErrNoRunnableThread; a nil, destroyed, or foreign queue
// fails with ErrInvalidQueue.
//
// The caller is woken only by an explicit Wakeup on the same queue.
func (r *Runtime) Sleep(q *WaitQueue) (ID, error) {
	r.checkGoroutine()
	if q == nil || q.r != r {
		return 0, ErrInvalidQueue
	}
	prior := r.intr.disable()
	r.reclaim.drain(r.stacks)

	id, err := r.sleepLocked(q)

	r.restore(prior)
	return id, err
}

// sleepLocked blocks the current thread on q and dispatches the ready-queue
// head. Interrupts must be disabled; on return (after the caller is
// eventually woken and rescheduled) they still are.
func (r *Runtime) sleepLocked(q *WaitQueue) (ID, error) {
	next := r.ready.pop()
	if next == nil {
		return 0, ErrNoRunnableThread
	}

	cur := r.current
	cur.state = StateBlocked
	q.threads.push(cur)

	id := next.id
	r.logger.Trace().
		Int("from", int(cur.id)).
		Int("to", int(id)).
		Log("sleeping")
	r.transfer(next)
	return id, nil
}

// Wakeup moves blocked threads from q to the ready-queue tail, in their
// blocking order, and returns the count moved (0 for an empty, nil, or
// foreign queue). Waking never transfers control: the woken threads only
// become eligible for a future dispatch.
func (r *Runtime) Wakeup(q *WaitQueue, mode WakeMode) int {
	r.checkGoroutine()
	if q == nil || q.r != r {
		return 0
	}
	prior := r.intr.disable()
	n := r.wakeupLocked(&q.threads, mode)
	r.restore(prior)
	return n
}

// wakeupLocked implements Wakeup under a disabled interrupt gate. It is also
// the exit path's mechanism for releasing joiners.
func (r *Runtime) wakeupLocked(q *threadQueue, mode WakeMode) int {
	var n int
	for {
		t := q.pop()
		if t == nil {
			return n
		}
		// A lazily killed thread stays a zombie; it still needs to be
		// scheduled once to die.
		if t.state == StateBlocked {
			t.state = StateReady
		}
		r.ready.push(t)
		n++
		if mode == WakeOne {
			return n
		}
	}
}
