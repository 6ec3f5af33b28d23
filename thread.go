package uthread

import (
	"runtime"
)

// thread is a thread control block. Blocks live in the runtime's fixed table;
// the slot owns the thread's stack from Create until the stack is staged for
// reclamation at exit, and the slot itself is recycled only after the thread
// has been reaped.
type thread struct {
	id ID

	// gen counts slot reuses. A joiner captures it before blocking so a
	// target that is reaped (and possibly reused) while the joiner was
	// off-CPU is detected as stale.
	gen uint64

	state State

	// adopted marks the thread bootstrapped from the caller of New (thread 0
	// of a fresh runtime). Adopted threads have no trampoline: their exit
	// path cannot rely on the sentinel-panic unwind.
	adopted bool

	// stack is nil once staged for reclamation (or while the slot is free).
	stack *stack

	// exitCode holds the recorded exit code from Exit until a joiner
	// consumes it.
	exitCode int

	// joiners holds threads blocked in Wait on this thread.
	joiners threadQueue

	// next links this thread into the ready queue or a single wait queue.
	next *thread
}

// Create allocates the lowest-numbered free slot and a stack, initializes a
// fresh context whose first resumption runs entry(arg) via the trampoline,
// and enqueues the new thread at the ready-queue tail. It fails with
// ErrCapacityExhausted when no slot is free, or ErrOutOfMemory when the stack
// pool is empty (leaving the slot free).
//
// The new thread begins execution only when dispatched. When entry returns,
// the thread exits with code 0.
func (r *Runtime) Create(entry func(arg any), arg any) (ID, error) {
	if entry == nil {
		panic("uthread: nil entry function")
	}
	r.checkGoroutine()
	prior := r.intr.disable()

	var t *thread
	for i := range r.table {
		if r.table[i].state == StateFree {
			t = &r.table[i]
			break
		}
	}
	if t == nil {
		r.restore(prior)
		return 0, ErrCapacityExhausted
	}

	s := r.stacks.get()
	if s == nil {
		r.restore(prior)
		return 0, ErrOutOfMemory
	}

	t.state = StateReady
	t.stack = s
	t.exitCode = 0
	r.bootstrap(t, entry, arg)
	r.ready.push(t)

	r.logger.Debug().Int("thread", int(t.id)).Log("thread created")

	r.restore(prior)
	return t.id, nil
}

// trampoline is the first frame of every created thread. It drains the
// reclamation left over from the previous occupant of this stack, honors a
// kill that landed before the first run (no user code executes), re-enables
// interrupts, and runs entry(arg); returning from entry exits with code 0.
// It also recovers the threadExit sentinel, so Exit and the lazy-kill
// redirect unwind user frames (running their defers) before the thread is
// finalized.
func (r *Runtime) trampoline(t *thread, entry func(arg any), arg any) {
	defer func() {
		switch v := recover().(type) {
		case nil:
		case threadExit:
			r.terminate(v.code)
		default:
			panic(v)
		}
	}()

	// First resumption: the switching-out side left interrupts disabled.
	r.runningGID.Store(getGoroutineID())
	r.reclaim.drain(r.stacks)
	if t.state == StateZombie {
		r.terminate(0)
	}
	t.state = StateRunning
	r.restore(true)

	entry(arg)

	r.terminate(0)
}

// Kill marks the target dead without switching away from the caller. The
// kill is lazy: cooperative scheduling cannot interrupt a thread that is not
// running, so the target discovers its death at its next resumption and
// redirects into exit (running no user code if it never ran any). Targets
// that are unknown, free, the caller itself, or already dead fail with
// ErrInvalidThread.
func (r *Runtime) Kill(id ID) error {
	r.checkGoroutine()
	prior := r.intr.disable()

	t, err := r.lookup(id)
	if err != nil || t == r.current || t.state == StateZombie {
		r.restore(prior)
		return ErrInvalidThread
	}

	t.state = StateZombie
	r.logger.Debug().Int("thread", int(t.id)).Log("thread killed")

	r.restore(prior)
	return nil
}

// Exit terminates the running thread with the given code and never returns.
// Joiners blocked in Wait are woken; the thread's stack is staged for
// deferred reclamation (the caller is still executing on it) and control
// transfers to the next ready thread. If no ready thread remains, the exit
// handler (default os.Exit) is invoked with the code.
//
// For created threads the unwind runs deferred functions in the entry's
// frames before the thread is finalized. For the adopted thread 0 the
// goroutine terminates via runtime.Goexit after the handoff.
func (r *Runtime) Exit(code int) {
	r.checkGoroutine()
	if !r.current.adopted {
		panic(threadExit{code: code})
	}
	r.terminate(code)
}

// terminate finalizes the current thread: record the exit code, wake joiners,
// stage the stack, and hand control to the next ready thread. It never
// returns.
func (r *Runtime) terminate(code int) {
	r.intr.disable()
	r.reclaim.drain(r.stacks)

	cur := r.current
	cur.state = StateZombie
	cur.exitCode = code
	r.wakeupLocked(&cur.joiners, WakeAll)

	r.logger.Debug().
		Int("thread", int(cur.id)).
		Int("code", code).
		Log("thread exited")

	next := r.ready.pop()
	if next == nil {
		r.stopTick()
		r.logger.Debug().Int("code", code).Log("last thread exited")
		r.exitFunc(code)
		runtime.Goexit()
	}

	r.reclaim.stage(cur.stack)
	cur.stack = nil
	r.handoff(next)
	runtime.Goexit()
}

// Wait blocks the caller until the thread named id has exited and not yet
// been reaped, then consumes and returns its exit code, freeing the slot so
// the identifier can be reused. Unknown targets, the caller itself, and
// already-reaped threads fail with ErrInvalidThread. If the target has not
// exited and no other thread is runnable, Wait fails with
// ErrNoRunnableThread rather than blocking forever.
//
// When several threads wait on the same target, exit wakes them all; the
// first to be scheduled reaps the exit code and the rest fail with
// ErrInvalidThread.
func (r *Runtime) Wait(id ID) (int, error) {
	r.checkGoroutine()
	prior := r.intr.disable()

	t, err := r.lookup(id)
	if err != nil || t == r.current {
		r.restore(prior)
		return 0, ErrInvalidThread
	}

	// A zombie that still owns its stack was lazily killed and has not had
	// its final dispatch: it is still linked into a queue, so it cannot be
	// reaped yet. Its last run stages the stack and wakes joiners.
	gen := t.gen
	for t.gen == gen && !(t.state == StateZombie && t.stack == nil) {
		next := r.ready.pop()
		if next == nil {
			r.restore(prior)
			return 0, ErrNoRunnableThread
		}
		cur := r.current
		cur.state = StateBlocked
		t.joiners.push(cur)
		r.transfer(next)
	}
	if t.gen != gen {
		// Reaped (and possibly reused) while the caller was off-CPU.
		r.restore(prior)
		return 0, ErrInvalidThread
	}

	code := t.exitCode
	r.releaseSlot(t)
	r.logger.Debug().
		Int("thread", int(id)).
		Int("code", code).
		Log("thread reaped")

	r.restore(prior)
	return code, nil
}

// releaseSlot returns a reaped thread's slot to the free pool and bumps the
// generation so stale references to the old occupant are detectable.
func (r *Runtime) releaseSlot(t *thread) {
	t.state = StateFree
	t.adopted = false
	t.gen++
	t.exitCode = 0
}
