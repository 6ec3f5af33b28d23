package uthread

// token is the value passed through a stack's gate channel to transfer
// control.
type token struct{}

// stack is the pooled execution-context resource backing one thread at a
// time. The gate channel realizes the capture/restore primitive: blocking on
// one's own gate captures the caller's resumable state (the parked
// goroutine), and sending a token to another stack's gate restores that
// context. A one-slot buffer lets the sender proceed to its own park without
// waiting for the receiver to be scheduled by the Go runtime.
type stack struct {
	gate chan token
}

// stackPool is a fixed-size free list of stacks, modeling the bounded stack
// memory of the runtime. Stacks are returned only through the
// deferred-reclamation buffer: a dying thread's context must not be recycled
// before control has moved off it, or the new occupant's resume token could
// be delivered to the dying goroutine.
type stackPool struct {
	free []*stack
}

func newStackPool(size int) *stackPool {
	p := &stackPool{free: make([]*stack, size)}
	for i := range p.free {
		p.free[i] = &stack{gate: make(chan token, 1)}
	}
	return p
}

// get removes a stack from the pool, or returns nil if none remain.
func (p *stackPool) get() *stack {
	if len(p.free) == 0 {
		return nil
	}
	s := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return s
}

// put returns a stack to the pool.
func (p *stackPool) put(s *stack) {
	p.free = append(p.free, s)
}

// bootstrap initializes a fresh context on t's stack so that its first
// resumption begins executing the trampoline (and from there entry(arg)),
// rather than resuming any prior computation.
func (r *Runtime) bootstrap(t *thread, entry func(arg any), arg any) {
	s := t.stack
	go func() {
		<-s.gate
		r.trampoline(t, entry, arg)
	}()
}

// transfer hands control to next and parks the caller until it is resumed.
// The interrupt gate must be disabled; the caller must already have recorded
// its non-running state and queue membership. On return the caller is the
// running thread again, with the gate still disabled.
func (r *Runtime) transfer(next *thread) {
	cur := r.current
	r.current = next
	gate := cur.stack.gate
	next.stack.gate <- token{}
	<-gate
	r.resumed(cur)
}

// handoff transfers control to next without parking: the caller is
// terminating and will never be resumed.
func (r *Runtime) handoff(next *thread) {
	r.current = next
	next.stack.gate <- token{}
}

// resumed performs the duties of a thread that has just been switched back
// to: reassert goroutine identity, honor a lazy kill, and become the running
// thread. The interrupt gate is disabled at this point; the resumed frame
// restores it.
func (r *Runtime) resumed(t *thread) {
	r.runningGID.Store(getGoroutineID())
	if t.state == StateZombie {
		// Lazily killed while off-CPU: redirect into exit instead of
		// returning from the suspension point.
		if !t.adopted {
			panic(threadExit{code: 0})
		}
		r.terminate(0)
	}
	t.state = StateRunning
}
