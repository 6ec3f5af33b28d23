package uthread

// reclaimBuffer stages the stacks of terminated threads until it is safe to
// recycle them. A thread cannot return its own stack to the pool: between
// staging and its final control transfer it is still executing on that
// context. Every scheduling operation (Yield, Sleep, Exit, and the trampoline
// on thread start) drains the buffer first — by construction the draining
// thread is never running on a staged stack.
//
// Two slots suffice: Exit drains before staging, so at most one entry can be
// pending per switch, with one slot of headroom.
type reclaimBuffer struct {
	pending [2]*stack
	n       int
}

// stage records s for deferred recycling.
func (b *reclaimBuffer) stage(s *stack) {
	if b.n == len(b.pending) {
		panic("uthread: deferred-reclamation buffer overflow")
	}
	b.pending[b.n] = s
	b.n++
}

// drain returns every staged stack to the pool.
func (b *reclaimBuffer) drain(pool *stackPool) {
	for i := 0; i < b.n; i++ {
		pool.put(b.pending[i])
		b.pending[i] = nil
	}
	b.n = 0
}
