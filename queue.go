package uthread

// threadQueue is a FIFO of thread control blocks, linked intrusively through
// the thread's next pointer. The zero value is an empty queue. It backs both
// the ready queue and every wait queue: the operations required are the same.
//
// The single intrusive link doubles as the "in exactly one queue" invariant:
// pushing a thread that is already linked panics.
type threadQueue struct {
	head, tail *thread
}

// push appends t at the tail.
func (q *threadQueue) push(t *thread) {
	if t.next != nil || q.tail == t {
		panic("uthread: thread is already queued")
	}
	if q.tail != nil {
		q.tail.next = t
	} else {
		q.head = t
	}
	q.tail = t
}

// pop removes and returns the head, or nil if the queue is empty.
func (q *threadQueue) pop() *thread {
	t := q.head
	if t == nil {
		return nil
	}
	q.head = t.next
	if q.tail == t {
		q.tail = nil
	}
	t.next = nil
	return t
}

// unlink removes t from the queue, wherever it is, reporting whether it was
// present.
func (q *threadQueue) unlink(t *thread) bool {
	var prev *thread
	for cur := q.head; cur != nil; prev, cur = cur, cur.next {
		if cur != t {
			continue
		}
		if prev != nil {
			prev.next = cur.next
		} else {
			q.head = cur.next
		}
		if q.tail == cur {
			q.tail = prev
		}
		cur.next = nil
		return true
	}
	return false
}

// empty checks if the queue is empty.
func (q *threadQueue) empty() bool {
	return q.head == nil
}

// size walks the queue. It is only used on cold paths (destroy assertions,
// tests).
func (q *threadQueue) size() int {
	var n int
	for t := q.head; t != nil; t = t.next {
		n++
	}
	return n
}
