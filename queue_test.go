package uthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadQueue_fifo(t *testing.T) {
	var q threadQueue
	a, b, c := &thread{id: 1}, &thread{id: 2}, &thread{id: 3}

	assert.True(t, q.empty())
	assert.Nil(t, q.pop())

	q.push(a)
	q.push(b)
	q.push(c)
	assert.Equal(t, 3, q.size())

	assert.Same(t, a, q.pop())
	assert.Same(t, b, q.pop())
	assert.Same(t, c, q.pop())
	assert.Nil(t, q.pop())
	assert.True(t, q.empty())
}

func TestThreadQueue_unlink(t *testing.T) {
	var q threadQueue
	a, b, c := &thread{id: 1}, &thread{id: 2}, &thread{id: 3}
	q.push(a)
	q.push(b)
	q.push(c)

	assert.True(t, q.unlink(b))
	assert.False(t, q.unlink(b))
	assert.Equal(t, 2, q.size())
	assert.Same(t, a, q.pop())
	assert.Same(t, c, q.pop())

	// Unlinking the head and the tail.
	q.push(a)
	q.push(b)
	assert.True(t, q.unlink(a))
	assert.True(t, q.unlink(b))
	assert.True(t, q.empty())

	// Popped and unlinked threads can be requeued.
	q.push(a)
	assert.Same(t, a, q.pop())
}

func TestThreadQueue_doublePushPanics(t *testing.T) {
	var q threadQueue
	a := &thread{id: 1}
	q.push(a)
	assert.PanicsWithValue(t, "uthread: thread is already queued", func() { q.push(a) })
}

func TestState_strings(t *testing.T) {
	for s, want := range map[State]string{
		StateFree:    "Free",
		StateReady:   "Ready",
		StateRunning: "Running",
		StateBlocked: "Blocked",
		StateZombie:  "Zombie",
		State(250):   "Unknown(250)",
	} {
		assert.Equal(t, want, s.String())
	}
}
