package uthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parkThreads creates count threads that block on q and runs them until all
// are parked, returning their ids in creation order.
func parkThreads(t *testing.T, rt *Runtime, q *WaitQueue, count int, after func()) []ID {
	t.Helper()
	ids := make([]ID, count)
	for i := range ids {
		id, err := rt.Create(func(any) {
			_, err := rt.Sleep(q)
			require.NoError(t, err)
			if after != nil {
				after()
			}
		}, nil)
		require.NoError(t, err)
		ids[i] = id
	}
	// Each sleeper hands off to the next; one yield parks them all.
	_, err := rt.Yield(Any)
	require.NoError(t, err)
	return ids
}

func TestSleep_invalidQueue(t *testing.T) {
	rt := newTestRuntime(t)

	_, err := rt.Sleep(nil)
	assert.ErrorIs(t, err, ErrInvalidQueue)

	other := newTestRuntime(t)
	_, err = rt.Sleep(other.NewWaitQueue())
	assert.ErrorIs(t, err, ErrInvalidQueue)

	q := rt.NewWaitQueue()
	q.Destroy()
	_, err = rt.Sleep(q)
	assert.ErrorIs(t, err, ErrInvalidQueue)
}

func TestSleep_noRunnableThread(t *testing.T) {
	rt := newTestRuntime(t)

	q := rt.NewWaitQueue()
	_, err := rt.Sleep(q)
	assert.ErrorIs(t, err, ErrNoRunnableThread)

	// The failed sleep must not have parked the caller.
	assert.Equal(t, StateRunning, rt.table[0].state)
	assert.Zero(t, rt.Wakeup(q, WakeAll))
}

func TestWakeup_oneIsFIFO(t *testing.T) {
	rt := newTestRuntime(t, WithCapacity(8))

	var order []ID
	q := rt.NewWaitQueue()
	ids := parkThreads(t, rt, q, 3, func() { order = append(order, rt.Self()) })

	// Wake and run one sleeper at a time; sleepers must wake in the order
	// they blocked.
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, rt.Wakeup(q, WakeOne))
		_, err := rt.Yield(Any)
		require.NoError(t, err)
		assert.Equal(t, ids[:i+1], order)
	}
	for _, id := range ids {
		_, err := rt.Wait(id)
		require.NoError(t, err)
	}
}

func TestWakeup_allWakesEveryoneInOrder(t *testing.T) {
	rt := newTestRuntime(t, WithCapacity(8))

	var order []ID
	q := rt.NewWaitQueue()
	ids := parkThreads(t, rt, q, 3, func() { order = append(order, rt.Self()) })

	assert.Equal(t, 3, rt.Wakeup(q, WakeAll))
	_, err := rt.Yield(Any)
	require.NoError(t, err)

	assert.Equal(t, ids, order)
	for _, id := range ids {
		_, err := rt.Wait(id)
		require.NoError(t, err)
	}
}

func TestWakeup_emptyAndInvalid(t *testing.T) {
	rt := newTestRuntime(t)

	assert.Zero(t, rt.Wakeup(nil, WakeAll))
	assert.Zero(t, rt.Wakeup(rt.NewWaitQueue(), WakeOne))

	other := newTestRuntime(t)
	assert.Zero(t, rt.Wakeup(other.NewWaitQueue(), WakeAll))
}

func TestWakeup_killedSleeperStaysDead(t *testing.T) {
	rt := newTestRuntime(t)

	q := rt.NewWaitQueue()
	var ran bool
	id, err := rt.Create(func(any) {
		_, _ = rt.Sleep(q)
		ran = true
	}, nil)
	require.NoError(t, err)
	_, err = rt.Yield(Any)
	require.NoError(t, err)

	require.NoError(t, rt.Kill(id))
	// The kill leaves the zombie on the wait queue; waking it schedules it
	// one last time so its stack can be reclaimed, but no user code runs.
	assert.Equal(t, 1, rt.Wakeup(q, WakeAll))
	_, err = rt.Yield(Any)
	require.NoError(t, err)
	assert.False(t, ran)

	_, err = rt.Wait(id)
	require.NoError(t, err)
}

func TestWaitQueueDestroy_nonEmptyPanics(t *testing.T) {
	rt := newTestRuntime(t)

	q := rt.NewWaitQueue()
	id, err := rt.Create(func(any) { _, _ = rt.Sleep(q) }, nil)
	require.NoError(t, err)
	_, err = rt.Yield(Any)
	require.NoError(t, err)

	assert.Panics(t, func() { q.Destroy() })

	require.Equal(t, 1, rt.Wakeup(q, WakeOne))
	_, err = rt.Wait(id)
	require.NoError(t, err)
}
