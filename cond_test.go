package uthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondWait_withoutLockPanics(t *testing.T) {
	rt := newTestRuntime(t)

	cv := rt.NewCond()
	lk := rt.NewLock()
	assert.PanicsWithValue(t, "uthread: condition wait without holding the lock", func() { cv.Wait(lk) })
	assert.PanicsWithValue(t, "uthread: condition wait without holding the lock", func() { cv.Wait(nil) })
}

func TestCondSignal_noWaitersIsNoOp(t *testing.T) {
	rt := newTestRuntime(t)

	cv := rt.NewCond()
	lk := rt.NewLock()
	lk.Acquire()
	cv.Signal(lk)
	cv.Broadcast(lk)
	lk.Release()
	cv.Destroy()
	lk.Destroy()
}

func TestCond_signalHandoff(t *testing.T) {
	rt := newTestRuntime(t)

	cv := rt.NewCond()
	lk := rt.NewLock()
	var items int
	var consumed bool

	id, err := rt.Create(func(any) {
		lk.Acquire()
		for items == 0 {
			cv.Wait(lk)
			// Mesa semantics: the lock is held again but the predicate
			// must be re-checked.
			require.True(t, lk.Held())
		}
		items--
		consumed = true
		lk.Release()
	}, nil)
	require.NoError(t, err)

	// Run the consumer until it blocks on the condition variable.
	_, err = rt.Yield(Any)
	require.NoError(t, err)
	assert.False(t, consumed)

	lk.Acquire()
	items++
	cv.Signal(lk)
	lk.Release()

	code, err := rt.Wait(id)
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.True(t, consumed)
	assert.Zero(t, items)
}

func TestCond_broadcastWakesAllInOrder(t *testing.T) {
	rt := newTestRuntime(t, WithCapacity(8))

	cv := rt.NewCond()
	lk := rt.NewLock()
	var released bool
	var order []ID

	waiter := func(any) {
		lk.Acquire()
		for !released {
			cv.Wait(lk)
		}
		require.True(t, lk.Held())
		order = append(order, rt.Self())
		lk.Release()
	}

	ids := make([]ID, 3)
	for i := range ids {
		id, err := rt.Create(waiter, nil)
		require.NoError(t, err)
		ids[i] = id
	}
	_, err := rt.Yield(Any)
	require.NoError(t, err)
	require.Empty(t, order)

	lk.Acquire()
	released = true
	cv.Broadcast(lk)
	lk.Release()

	for _, id := range ids {
		_, err := rt.Wait(id)
		require.NoError(t, err)
	}
	assert.Equal(t, ids, order)

	cv.Destroy()
	lk.Destroy()
}

func TestCond_signalWakesOneAtATime(t *testing.T) {
	rt := newTestRuntime(t, WithCapacity(8))

	cv := rt.NewCond()
	lk := rt.NewLock()
	var tokens int
	var order []ID

	waiter := func(any) {
		lk.Acquire()
		for tokens == 0 {
			cv.Wait(lk)
		}
		tokens--
		order = append(order, rt.Self())
		lk.Release()
	}

	ids := make([]ID, 2)
	for i := range ids {
		id, err := rt.Create(waiter, nil)
		require.NoError(t, err)
		ids[i] = id
	}
	_, err := rt.Yield(Any)
	require.NoError(t, err)

	// One token, one signal: exactly the first waiter proceeds.
	lk.Acquire()
	tokens++
	cv.Signal(lk)
	lk.Release()
	code, err := rt.Wait(ids[0])
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, []ID{ids[0]}, order)

	lk.Acquire()
	tokens++
	cv.Signal(lk)
	lk.Release()
	_, err = rt.Wait(ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids, order)
}

func TestCondDestroy_withWaitersPanics(t *testing.T) {
	rt := newTestRuntime(t)

	cv := rt.NewCond()
	lk := rt.NewLock()
	id, err := rt.Create(func(any) {
		lk.Acquire()
		cv.Wait(lk)
		lk.Release()
	}, nil)
	require.NoError(t, err)
	_, err = rt.Yield(Any)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "uthread: destroy of condition variable in use", cv.Destroy)

	cv.Signal(lk)
	_, err = rt.Wait(id)
	require.NoError(t, err)
}
