// Package uthread implements a cooperative, single-core, user-level thread
// runtime: many logical threads multiplexed onto one physical execution
// stream, with explicit scheduling, blocking/waking primitives, and
// synchronization constructs (locks, Mesa-style condition variables) layered
// on top.
//
// # Architecture
//
// A [Runtime] owns a fixed-capacity thread table, a FIFO ready queue, a
// bounded deferred-reclamation buffer, and an interrupt gate. Every logical
// thread is backed by a goroutine parked on a per-stack handoff channel;
// exactly one of those goroutines is unparked at any instant, so threads of
// one runtime never race over scheduler state. Context switches occur only at
// the runtime's own suspension points ([Runtime.Yield], [Runtime.Sleep],
// [Runtime.Exit], [Runtime.Wait], and the blocking paths of [Lock] and
// [Cond]).
//
// [New] adopts the calling goroutine as thread 0. All subsequent operations
// on that Runtime must be invoked from the goroutine of whichever thread is
// currently running; the runtime panics otherwise. Multiple independent
// runtimes may coexist in a single process.
//
// # Scheduling
//
// The ready queue is strictly FIFO, giving round-robin fairness under
// repeated Yield(Any). Waking a blocked thread ([Runtime.Wakeup],
// [Lock.Release], [Cond.Signal], [Cond.Broadcast]) never transfers control
// immediately: the woken thread is appended to the ready-queue tail and runs
// at a future dispatch. [Runtime.Kill] is lazy — the target is marked dead
// and terminates itself (without running further user code, if it never ran
// any) the next time the scheduler would resume it.
//
// # Preemption
//
// Preemption is modeled as a deferred asynchronous tick. A tick source (a
// portable ticker via [WithPreemption], or the process-wide SIGALRM interval
// timer via [WithTimerSignal]) raises a pending flag; scheduler-state
// mutations run with the interrupt gate disabled, and a pending tick is
// delivered — as one round-robin yield — when the gate is re-enabled. This
// mirrors a masked hardware timer interrupt held pending by the kernel.
//
// # Usage
//
//	rt, err := uthread.New(uthread.WithCapacity(64))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	id, err := rt.Create(func(arg any) {
//	    fmt.Println("hello from", arg)
//	}, "thread 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt.Yield(id)       // run it
//	code, _ := rt.Wait(id) // reap it
//
// # Errors
//
// Capacity, resource, identity, and scheduling failures are reported as
// sentinel errors ([ErrCapacityExhausted], [ErrOutOfMemory],
// [ErrInvalidThread], [ErrNoRunnableThread], [ErrInvalidQueue]); the failing
// operation is a state no-op. Contract violations — releasing a lock the
// caller does not own, condition-variable wait without holding the lock,
// destroying a primitive in use, or calling into the runtime from a foreign
// goroutine — indicate broken locking or threading discipline and panic.
//
// # Caveats
//
// [Runtime.Exit] (and the lazy-kill redirect) unwinds a created thread with a
// recovered sentinel panic, so deferred functions in the thread's entry run
// while the thread is still current; a recover-all in user code that swallows
// the sentinel breaks termination. For the adopted thread 0 the unwind is
// [runtime.Goexit] after the handoff, so thread 0's deferred functions must
// not call back into the Runtime.
package uthread
