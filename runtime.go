package uthread

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// ID identifies a thread within one Runtime. Identifiers are small integers,
// unique among currently live (unreaped) threads, and reused only after the
// previous holder has been reaped via Wait.
type ID int

const (
	// Any directs Yield to dispatch the head of the ready queue.
	Any ID = -1
	// Self directs Yield to keep the caller running; the call still counts as
	// a full scheduling round trip.
	Self ID = -2
)

// Runtime is a cooperative user-level thread runtime. Instances must be
// initialized using the New factory, which adopts the calling goroutine as
// thread 0.
//
// All scheduler state is confined to the runtime object — no package-level
// globals — so independent runtimes can coexist in one process. Operations
// are not safe for concurrent use from arbitrary goroutines: they must be
// invoked from the goroutine of the currently running thread, and the
// runtime panics otherwise.
type Runtime struct {
	// Prevent copying
	_ [0]func()

	logger  *logiface.Logger[logiface.Event]
	tickLog *catrate.Limiter

	// table is the fixed-capacity thread control table. It is never
	// reallocated; pointers into it remain valid for the runtime's lifetime.
	table []thread

	ready   threadQueue
	reclaim reclaimBuffer
	stacks  *stackPool
	intr    intrGate

	current *thread

	// runningGID is the goroutine id of the running thread, maintained at
	// every resumption point and checked on entry to each operation.
	runningGID atomic.Uint64

	exitFunc func(code int)

	tick     tickSource
	tickStop sync.Once
}

// New initializes a runtime and adopts the calling goroutine as thread 0,
// which starts in the running state. It must be called exactly once per
// runtime, before any other operation.
func New(options ...Option) (*Runtime, error) {
	cfg, err := resolveOptions(options)
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		logger:   cfg.logger,
		tickLog:  catrate.NewLimiter(map[time.Duration]int{time.Second: 4}),
		table:    make([]thread, cfg.capacity),
		stacks:   newStackPool(cfg.stackPool),
		exitFunc: cfg.exitFunc,
	}
	for i := range r.table {
		r.table[i].id = ID(i)
	}

	t0 := &r.table[0]
	t0.state = StateRunning
	t0.adopted = true
	t0.stack = r.stacks.get()
	r.current = t0
	r.intr.enabled = true
	r.runningGID.Store(getGoroutineID())

	switch cfg.tickMode {
	case tickTicker:
		r.tick = r.startTicker(cfg.tickInterval)
	case tickSignal:
		src, err := r.startTimerSignal(cfg.tickInterval)
		if err != nil {
			return nil, err
		}
		r.tick = src
	}

	r.logger.Debug().
		Int("capacity", cfg.capacity).
		Int("stacks", cfg.stackPool).
		Log("runtime initialized")

	return r, nil
}

// Self returns the identifier of the currently running thread. It never
// fails.
func (r *Runtime) Self() ID {
	r.checkGoroutine()
	return r.current.id
}

// Yield suspends the running thread in favor of target and returns, once the
// caller is eventually resumed, the identifier of the thread that was run.
//
// target may be an explicit identifier — which must be present in the ready
// queue, else ErrInvalidThread — or one of the sentinels: Any dispatches the
// ready-queue head (ErrNoRunnableThread if the queue is empty), Self keeps
// the caller running. On success the caller is requeued at the ready-queue
// tail (unless the target is itself) and control transfers to the target.
func (r *Runtime) Yield(target ID) (ID, error) {
	r.checkGoroutine()
	prior := r.intr.disable()
	r.reclaim.drain(r.stacks)

	cur := r.current

	var next *thread
	switch {
	case target == Self || target == cur.id:
		r.restore(prior)
		return cur.id, nil
	case target == Any:
		next = r.ready.pop()
		if next == nil {
			r.restore(prior)
			return 0, ErrNoRunnableThread
		}
	default:
		t, err := r.lookup(target)
		if err != nil {
			r.restore(prior)
			return 0, err
		}
		if !r.ready.unlink(t) {
			r.restore(prior)
			return 0, ErrInvalidThread
		}
		next = t
	}

	cur.state = StateReady
	r.ready.push(cur)

	id := next.id
	r.logger.Trace().
		Int("from", int(cur.id)).
		Int("to", int(id)).
		Log("context switch")
	r.transfer(next)

	r.restore(prior)
	return id, nil
}

// Close stops the asynchronous tick source, if any. It does not terminate
// threads, and unlike the scheduling operations it may be called from any
// goroutine.
func (r *Runtime) Close() error {
	r.stopTick()
	return nil
}

// lookup resolves an explicit thread identifier to a live control block.
func (r *Runtime) lookup(id ID) (*thread, error) {
	if id < 0 || int(id) >= len(r.table) {
		return nil, ErrInvalidThread
	}
	t := &r.table[id]
	if t.state == StateFree {
		return nil, ErrInvalidThread
	}
	return t, nil
}

// checkGoroutine panics unless the caller is on the running thread's
// goroutine. Scheduler state is single-stream by construction; calls from
// foreign goroutines would corrupt it.
func (r *Runtime) checkGoroutine() {
	if getGoroutineID() != r.runningGID.Load() {
		panic("uthread: runtime operation called from a goroutine that is not the running thread")
	}
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
