package uthread

import (
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
)

// sigtimerSource drives preemption from the process-wide SIGALRM interval
// timer. At most one runtime per process should use it; the interval timer
// and signal disposition are process-global.
type sigtimerSource struct {
	ch   chan os.Signal
	done chan struct{}
}

func (r *Runtime) startTimerSignal(interval time.Duration) (tickSource, error) {
	src := &sigtimerSource{
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(src.ch, unix.SIGALRM)
	if _, err := unix.Setitimer(unix.ITIMER_REAL, unix.Itimerval{
		Interval: unix.NsecToTimeval(int64(interval)),
		Value:    unix.NsecToTimeval(int64(interval)),
	}); err != nil {
		signal.Stop(src.ch)
		return nil, err
	}
	go func() {
		for {
			select {
			case <-src.done:
				return
			case <-src.ch:
				r.intr.pending.Store(true)
			}
		}
	}()
	return src, nil
}

func (s *sigtimerSource) stop() {
	// Disarm before detaching, so a late SIGALRM cannot hit the default
	// disposition and kill the process.
	_, _ = unix.Setitimer(unix.ITIMER_REAL, unix.Itimerval{})
	signal.Stop(s.ch)
	close(s.done)
}
