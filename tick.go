package uthread

import (
	"time"
)

// tickSource is an asynchronous preemption tick generator. Sources only raise
// the runtime's pending flag; they never touch scheduler state directly.
type tickSource interface {
	stop()
}

// tickerSource is the portable tick source, one per runtime.
type tickerSource struct {
	ticker *time.Ticker
	done   chan struct{}
}

func (r *Runtime) startTicker(interval time.Duration) tickSource {
	src := &tickerSource{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-src.done:
				return
			case <-src.ticker.C:
				r.intr.pending.Store(true)
			}
		}
	}()
	return src
}

func (s *tickerSource) stop() {
	s.ticker.Stop()
	close(s.done)
}

// stopTick shuts down the tick source, if any. Safe to call more than once
// (Close and last-thread exit can both reach it).
func (r *Runtime) stopTick() {
	r.tickStop.Do(func() {
		if r.tick != nil {
			r.tick.stop()
		}
	})
}
