//go:build !linux

package uthread

import (
	"time"
)

func (r *Runtime) startTimerSignal(interval time.Duration) (tickSource, error) {
	return nil, ErrTimerSignalUnsupported
}
