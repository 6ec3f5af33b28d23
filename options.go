package uthread

import (
	"fmt"
	"os"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultCapacity is the default thread-table size, including the adopted
	// thread 0.
	DefaultCapacity = 1024
)

type tickMode uint8

const (
	tickNone tickMode = iota
	tickTicker
	tickSignal
)

// runtimeOptions holds configuration options for Runtime creation.
type runtimeOptions struct {
	capacity     int
	stackPool    int
	logger       *logiface.Logger[logiface.Event]
	exitFunc     func(code int)
	tickMode     tickMode
	tickInterval time.Duration
}

// Option configures a Runtime instance.
type Option interface {
	applyRuntime(*runtimeOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyRuntimeFunc func(*runtimeOptions) error
}

func (o *optionImpl) applyRuntime(opts *runtimeOptions) error {
	return o.applyRuntimeFunc(opts)
}

// WithCapacity sets the thread-table size: the maximum number of concurrently
// live (unreaped) threads, including the adopted thread 0. Must be at least 1.
// Defaults to DefaultCapacity.
func WithCapacity(capacity int) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if capacity < 1 {
			return fmt.Errorf("uthread: capacity must be at least 1: %d", capacity)
		}
		opts.capacity = capacity
		return nil
	}}
}

// WithStackPool sets the number of stacks (execution contexts) available to
// the runtime, modeling its bounded stack memory. Must be at least 1 (thread
// 0 takes one). Create fails with ErrOutOfMemory when the pool is exhausted,
// even while thread slots remain. Defaults to the configured capacity.
func WithStackPool(size int) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if size < 1 {
			return fmt.Errorf("uthread: stack pool size must be at least 1: %d", size)
		}
		opts.stackPool = size
		return nil
	}}
}

// WithLogger attaches a structured logger to the runtime. Thread lifecycle
// events log at debug, context switches and tick delivery at trace. A nil
// logger (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithExitFunc sets the handler invoked, with the exit code, when the last
// runnable thread exits. Defaults to os.Exit. If the handler returns, the
// exiting goroutine is terminated via runtime.Goexit.
func WithExitFunc(fn func(code int)) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if fn == nil {
			return fmt.Errorf("uthread: nil exit func")
		}
		opts.exitFunc = fn
		return nil
	}}
}

// WithPreemption enables the portable preemption tick source: a per-runtime
// ticker that raises the pending-interrupt flag every interval. Mutually
// exclusive with WithTimerSignal.
func WithPreemption(interval time.Duration) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if interval <= 0 {
			return fmt.Errorf("uthread: preemption interval must be positive: %s", interval)
		}
		if opts.tickMode != tickNone {
			return fmt.Errorf("uthread: multiple preemption sources configured")
		}
		opts.tickMode = tickTicker
		opts.tickInterval = interval
		return nil
	}}
}

// WithTimerSignal enables preemption driven by the process-wide SIGALRM
// interval timer (setitimer). The timer and signal disposition are global to
// the process: configure at most one runtime with it. New fails with
// ErrTimerSignalUnsupported on platforms without interval-timer signals.
// Mutually exclusive with WithPreemption.
func WithTimerSignal(interval time.Duration) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if interval <= 0 {
			return fmt.Errorf("uthread: timer signal interval must be positive: %s", interval)
		}
		if opts.tickMode != tickNone {
			return fmt.Errorf("uthread: multiple preemption sources configured")
		}
		opts.tickMode = tickSignal
		opts.tickInterval = interval
		return nil
	}}
}

// resolveOptions applies Option instances to runtimeOptions.
func resolveOptions(opts []Option) (*runtimeOptions, error) {
	cfg := &runtimeOptions{
		capacity: DefaultCapacity,
		exitFunc: os.Exit,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.stackPool == 0 {
		cfg.stackPool = cfg.capacity
	}
	return cfg, nil
}
