package uthread

import (
	"fmt"
)

// State is the lifecycle state of a thread control block.
//
// State machine:
//
//	StateFree → StateReady                  [Create]
//	StateReady → StateRunning               [dispatch]
//	StateRunning → StateReady               [Yield]
//	StateRunning → StateBlocked             [Sleep / lock / cond wait / Wait]
//	StateRunning → StateZombie              [Exit]
//	StateReady | StateBlocked → StateZombie [Kill (lazy)]
//	StateBlocked → StateReady               [Wakeup]
//	StateZombie → StateFree                 [reaped by Wait]
//
// Exactly one thread per runtime holds StateRunning between scheduling
// operations. A StateBlocked thread sits in exactly one wait queue.
type State uint8

const (
	// StateFree marks an unused slot, available to Create.
	StateFree State = iota
	// StateReady marks a runnable thread queued in the ready queue.
	StateReady
	// StateRunning marks the single currently-executing thread.
	StateRunning
	// StateBlocked marks a thread parked in a wait queue.
	StateBlocked
	// StateZombie marks a thread that has terminated (or been lazily killed)
	// but whose exit code has not yet been consumed by Wait.
	StateZombie
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateFree:
		return "Free"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateBlocked:
		return "Blocked"
	case StateZombie:
		return "Zombie"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}
