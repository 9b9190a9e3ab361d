package gateway

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when a generation request is already outstanding.
var ErrBusy = errors.New("a generation request is already in flight")

// Guard enforces the single-request-in-flight discipline for remote calls:
// one outstanding generation or edit at a time, guarded by an explicit flag
// rather than incidental UI disabling.
type Guard struct {
	busy atomic.Bool
}

// Acquire claims the in-flight slot. It returns ErrBusy when another request
// is still outstanding.
func (g *Guard) Acquire() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// Release frees the in-flight slot.
func (g *Guard) Release() {
	g.busy.Store(false)
}

// Busy reports whether a request is currently outstanding.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
