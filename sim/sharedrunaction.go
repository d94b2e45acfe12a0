package sim

import (
	"errors"
	"fmt"
	"sync"
)

// sharedActionLock serializes all shared-action forwarding across the
// process. One coarse lock, rather than one lock per wrapped instance,
// keeps the sharing contract trivial to reason about: no two protected
// actions ever execute concurrently, whichever wrapper they are reached
// through.
var sharedActionLock sync.Mutex

// ErrActionNotBound is returned when a SharedRunAction is invoked before
// Use bound an underlying action to it.
var ErrActionNotBound = errors.New("no underlying action bound")

// A SharedRunAction lets a single run-action instance serve multiple
// worker fibers. Each fiber holds its own wrapper; all wrappers forward
// to the one shared instance under a process-wide lock, so the shared
// instance never executes on two fibers at the same time.
//
// The shared action should be fast. The lock is held for the full
// duration of the forwarded callback, so a slow shared action serializes
// every fiber that shares anything.
type SharedRunAction struct {
	RunActionBase

	action RunAction
}

// NewSharedRunAction creates an unbound wrapper. Use must be called
// before the first run starts.
func NewSharedRunAction(ctx *Context, name string) *SharedRunAction {
	return &SharedRunAction{RunActionBase: NewRunActionBase(ctx, name)}
}

// Use binds the underlying action this wrapper forwards to. The wrapper
// does not take ownership; the caller keeps the shared instance alive for
// as long as any wrapper references it.
func (a *SharedRunAction) Use(action RunAction) {
	if action == nil {
		panic("shared run action " + a.Name() + ": cannot use a nil action")
	}

	a.action = action
}

// ConfigureFiber re-targets the wrapper for a newly spawned worker fiber.
// The binding to the underlying action is unchanged; only the wrapper's
// own context moves to the new fiber.
func (a *SharedRunAction) ConfigureFiber(ctx *Context) {
	a.UpdateContext(ctx)
}

// Begin forwards the begin-of-run callback to the underlying action while
// holding the sharing lock.
func (a *SharedRunAction) Begin(run *Run) error {
	if a.action == nil {
		return fmt.Errorf("shared run action %s: begin: %w",
			a.Name(), ErrActionNotBound)
	}

	sharedActionLock.Lock()
	defer sharedActionLock.Unlock()

	return a.action.Begin(run)
}

// End forwards the end-of-run callback to the underlying action while
// holding the sharing lock.
func (a *SharedRunAction) End(run *Run) error {
	if a.action == nil {
		return fmt.Errorf("shared run action %s: end: %w",
			a.Name(), ErrActionNotBound)
	}

	sharedActionLock.Lock()
	defer sharedActionLock.Unlock()

	return a.action.End(run)
}
