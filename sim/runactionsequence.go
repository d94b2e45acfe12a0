package sim

import (
	"fmt"
	"sync"
)

// A RunCallback is a free callback binding that a sequence invokes with
// the run handle. Bindings close over their target; the sequence never
// owns the target's lifetime.
type RunCallback func(run *Run) error

// A RunActionSequence fans out begin-of-run and end-of-run notifications
// to all of its registered receivers: first the free callbacks, then the
// adopted actions, each group in registration order.
//
// The whole fan-out runs under the sequence's own lock, so dispatching on
// one sequence instance is atomic with respect to other fibers
// dispatching on the same instance. The lock does not protect the
// internal state of individual actions; actions shared between fibers
// must be wrapped in a SharedRunAction.
//
// Registration (Adopt, CallAtBegin, CallAtEnd) is a configuration-time
// operation. It must complete before the run loop starts and must not
// overlap with dispatch.
type RunActionSequence struct {
	RunActionBase

	dispatchLock sync.Mutex

	beginCallbacks []RunCallback
	endCallbacks   []RunCallback

	actions     []RunAction
	actionIndex map[string]int
}

// NewRunActionSequence creates an empty sequence.
func NewRunActionSequence(ctx *Context, name string) *RunActionSequence {
	return &RunActionSequence{
		RunActionBase: NewRunActionBase(ctx, name),
		actionIndex:   make(map[string]int),
	}
}

// Adopt takes ownership of an action and appends it to the sequence. The
// sequence keeps adopted actions forever; their position never changes
// after adoption. Adopting a nil action or an action whose name collides
// with an already adopted one is a wiring bug and panics.
func (s *RunActionSequence) Adopt(action RunAction) {
	if action == nil {
		panic("sequence " + s.Name() + ": cannot adopt a nil action")
	}

	if _, exists := s.actionIndex[action.Name()]; exists {
		panic("sequence " + s.Name() +
			": action " + action.Name() + " already adopted")
	}

	s.actions = append(s.actions, action)
	s.actionIndex[action.Name()] = len(s.actions) - 1
}

// CallAtBegin registers a callback to be invoked at begin-of-run, before
// any adopted action runs. The target captured by the callback must
// outlive the sequence.
func (s *RunActionSequence) CallAtBegin(cb RunCallback) {
	if cb == nil {
		panic("sequence " + s.Name() + ": cannot register a nil callback")
	}

	s.beginCallbacks = append(s.beginCallbacks, cb)
}

// CallAtEnd registers a callback to be invoked at end-of-run, before any
// adopted action runs.
func (s *RunActionSequence) CallAtEnd(cb RunCallback) {
	if cb == nil {
		panic("sequence " + s.Name() + ": cannot register a nil callback")
	}

	s.endCallbacks = append(s.endCallbacks, cb)
}

// Get returns the adopted action with the given name. Ownership stays
// with the sequence.
func (s *RunActionSequence) Get(name string) (RunAction, bool) {
	i, ok := s.actionIndex[name]
	if !ok {
		return nil, false
	}

	return s.actions[i], true
}

// NumActions returns the number of adopted actions.
func (s *RunActionSequence) NumActions() int {
	return len(s.actions)
}

// UpdateContext propagates a new execution context to the sequence and to
// every adopted action.
func (s *RunActionSequence) UpdateContext(ctx *Context) {
	s.RunActionBase.UpdateContext(ctx)

	for _, a := range s.actions {
		a.UpdateContext(ctx)
	}
}

// ConfigureFiber prepares the sequence and every adopted action for use
// in a newly spawned worker fiber.
func (s *RunActionSequence) ConfigureFiber(ctx *Context) {
	s.RunActionBase.ConfigureFiber(ctx)

	for _, a := range s.actions {
		a.ConfigureFiber(ctx)
	}
}

// Begin dispatches the begin-of-run notification: every begin callback in
// registration order, then every adopted action's Begin in adoption
// order, all under the sequence lock.
//
// Dispatch fails fast: the first handler error stops the fan-out and is
// returned to the caller after the lock is released. Handlers later in
// the order are not invoked for that run boundary.
func (s *RunActionSequence) Begin(run *Run) error {
	s.dispatchLock.Lock()
	defer s.dispatchLock.Unlock()

	for i, cb := range s.beginCallbacks {
		if err := cb(run); err != nil {
			return fmt.Errorf("sequence %s: begin callback %d: %w",
				s.Name(), i, err)
		}
	}

	for _, a := range s.actions {
		if err := a.Begin(run); err != nil {
			return fmt.Errorf("sequence %s: action %s: begin: %w",
				s.Name(), a.Name(), err)
		}
	}

	return nil
}

// End dispatches the end-of-run notification with the same ordering,
// locking, and fail-fast policy as Begin.
func (s *RunActionSequence) End(run *Run) error {
	s.dispatchLock.Lock()
	defer s.dispatchLock.Unlock()

	for i, cb := range s.endCallbacks {
		if err := cb(run); err != nil {
			return fmt.Errorf("sequence %s: end callback %d: %w",
				s.Name(), i, err)
		}
	}

	for _, a := range s.actions {
		if err := a.End(run); err != nil {
			return fmt.Errorf("sequence %s: action %s: end: %w",
				s.Name(), a.Name(), err)
		}
	}

	return nil
}
