package sim

// A RunAction is called once at the start and once at the end of a run,
// i.e. a bounded series of generated events. The two callbacks allow
// clients to define run-dependent behavior such as opening output streams
// at begin-of-run and summarizing at end-of-run.
type RunAction interface {
	Action

	// Begin is the begin-of-run callback.
	Begin(run *Run) error

	// End is the end-of-run callback.
	End(run *Run) error
}

// A SharedAction is an action that can serve multiple worker fibers
// through a locking wrapper. The kernel consults Wrap when it needs a
// per-fiber stand-in for a single shared instance.
type SharedAction interface {
	RunAction

	// Wrap returns the per-fiber wrapper that forwards to this action
	// under the sharing lock.
	Wrap(ctx *Context, name string) RunAction
}

// RunActionBase provides no-op implementations of both run callbacks.
// Concrete run actions embed it and override only the hooks they need.
type RunActionBase struct {
	ActionBase
}

// NewRunActionBase creates a RunActionBase with the given context and name.
func NewRunActionBase(ctx *Context, name string) RunActionBase {
	return RunActionBase{ActionBase: *NewActionBase(ctx, name)}
}

// Begin is the begin-of-run callback. The default does nothing.
func (a *RunActionBase) Begin(_ *Run) error {
	return nil
}

// End is the end-of-run callback. The default does nothing.
func (a *RunActionBase) End(_ *Run) error {
	return nil
}
