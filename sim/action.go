package sim

import (
	"log"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// An Action is a named handler object that reacts to framework lifecycle
// notifications. Concrete actions embed ActionBase and override only the
// hooks they care about.
type Action interface {
	Named

	// UpdateContext replaces the execution context of the action.
	UpdateContext(ctx *Context)

	// ConfigureFiber prepares the action for use in a newly spawned worker
	// fiber. The default implementation only updates the context.
	ConfigureFiber(ctx *Context)
}

// ActionBase provides the naming, context, and logging services that all
// actions share.
type ActionBase struct {
	name string
	ctx  *Context
}

// NewActionBase creates an ActionBase with the given context and name.
func NewActionBase(ctx *Context, name string) *ActionBase {
	NameMustBeValid(name)

	return &ActionBase{name: name, ctx: ctx}
}

// NameMustBeValid panics if the name cannot identify an action.
func NameMustBeValid(name string) {
	if name == "" {
		log.Panic("action name must not be empty")
	}
}

// Name returns the name of the action.
func (a *ActionBase) Name() string {
	return a.name
}

// Context returns the execution context the action currently operates in.
func (a *ActionBase) Context() *Context {
	return a.ctx
}

// UpdateContext replaces the execution context of the action.
func (a *ActionBase) UpdateContext(ctx *Context) {
	a.ctx = ctx
}

// ConfigureFiber prepares the action for use in a new worker fiber.
func (a *ActionBase) ConfigureFiber(ctx *Context) {
	a.ctx = ctx
}

// Logf writes a message to the context logger, prefixed with the action
// name. Actions created without a context log to the standard logger.
func (a *ActionBase) Logf(format string, args ...interface{}) {
	if a.ctx == nil {
		log.Printf("["+a.name+"] "+format, args...)
		return
	}

	a.ctx.Logger().Printf("["+a.name+"] "+format, args...)
}
