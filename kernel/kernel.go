// Package kernel drives the run loop of a simulation. It owns the worker
// fibers, builds one run-action sequence per fiber, and dispatches the
// begin-of-run and end-of-run notifications through the sequences.
package kernel

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/detsimlab/dsim/datarecording"
	"github.com/detsimlab/dsim/monitoring"
	"github.com/detsimlab/dsim/sim"
)

// A ConfigureSequenceFunc populates the per-fiber run-action sequence
// during fiber setup. It runs once per worker fiber, before the fiber's
// first run; the context passed in belongs to that fiber.
type ConfigureSequenceFunc func(ctx *sim.Context, seq *sim.RunActionSequence)

// A Kernel owns the worker fibers of a simulation and the shared actions
// that serve all of them.
type Kernel struct {
	id string

	numWorkers   int
	numRuns      int
	eventsPerRun int

	configureSequence ConfigureSequenceFunc

	sharedActions     []sim.RunAction
	sharedActionIndex map[string]int

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor

	runsCompleted   int64
	eventsGenerated int64

	runLoopStarted bool
}

// ID returns the unique identifier of the kernel.
func (k *Kernel) ID() string {
	return k.id
}

// RegisterSharedAction registers an action that is shared by all worker
// fibers. Each fiber receives its own locking wrapper around the
// instance. Registration is a configuration-time operation; the name must
// be unique among shared actions.
func (k *Kernel) RegisterSharedAction(action sim.RunAction) {
	if action == nil {
		panic("cannot register a nil shared action")
	}

	k.registrationMustBeOpen()

	if _, exists := k.sharedActionIndex[action.Name()]; exists {
		panic("shared action " + action.Name() + " already registered")
	}

	k.sharedActions = append(k.sharedActions, action)
	k.sharedActionIndex[action.Name()] = len(k.sharedActions) - 1
}

// ConfigureSequence registers the function that populates each fiber's
// sequence with per-fiber actions and callbacks.
func (k *Kernel) ConfigureSequence(f ConfigureSequenceFunc) {
	k.registrationMustBeOpen()

	k.configureSequence = f
}

func (k *Kernel) registrationMustBeOpen() {
	if k.runLoopStarted {
		panic("cannot reconfigure the kernel after the run loop started")
	}
}

// GetSharedActionByName returns the registered shared action with the
// given name.
func (k *Kernel) GetSharedActionByName(name string) (sim.RunAction, bool) {
	i, ok := k.sharedActionIndex[name]
	if !ok {
		return nil, false
	}

	return k.sharedActions[i], true
}

// SharedActions returns all registered shared actions.
func (k *Kernel) SharedActions() []sim.RunAction {
	return k.sharedActions
}

// GetDataRecorder returns the data recorder used in the simulation.
func (k *Kernel) GetDataRecorder() datarecording.DataRecorder {
	return k.dataRecorder
}

// GetMonitor returns the monitor attached to the kernel, or nil when the
// kernel was built without monitoring.
func (k *Kernel) GetMonitor() *monitoring.Monitor {
	return k.monitor
}

// TotalRuns returns the number of runs the kernel is going to execute.
func (k *Kernel) TotalRuns() int {
	return k.numRuns
}

// RunsCompleted returns the number of runs whose end-of-run notification
// has finished.
func (k *Kernel) RunsCompleted() int {
	return int(atomic.LoadInt64(&k.runsCompleted))
}

// EventsGenerated returns the number of events generated so far.
func (k *Kernel) EventsGenerated() int {
	return int(atomic.LoadInt64(&k.eventsGenerated))
}

// Run executes all configured runs across the worker fibers and blocks
// until every fiber finishes. A handler failure aborts the failing
// fiber's run loop; the other fibers complete their own runs. All fiber
// errors are joined into the returned error.
func (k *Kernel) Run() error {
	k.runLoopStarted = true

	var wg sync.WaitGroup
	fiberErrs := make([]error, k.numWorkers)

	for i := 0; i < k.numWorkers; i++ {
		wg.Add(1)

		go func(workerIndex int) {
			defer wg.Done()

			fiberErrs[workerIndex] = k.runFiber(workerIndex)
		}(i)
	}

	wg.Wait()

	return errors.Join(fiberErrs...)
}

func (k *Kernel) runFiber(workerIndex int) error {
	ctx := sim.NewContext(workerIndex)
	seq := k.buildFiberSequence(ctx)

	for number := workerIndex; number < k.numRuns; number += k.numWorkers {
		run := sim.NewRun(number, k.eventsPerRun)

		if err := seq.Begin(run); err != nil {
			return err
		}

		k.generateEvents(run)

		if err := seq.End(run); err != nil {
			return err
		}

		atomic.AddInt64(&k.runsCompleted, 1)
	}

	return nil
}

func (k *Kernel) buildFiberSequence(ctx *sim.Context) *sim.RunActionSequence {
	seq := sim.NewRunActionSequence(ctx, "RunAction")

	for _, shared := range k.sharedActions {
		seq.Adopt(k.wrapSharedAction(ctx, shared))
	}

	if k.configureSequence != nil {
		k.configureSequence(ctx, seq)
	}

	seq.ConfigureFiber(ctx)

	return seq
}

// wrapSharedAction builds the per-fiber stand-in for a shared instance.
// Actions that implement sim.SharedAction choose their own wrapper type;
// everything else gets the default locking wrapper.
func (k *Kernel) wrapSharedAction(
	ctx *sim.Context,
	shared sim.RunAction,
) sim.RunAction {
	name := shared.Name() + ".shared"

	if sa, ok := shared.(sim.SharedAction); ok {
		return sa.Wrap(ctx, name)
	}

	wrapper := sim.NewSharedRunAction(ctx, name)
	wrapper.Use(shared)

	return wrapper
}

// generateEvents stands in for the per-event simulation loop. Event-level
// dispatch is outside the kernel's run-boundary responsibility; the
// kernel only accounts for the events a run produces.
func (k *Kernel) generateEvents(run *sim.Run) {
	atomic.AddInt64(&k.eventsGenerated, int64(run.NumEvents))
}

// Terminate releases the resources held by the kernel.
func (k *Kernel) Terminate() {
	if k.dataRecorder != nil {
		k.dataRecorder.Close()
	}
}
