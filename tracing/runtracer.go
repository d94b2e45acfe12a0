// Package tracing records the boundaries of simulation runs so that the
// timing of a simulation can be inspected after it completes.
package tracing

import (
	"fmt"
	"sync"
	"time"

	"github.com/detsimlab/dsim/datarecording"
	"github.com/detsimlab/dsim/sim"
)

// runTableEntry is one row of the run trace table.
type runTableEntry struct {
	RunID     string
	RunNumber int
	NumEvents int
	StartTime float64
	EndTime   float64
}

// A RunTracer is a run action that records one row per run into a data
// recorder, with the wall-clock time of the run's begin and end
// boundaries.
//
// One tracer instance serves the whole simulation. Register it as a
// shared action; the sharing wrapper serializes the callbacks, and the
// tracer's own lock additionally protects it when used directly.
type RunTracer struct {
	sim.RunActionBase

	lock    sync.Mutex
	backend datarecording.DataRecorder

	inflightRuns map[string]runTableEntry
}

// NewRunTracer creates a tracer that writes to the given recorder.
func NewRunTracer(
	ctx *sim.Context,
	name string,
	backend datarecording.DataRecorder,
) *RunTracer {
	if backend == nil {
		panic("run tracer " + name + " needs a data recorder")
	}

	t := &RunTracer{
		RunActionBase: sim.NewRunActionBase(ctx, name),
		backend:       backend,
		inflightRuns:  make(map[string]runTableEntry),
	}

	t.backend.CreateTable("run_trace", runTableEntry{})

	return t
}

// Begin records the wall-clock start of a run.
func (t *RunTracer) Begin(run *sim.Run) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.inflightRuns[run.ID]; ok {
		return fmt.Errorf("run %s began twice", run.ID)
	}

	t.inflightRuns[run.ID] = runTableEntry{
		RunID:     run.ID,
		RunNumber: run.Number,
		NumEvents: run.NumEvents,
		StartTime: wallClockSeconds(),
	}

	return nil
}

// End completes the run's row and hands it to the recorder.
func (t *RunTracer) End(run *sim.Run) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	entry, ok := t.inflightRuns[run.ID]
	if !ok {
		return fmt.Errorf("run %s ended without beginning", run.ID)
	}

	delete(t.inflightRuns, run.ID)

	entry.EndTime = wallClockSeconds()
	t.backend.InsertData("run_trace", entry)

	return nil
}

// NumInflightRuns returns the number of runs that began but did not end
// yet.
func (t *RunTracer) NumInflightRuns() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.inflightRuns)
}

func wallClockSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
