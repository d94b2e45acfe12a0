package sim

// A Run represents one bounded series of generated events. The kernel
// creates a Run before dispatching the begin-of-run notification and
// keeps it alive until the matching end-of-run notification returns.
//
// Run handles are read-only for actions. An action that needs run
// information after the end-of-run callback must copy the fields out.
type Run struct {
	// ID is a globally unique identifier of the run.
	ID string

	// Number is the sequential number of the run, starting from 0.
	Number int

	// NumEvents is the number of events the run is going to generate.
	NumEvents int
}

// NewRun creates a run with the given sequential number and event count.
func NewRun(number, numEvents int) *Run {
	return &Run{
		ID:        GetIDGenerator().Generate(),
		Number:    number,
		NumEvents: numEvents,
	}
}
