package kernel

import (
	"github.com/detsimlab/dsim/datarecording"
	"github.com/detsimlab/dsim/monitoring"
	"github.com/detsimlab/dsim/sim"
)

// Builder can be used to build a kernel.
type Builder struct {
	numWorkers   int
	numRuns      int
	eventsPerRun int

	monitorOn      bool
	monitorPort    int
	outputFileName string
}

// MakeBuilder creates a builder with the default parameters: one worker
// fiber, one run, no events, monitoring on.
func MakeBuilder() Builder {
	return Builder{
		numWorkers: 1,
		numRuns:    1,
		monitorOn:  true,
	}
}

// WithWorkers sets the number of worker fibers.
func (b Builder) WithWorkers(n int) Builder {
	b.numWorkers = n
	return b
}

// WithRuns sets the total number of runs to execute.
func (b Builder) WithRuns(n int) Builder {
	b.numRuns = n
	return b
}

// WithEventsPerRun sets the number of events each run generates.
func (b Builder) WithEventsPerRun(n int) Builder {
	b.eventsPerRun = n
	return b
}

// WithoutMonitoring sets the kernel to not start a monitoring server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the custom output file name for the data
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.numWorkers < 1 {
		panic("a kernel needs at least one worker fiber")
	}

	if b.numRuns < 0 {
		panic("the number of runs cannot be negative")
	}

	if b.eventsPerRun < 0 {
		panic("the number of events per run cannot be negative")
	}

	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the kernel.
func (b Builder) Build() *Kernel {
	b.parametersMustBeValid()

	k := &Kernel{
		numWorkers:        b.numWorkers,
		numRuns:           b.numRuns,
		eventsPerRun:      b.eventsPerRun,
		sharedActionIndex: make(map[string]int),
	}

	k.id = sim.GetIDGenerator().Generate()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "dsim_" + k.id
	}
	k.dataRecorder = datarecording.New(outputPath)

	if b.monitorOn {
		k.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			k.monitor.WithPortNumber(b.monitorPort)
		}
		k.monitor.RegisterKernel(k)
		k.monitor.StartServer()
	}

	return k
}
