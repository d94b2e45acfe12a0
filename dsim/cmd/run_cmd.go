package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/detsimlab/dsim/kernel"
	"github.com/detsimlab/dsim/sim"
	"github.com/detsimlab/dsim/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a demo simulation.",
	Long: `run executes a series of runs across worker fibers. Each fiber ` +
		`gets its own run-action sequence with a logging action; a shared ` +
		`geometry action and the run tracer serve all fibers through ` +
		`locking wrappers.`,
	Run: func(cmd *cobra.Command, _ []string) {
		numWorkers, _ := cmd.Flags().GetInt("workers")
		numRuns, _ := cmd.Flags().GetInt("runs")
		eventsPerRun, _ := cmd.Flags().GetInt("events")
		outputFileName, _ := cmd.Flags().GetString("output")
		noMonitor, _ := cmd.Flags().GetBool("no-monitor")
		openDashboard, _ := cmd.Flags().GetBool("open-dashboard")

		k := buildKernel(
			numWorkers, numRuns, eventsPerRun, outputFileName, noMonitor)
		defer k.Terminate()

		configureActions(k)

		if openDashboard && k.GetMonitor() != nil {
			k.GetMonitor().OpenDashboard()
		}

		if err := k.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("completed %d runs, %d events\n",
			k.RunsCompleted(), k.EventsGenerated())
	},
}

func buildKernel(
	numWorkers, numRuns, eventsPerRun int,
	outputFileName string,
	noMonitor bool,
) *kernel.Kernel {
	builder := kernel.MakeBuilder().
		WithWorkers(numWorkers).
		WithRuns(numRuns).
		WithEventsPerRun(eventsPerRun).
		WithOutputFileName(outputFileName)

	if noMonitor {
		builder = builder.WithoutMonitoring()
	} else if port := monitorPortFromEnv(); port > 0 {
		builder = builder.WithMonitorPort(port)
	}

	return builder.Build()
}

// monitorPortFromEnv reads DSIM_MONITOR_PORT from the environment, with a
// .env file as fallback.
func monitorPortFromEnv() int {
	_ = godotenv.Load()

	portStr := os.Getenv("DSIM_MONITOR_PORT")
	if portStr == "" {
		return 0
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid DSIM_MONITOR_PORT %q\n", portStr)
		return 0
	}

	return port
}

func configureActions(k *kernel.Kernel) {
	k.RegisterSharedAction(newGeometryAction())
	k.RegisterSharedAction(
		tracing.NewRunTracer(nil, "RunTracer", k.GetDataRecorder()))

	k.ConfigureSequence(
		func(ctx *sim.Context, seq *sim.RunActionSequence) {
			seq.Adopt(newLogRunAction(ctx))
		})
}

// geometryAction stands in for a heavyweight shared resource, e.g. a
// detector geometry that is too expensive to replicate per fiber.
type geometryAction struct {
	sim.RunActionBase

	runsServed int
}

func newGeometryAction() *geometryAction {
	return &geometryAction{
		RunActionBase: sim.NewRunActionBase(nil, "GeometryLoader"),
	}
}

func (a *geometryAction) Begin(_ *sim.Run) error {
	// The sharing lock is held while this runs; keep it short.
	time.Sleep(time.Millisecond)
	a.runsServed++
	return nil
}

// logRunAction logs both run boundaries through the fiber's logger.
type logRunAction struct {
	sim.RunActionBase
}

func newLogRunAction(ctx *sim.Context) *logRunAction {
	return &logRunAction{
		RunActionBase: sim.NewRunActionBase(ctx, "LogRun"),
	}
}

func (a *logRunAction) Begin(run *sim.Run) error {
	a.Logf("begin of run %d (%d events)", run.Number, run.NumEvents)
	return nil
}

func (a *logRunAction) End(run *sim.Run) error {
	a.Logf("end of run %d", run.Number)
	return nil
}

func init() {
	runCmd.Flags().Int("workers", 4, "number of worker fibers")
	runCmd.Flags().Int("runs", 10, "number of runs to execute")
	runCmd.Flags().Int("events", 1000, "number of events per run")
	runCmd.Flags().String("output", "", "output file name for the recorder")
	runCmd.Flags().Bool("no-monitor", false, "disable the monitoring server")
	runCmd.Flags().Bool("open-dashboard", false,
		"open the monitoring dashboard in the browser")

	rootCmd.AddCommand(runCmd)
}
