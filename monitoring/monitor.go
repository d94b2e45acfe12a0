// Package monitoring turns a running simulation into a small web server
// so that the progress of the run loop and the registered actions can be
// inspected from outside the process.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/detsimlab/dsim/sim"
)

// A Kernel provides the state that the monitor exposes.
type Kernel interface {
	ID() string
	TotalRuns() int
	RunsCompleted() int
	EventsGenerated() int
	SharedActions() []sim.RunAction
}

// Monitor can turn a simulation into a server and allows external
// monitoring of the simulation.
type Monitor struct {
	kernel     Kernel
	portNumber int
	url        string
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterKernel registers the kernel that is being monitored.
func (m *Monitor) RegisterKernel(k Kernel) {
	m.kernel = k
}

// URL returns the address the monitoring server listens on. It is empty
// before StartServer is called.
func (m *Monitor) URL() string {
	return m.url
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/list_actions", m.listActions)
	r.HandleFunc("/api/action/{name}", m.listActionDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()
}

// OpenDashboard opens the monitoring server in the system browser.
func (m *Monitor) OpenDashboard() {
	if m.url == "" {
		panic("cannot open the dashboard before the server started")
	}

	err := browser.OpenURL(m.url + "/api/progress")
	dieOnErr(err)
}

type progressRsp struct {
	KernelID        string `json:"kernel_id"`
	TotalRuns       int    `json:"total_runs"`
	RunsCompleted   int    `json:"runs_completed"`
	EventsGenerated int    `json:"events_generated"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	rsp := progressRsp{
		KernelID:        m.kernel.ID(),
		TotalRuns:       m.kernel.TotalRuns(),
		RunsCompleted:   m.kernel.RunsCompleted(),
		EventsGenerated: m.kernel.EventsGenerated(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listActions(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, a := range m.kernel.SharedActions() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", a.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listActionDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	action := m.findActionOr404(w, name)
	if action == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(action)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findActionOr404(
	w http.ResponseWriter,
	name string,
) sim.RunAction {
	for _, a := range m.kernel.SharedActions() {
		if a.Name() == name {
			return a
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Action not found"))
	dieOnErr(err)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
