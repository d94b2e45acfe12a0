package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/detsimlab/dsim/sim"
)

// capturingRecorder is a test double that keeps inserted entries in
// memory.
type capturingRecorder struct {
	tables  []string
	entries map[string][]any
}

func newCapturingRecorder() *capturingRecorder {
	return &capturingRecorder{entries: make(map[string][]any)}
}

func (r *capturingRecorder) CreateTable(tableName string, _ any) {
	r.tables = append(r.tables, tableName)
}

func (r *capturingRecorder) InsertData(tableName string, entry any) {
	r.entries[tableName] = append(r.entries[tableName], entry)
}

func (r *capturingRecorder) ListTables() []string {
	return r.tables
}

func (r *capturingRecorder) Flush() {}

func (r *capturingRecorder) Close() {}

var _ = Describe("RunTracer", func() {
	var (
		recorder *capturingRecorder
		tracer   *RunTracer
	)

	BeforeEach(func() {
		recorder = newCapturingRecorder()
		tracer = NewRunTracer(nil, "RunTracer", recorder)
	})

	It("should create the trace table on construction", func() {
		Expect(recorder.ListTables()).To(ContainElement("run_trace"))
	})

	It("should record one row per completed run", func() {
		run := sim.NewRun(3, 500)

		Expect(tracer.Begin(run)).To(Succeed())
		Expect(tracer.NumInflightRuns()).To(Equal(1))

		Expect(tracer.End(run)).To(Succeed())
		Expect(tracer.NumInflightRuns()).To(Equal(0))

		rows := recorder.entries["run_trace"]
		Expect(rows).To(HaveLen(1))

		entry := rows[0].(runTableEntry)
		Expect(entry.RunID).To(Equal(run.ID))
		Expect(entry.RunNumber).To(Equal(3))
		Expect(entry.NumEvents).To(Equal(500))
		Expect(entry.EndTime).To(BeNumerically(">=", entry.StartTime))
	})

	It("should reject a run that begins twice", func() {
		run := sim.NewRun(0, 10)

		Expect(tracer.Begin(run)).To(Succeed())
		Expect(tracer.Begin(run)).To(HaveOccurred())
	})

	It("should reject a run that ends without beginning", func() {
		run := sim.NewRun(0, 10)

		Expect(tracer.End(run)).To(HaveOccurred())
		Expect(recorder.entries["run_trace"]).To(BeEmpty())
	})

	It("should panic without a recorder", func() {
		Expect(func() { NewRunTracer(nil, "RunTracer", nil) }).To(Panic())
	})
})
