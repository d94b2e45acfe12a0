package kernel

import (
	"errors"
	"os"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/detsimlab/dsim/sim"
)

// countingAction counts callbacks and flags overlapping invocations.
type countingAction struct {
	sim.RunActionBase

	inFlight   int32
	overlapped int32
	numBegin   int32
	numEnd     int32
}

func newCountingAction(name string) *countingAction {
	return &countingAction{RunActionBase: sim.NewRunActionBase(nil, name)}
}

func (a *countingAction) enter() {
	if atomic.AddInt32(&a.inFlight, 1) > 1 {
		atomic.StoreInt32(&a.overlapped, 1)
	}
}

func (a *countingAction) leave() {
	atomic.AddInt32(&a.inFlight, -1)
}

func (a *countingAction) Begin(_ *sim.Run) error {
	a.enter()
	defer a.leave()

	atomic.AddInt32(&a.numBegin, 1)
	return nil
}

func (a *countingAction) End(_ *sim.Run) error {
	a.enter()
	defer a.leave()

	atomic.AddInt32(&a.numEnd, 1)
	return nil
}

// failingAction fails its begin-of-run callback.
type failingAction struct {
	sim.RunActionBase
}

func (a *failingAction) Begin(_ *sim.Run) error {
	return errors.New("calibration data missing")
}

var _ = Describe("Kernel", func() {
	var k *Kernel

	AfterEach(func() {
		if k != nil {
			k.Terminate()
			os.Remove("dsim_" + k.ID() + ".sqlite3")
			k = nil
		}
	})

	It("should execute every run on a single worker", func() {
		k = MakeBuilder().
			WithoutMonitoring().
			WithRuns(5).
			WithEventsPerRun(100).
			Build()

		counting := newCountingAction("Counting")
		k.ConfigureSequence(
			func(_ *sim.Context, seq *sim.RunActionSequence) {
				seq.Adopt(counting)
			})

		Expect(k.Run()).To(Succeed())

		Expect(k.RunsCompleted()).To(Equal(5))
		Expect(k.EventsGenerated()).To(Equal(500))
		Expect(counting.numBegin).To(Equal(int32(5)))
		Expect(counting.numEnd).To(Equal(int32(5)))
	})

	It("should serialize a shared action across workers", func() {
		k = MakeBuilder().
			WithoutMonitoring().
			WithWorkers(4).
			WithRuns(40).
			WithEventsPerRun(10).
			Build()

		shared := newCountingAction("Heavy")
		k.RegisterSharedAction(shared)

		Expect(k.Run()).To(Succeed())

		Expect(k.RunsCompleted()).To(Equal(40))
		Expect(shared.numBegin).To(Equal(int32(40)))
		Expect(shared.numEnd).To(Equal(int32(40)))
		Expect(shared.overlapped).To(Equal(int32(0)))
	})

	It("should panic on duplicated shared action names", func() {
		k = MakeBuilder().WithoutMonitoring().Build()

		k.RegisterSharedAction(newCountingAction("Heavy"))

		Expect(func() {
			k.RegisterSharedAction(newCountingAction("Heavy"))
		}).To(Panic())
	})

	It("should find shared actions by name", func() {
		k = MakeBuilder().WithoutMonitoring().Build()

		shared := newCountingAction("Heavy")
		k.RegisterSharedAction(shared)

		found, ok := k.GetSharedActionByName("Heavy")
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(shared))

		_, ok = k.GetSharedActionByName("Missing")
		Expect(ok).To(BeFalse())
	})

	It("should surface handler failures from the run loop", func() {
		k = MakeBuilder().
			WithoutMonitoring().
			WithRuns(3).
			Build()

		k.ConfigureSequence(
			func(ctx *sim.Context, seq *sim.RunActionSequence) {
				seq.Adopt(&failingAction{
					RunActionBase: sim.NewRunActionBase(ctx, "Failing"),
				})
			})

		err := k.Run()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("calibration data missing"))
		Expect(k.RunsCompleted()).To(Equal(0))
	})

	It("should refuse reconfiguration after the run loop started", func() {
		k = MakeBuilder().WithoutMonitoring().WithRuns(0).Build()

		Expect(k.Run()).To(Succeed())

		Expect(func() {
			k.RegisterSharedAction(newCountingAction("Late"))
		}).To(Panic())
	})
})

var _ = Describe("Builder", func() {
	It("should reject a worker count below one", func() {
		Expect(func() {
			MakeBuilder().WithoutMonitoring().WithWorkers(0).Build()
		}).To(Panic())
	})

	It("should reject a monitor port without monitoring", func() {
		Expect(func() {
			MakeBuilder().WithoutMonitoring().WithMonitorPort(8080).Build()
		}).To(Panic())
	})

	It("should use the custom output file name", func() {
		k := MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName("test_custom_output").
			Build()
		defer func() {
			k.Terminate()
			os.Remove("test_custom_output.sqlite3")
		}()

		Expect(k.GetDataRecorder()).ToNot(BeNil())
	})
})
