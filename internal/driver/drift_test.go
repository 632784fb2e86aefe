package driver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
)

var _ = Describe("Drift", func() {
	It("sits at its base at t=0 with zero phase", func() {
		d := &driver.Drift{Base: dynamo.V(10, 20), SwayAmp: 5, SwayFreq: 0.001, BobAmp: 8, BobFreq: 0.002}
		Expect(d.At(0)).To(Equal(dynamo.V(10, 20)))
	})

	It("shares the sway term across nodes", func() {
		a := &driver.Drift{Base: dynamo.V(0, 0), SwayAmp: 5, SwayFreq: 0.001, BobAmp: 8, BobFreq: 0.002, Phase: 0}
		b := &driver.Drift{Base: dynamo.V(100, 0), SwayAmp: 5, SwayFreq: 0.001, BobAmp: 8, BobFreq: 0.002, Phase: 1.3}
		for _, now := range []float64{0, 250, 1234, 9000} {
			Expect(a.At(now).X - a.Base.X).To(BeNumerically("~", b.At(now).X-b.Base.X, 1e-12))
		}
	})

	It("stays within its bob amplitude", func() {
		d := &driver.Drift{Base: dynamo.V(0, 0), BobAmp: 8, BobFreq: 0.003, Phase: 0.4}
		for now := 0.0; now < 10000; now += 16 {
			Expect(math.Abs(d.At(now).Y)).To(BeNumerically("<=", 8+1e-9))
		}
	})

	It("is a pure function of time", func() {
		d := &driver.Drift{Base: dynamo.V(3, 4), SwayAmp: 2, SwayFreq: 0.0007, BobAmp: 6, BobFreq: 0.0021, Phase: 2}
		Expect(d.Advance(driver.Tick{Now: 777}).Pos).To(Equal(d.At(777)))
	})
})

var _ = Describe("DwellEase", func() {
	DescribeTable("maps the unit interval onto itself with odd symmetry",
		func(s, want float64) {
			Expect(driver.DwellEase(s)).To(BeNumerically("~", want, 1e-12))
		},
		Entry("zero", 0.0, 0.0),
		Entry("top", 1.0, 1.0),
		Entry("bottom", -1.0, -1.0),
		Entry("half", 0.5, 1-math.Pow(0.5, 2.8)),
		Entry("negative half", -0.5, -(1 - math.Pow(0.5, 2.8))),
	)

	It("lingers near the extremes", func() {
		Expect(driver.DwellEase(0.8)).To(BeNumerically(">", 0.95))
	})
})
