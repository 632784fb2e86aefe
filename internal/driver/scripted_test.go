package driver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropesim/internal/driver"
	"github.com/san-kum/ropesim/internal/dynamo"
)

const frameMs = 1000.0 / 60.0

// runUntil advances d frame by frame until cond holds or limit ms pass.
func runUntil(d *driver.Scripted, now *float64, rng dynamo.Rand, limit float64, cond func(driver.Frame) bool) (driver.Frame, bool) {
	end := *now + limit
	for *now < end {
		*now += frameMs
		f := d.Advance(driver.Tick{Now: *now, Rand: rng})
		if cond(f) {
			return f, true
		}
	}
	return driver.Frame{}, false
}

var _ = Describe("Scripted", func() {
	var (
		d   *driver.Scripted
		rng dynamo.Rand
		now float64
	)

	BeforeEach(func() {
		d = driver.NewScripted(100, 500, 300, 100)
		rng = dynamo.NewRand(42)
		now = 0
	})

	It("starts waiting at its initial position", func() {
		f := d.Advance(driver.Tick{Now: 0, Rand: rng})
		Expect(d.State()).To(Equal(driver.Waiting))
		Expect(f.Pos).To(Equal(dynamo.V(100, 300)))
		Expect(f.Impulse).To(Equal(dynamo.Vec2{}))
	})

	It("starts moving within the pre-settle wait range", func() {
		d.Advance(driver.Tick{Now: 0, Rand: rng})
		_, ok := runUntil(d, &now, rng, 1600+frameMs, func(driver.Frame) bool {
			return d.State() == driver.Moving
		})
		Expect(ok).To(BeTrue())
		Expect(now).To(BeNumerically(">", 400))
	})

	It("heads for the opposite end of the rail", func() {
		d.Advance(driver.Tick{Now: 0, Rand: rng})
		runUntil(d, &now, rng, 2000, func(driver.Frame) bool { return d.State() == driver.Moving })
		Expect(d.Target()).To(Equal(dynamo.V(500, 300)))
	})

	It("snaps to the target and emits a whiplash impulse on arrival", func() {
		d.Advance(driver.Tick{Now: 0, Rand: rng})
		runUntil(d, &now, rng, 2000, func(driver.Frame) bool { return d.State() == driver.Moving })

		var last dynamo.Vec2
		f, ok := runUntil(d, &now, rng, 2400+frameMs, func(f driver.Frame) bool {
			if d.State() == driver.Moving {
				last = f.Pos
				return false
			}
			return true
		})
		Expect(ok).To(BeTrue())
		Expect(f.Pos).To(Equal(dynamo.V(500, 300)))
		Expect(d.State()).To(Equal(driver.Waiting))

		want := dynamo.V(500, 300).Sub(last).Scale(driver.DefaultWhiplashGain)
		Expect(f.Impulse.X).To(BeNumerically("~", want.X, 1e-9))
		Expect(f.Impulse.X).To(BeNumerically(">", 0))
	})

	It("returns along the rail on the following cycle", func() {
		d.Advance(driver.Tick{Now: 0, Rand: rng})
		arrivals := 0
		runUntil(d, &now, rng, 20000, func(f driver.Frame) bool {
			if f.Impulse != (dynamo.Vec2{}) {
				arrivals++
			}
			return arrivals == 2
		})
		Expect(arrivals).To(Equal(2))
		Expect(d.Rest()).To(Equal(dynamo.V(100, 300)))
	})

	It("suppresses transitions while releasing", func() {
		d.Advance(driver.Tick{Now: 0, Rand: rng})
		for now = 0; now < 5000; now += frameMs {
			d.Advance(driver.Tick{Now: now, Releasing: true, Rand: rng})
			Expect(d.State()).To(Equal(driver.Waiting))
		}
		// The wait restarts once the window closes.
		d.Advance(driver.Tick{Now: now, Rand: rng})
		Expect(d.State()).To(Equal(driver.Waiting))
	})

	It("adds bounded jitter to the emitted position only", func() {
		d.Jitter = 0.5
		for i := 0; i < 100; i++ {
			f := d.Advance(driver.Tick{Now: float64(i) * frameMs, Rand: rng, Releasing: true})
			Expect(math.Abs(f.Pos.X - 100)).To(BeNumerically("<=", 0.5))
			Expect(math.Abs(f.Pos.Y - 300)).To(BeNumerically("<=", 0.5))
			Expect(d.Rest()).To(Equal(dynamo.V(100, 300)))
		}
	})

	It("keeps its state across a resize", func() {
		d.Advance(driver.Tick{Now: 0, Rand: rng})
		runUntil(d, &now, rng, 2000, func(driver.Frame) bool { return d.State() == driver.Moving })
		d.SetBounds(50, 800, 400)
		Expect(d.State()).To(Equal(driver.Moving))
		Expect(d.Target()).To(Equal(dynamo.V(500, 300)))
	})
})

var _ = Describe("Ease", func() {
	It("is a quartic curve before the wobble window", func() {
		for _, t := range []float64{0, 0.25, 0.5, 0.9} {
			Expect(driver.Ease(t)).To(BeNumerically("~", math.Pow(t, 4), 1e-12))
		}
	})

	It("lands exactly on 1", func() {
		Expect(driver.Ease(1)).To(BeNumerically("~", 1, 1e-12))
	})

	It("wobbles by at most the wobble amplitude", func() {
		for t := 0.9; t <= 1; t += 0.005 {
			Expect(math.Abs(driver.Ease(t) - math.Pow(t, 4))).To(BeNumerically("<=", 0.01))
		}
	})
})
