package integrators

import (
	"testing"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
)

func benchRope(b *testing.B) *physics.Rope {
	b.Helper()
	r, err := physics.New(dynamo.V(0, 0), dynamo.V(400, 120), 25)
	if err != nil {
		b.Fatal(err)
	}
	return r
}

func BenchmarkVerlet(b *testing.B) {
	r := benchRope(b)
	v := NewVerlet(0.4, 0.96, 0.2, dynamo.NewRand(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Step(r)
	}
}

func BenchmarkVerletRelease(b *testing.B) {
	r := benchRope(b)
	v := NewVerlet(0.4, 0.96, 0.2, dynamo.NewRand(1))
	rl := NewRelease(dynamo.V(200, 60))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.StepRelease(r, rl, 0.5)
	}
}

func BenchmarkVerletWithRelax(b *testing.B) {
	r := benchRope(b)
	v := NewVerlet(0.4, 0.96, 0.2, dynamo.NewRand(1))
	rx := physics.NewRelaxer(12, physics.LinearRamp(0.45, 0.8))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Step(r)
		rx.Relax(r, rx.Iterations)
	}
}
