package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadRemovesMean(t *testing.T) {
	p := Pad([]float64{2, 4, 6})
	assert.Len(t, p, 4)
	assert.InDeltaSlice(t, []float64{-2, 0, 2, 0}, p, 1e-12)
}

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0})
	for _, c := range out {
		assert.InDelta(t, 1.0, real(c), 1e-12)
		assert.InDelta(t, 0.0, imag(c), 1e-12)
	}
}

func TestFFTPanicsOnOddLength(t *testing.T) {
	assert.Panics(t, func() { FFT([]float64{1, 2, 3}) })
}

func TestDominantFindsSway(t *testing.T) {
	// A 2 Hz sway sampled every 1000/64 ms for 4 s.
	const sampleMs = 1000.0 / 64
	data := make([]float64, 256)
	for i := range data {
		ts := float64(i) * sampleMs / 1000
		data[i] = 300 + 12*math.Sin(2*math.Pi*2*ts)
	}

	hz, power := Dominant(data, sampleMs)
	assert.InDelta(t, 2.0, hz, 0.01)
	assert.Greater(t, power, 0.0)
}

func TestDominantFlat(t *testing.T) {
	hz, power := Dominant([]float64{5, 5, 5, 5, 5}, 16)
	assert.Zero(t, hz)
	assert.Zero(t, power)
}

func TestSettle(t *testing.T) {
	data := []float64{0, 10, -5, 3, 1.2, 0.9, 1.1, 1}
	assert.Equal(t, 4, Settle(data, 0.25))
	assert.Equal(t, 0, Settle([]float64{1, 1, 1}, 0.1))
	assert.Equal(t, -1, Settle(nil, 0.1))
}
