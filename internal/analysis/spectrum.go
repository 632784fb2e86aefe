package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform. len(data) must be a power of two; use Pad.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// Pad removes the mean and zero-fills to the next power of two, so a rope
// hanging off-center does not swamp the spectrum with a DC spike.
func Pad(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}
	return padded
}

// PowerSpectrum returns the magnitudes of the lower half of the transform of
// the padded column.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(Pad(data))
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Dominant finds the strongest non-DC bin. sampleMs is the time between
// samples. A flat column reports 0 Hz.
func Dominant(data []float64, sampleMs float64) (hz float64, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleMs <= 0 {
		return 0, 0
	}

	idx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			idx = i
		}
	}
	if idx == 0 || power < 1e-9 {
		return 0, 0
	}

	n := float64(2 * len(ps))
	return float64(idx) * 1000 / (n * sampleMs), power
}

// Settle returns the first index after which every sample stays within band
// of the final value, or -1 for an empty column.
func Settle(data []float64, band float64) int {
	if len(data) == 0 {
		return -1
	}
	final := data[len(data)-1]
	for i := len(data) - 1; i >= 0; i-- {
		if math.Abs(data[i]-final) > band {
			return i + 1
		}
	}
	return 0
}
