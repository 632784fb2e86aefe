package dynamo

import "math/rand"

// Rand is the subset of *rand.Rand the engine draws from.
type Rand interface {
	Float64() float64
}

func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform returns a value in [-amp, amp).
func Uniform(rng Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}

// Between returns a value in [lo, hi).
func Between(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
