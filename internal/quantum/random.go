package quantum

import (
	"math"
	"math/rand"
)

// RandomSuperposition draws a Haar-like random unit vector of the given
// dimension: independent complex-Gaussian amplitudes, normalized. The caller
// supplies the generator, so a fixed seed reproduces the same target.
func RandomSuperposition(rng *rand.Rand, dim int) []complex128 {
	if dim < 1 {
		return nil
	}

	amps := make([]complex128, dim)
	sum := 0.0
	for i := range amps {
		re := rng.NormFloat64()
		im := rng.NormFloat64()
		amps[i] = complex(re, im)
		sum += re*re + im*im
	}

	// A zero vector is possible only with probability zero; guard anyway.
	if sum == 0 {
		amps[0] = 1
		return amps
	}

	norm := complex(1/math.Sqrt(sum), 0)
	for i := range amps {
		amps[i] *= norm
	}
	return amps
}
