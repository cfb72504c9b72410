package optimization

import (
	"math"
	"math/rand"
	"testing"
)

// quadraticObjective is a smooth test objective with its minimum at the
// origin.
func quadraticObjective(x []float64) (float64, error) {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

// randomAngles draws n angles uniform over [0, 2*pi).
func randomAngles(rng *rand.Rand, n int) []float64 {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	return angles
}

// assertStatesClose fails the test when two amplitude vectors differ by more
// than tol in any component.
func assertStatesClose(t *testing.T, got, want []complex128, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("dimension mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := got[i] - want[i]; math.Hypot(real(d), imag(d)) > tol {
			t.Fatalf("at amplitude %d: got %v, want %v (tolerance %v)", i, got[i], want[i], tol)
		}
	}
}
