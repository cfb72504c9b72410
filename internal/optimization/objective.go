package optimization

import (
	"math"
	"math/cmplx"

	"github.com/copyleftdev/QPREP/internal/errors"
)

// NewDistanceObjective returns the objective for preparing target: the L2
// norm of (state - target) as a function of the parameter vector. The target
// dimension is validated once, up front; a mismatch is a configuration bug
// and fails with a dimension_mismatch error.
//
// Plain L2 distance is sensitive to the state's global phase. With
// phaseInvariant set, the objective becomes sqrt(1 - |<target|state>|^2),
// which is zero for any global-phase rotation of the target.
//
// The returned function is pure: no memoization, identical inputs give
// identical values.
func NewDistanceObjective(eval *Evaluator, target []complex128, phaseInvariant bool) (ObjectiveFunction, error) {
	if len(target) != eval.Dim() {
		return nil, errors.Newf(errors.KindDimensionMismatch,
			"target has dimension %d, circuit over %d qubits produces dimension %d",
			len(target), eval.qubits, eval.Dim()).
			WithComponent("optimization").WithOperation("objective")
	}

	if phaseInvariant {
		return func(params []float64) (float64, error) {
			state, err := eval.Evaluate(params)
			if err != nil {
				return 0, err
			}
			overlap := cmplx.Abs(state.Dot(target))
			// Rounding can push |<t|s>| marginally above 1.
			return math.Sqrt(math.Max(0, 1-overlap*overlap)), nil
		}, nil
	}

	return func(params []float64) (float64, error) {
		state, err := eval.Evaluate(params)
		if err != nil {
			return 0, err
		}
		sum := 0.0
		for i, a := range state.Amplitudes {
			d := a - target[i]
			sum += real(d)*real(d) + imag(d)*imag(d)
		}
		return math.Sqrt(sum), nil
	}, nil
}
