package optimization

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/QPREP/internal/circuit"
	"github.com/copyleftdev/QPREP/internal/errors"
	"github.com/copyleftdev/QPREP/internal/quantum"
)

func TestEvaluatorShape(t *testing.T) {
	eval := NewEvaluator(4, 3, nil)
	assert.Equal(t, 24, eval.ParamCount())
	assert.Equal(t, 16, eval.Dim())
}

func TestEvaluatorParamGrowth(t *testing.T) {
	// Adding a block adds 2 angles per qubit but never changes the state
	// dimension.
	for layers := 1; layers <= 5; layers++ {
		eval := NewEvaluator(4, layers, nil)
		assert.Equal(t, 8*layers, eval.ParamCount(), "layers=%d", layers)
		assert.Equal(t, 16, eval.Dim(), "layers=%d", layers)
	}
}

func TestEvaluatorMatchesSimulator(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	params := randomAngles(rng, circuit.ParamCount(3, 2))

	eval := NewEvaluator(3, 2, nil)
	got, err := eval.Evaluate(params)
	require.NoError(t, err)

	c, err := circuit.Build(3, 2, params)
	require.NoError(t, err)
	want, err := quantum.Simulate(c)
	require.NoError(t, err)

	assertStatesClose(t, got.Amplitudes, want.Amplitudes, 0)
}

func TestEvaluatorShapeMismatch(t *testing.T) {
	eval := NewEvaluator(2, 1, nil)
	_, err := eval.Evaluate(make([]float64, 3))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindShapeMismatch), "got %v", err)
}

func TestEvaluatorSimulationLimits(t *testing.T) {
	sim := quantum.NewSimulator(quantum.Limits{MaxQubits: 1, MaxGates: 1 << 20})
	eval := NewEvaluator(2, 1, sim)
	_, err := eval.Evaluate(make([]float64, 4))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSimulationFailure), "got %v", err)
}
