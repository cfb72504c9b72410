package local

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/QPREP/internal/errors"
)

func quadratic(x []float64) (float64, error) {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

func TestMinimizeQuadratic(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
	}{
		{name: "nelder-mead", algorithm: AlgorithmNelderMead},
		{name: "lbfgs", algorithm: AlgorithmLBFGS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Config{
				Algorithm:     tt.algorithm,
				Tolerance:     1e-12,
				MaxIterations: 1000,
				Bounds:        [2]float64{-10, 10},
			})

			result, err := m.Minimize(context.Background(), quadratic, []float64{3, 4})
			require.NoError(t, err)

			assert.Less(t, result.Value, 1e-6)
			require.Len(t, result.Point, 2)
			assert.InDelta(t, 0.0, result.Point[0], 1e-3)
			assert.InDelta(t, 0.0, result.Point[1], 1e-3)
			assert.True(t, result.Converged)
		})
	}
}

func TestMinimizeLBFGSDefaults(t *testing.T) {
	// L-BFGS has no analytic gradient to work with here; the
	// finite-difference fallback must carry it, not a panic out of gonum.
	m := New(Config{Algorithm: AlgorithmLBFGS})

	result, err := m.Minimize(context.Background(), quadratic, []float64{3, 2.5, 0.5})
	require.NoError(t, err)

	assert.Less(t, result.Value, 1e-6)
	for i, v := range result.Point {
		assert.GreaterOrEqual(t, v, 0.0, "dim %d", i)
		assert.LessOrEqual(t, v, 2*math.Pi, "dim %d", i)
	}
}

func TestMinimizeRespectsBounds(t *testing.T) {
	// Minimum of (x-5)^2 lies outside [0, 2]; the search must settle on the
	// boundary and never report a point outside the box.
	shifted := func(x []float64) (float64, error) {
		d := x[0] - 5
		return d * d, nil
	}

	m := New(Config{
		Tolerance:     1e-12,
		MaxIterations: 1000,
		Bounds:        [2]float64{0, 2},
	})

	result, err := m.Minimize(context.Background(), shifted, []float64{1})
	require.NoError(t, err)

	assert.InDelta(t, 9.0, result.Value, 1e-2)
	assert.GreaterOrEqual(t, result.Point[0], 0.0)
	assert.LessOrEqual(t, result.Point[0], 2.0)
	assert.InDelta(t, 2.0, result.Point[0], 1e-2)
}

func TestMinimizeDefaults(t *testing.T) {
	m := New(Config{})
	assert.Equal(t, AlgorithmNelderMead, m.cfg.Algorithm)
	assert.Equal(t, 1e-9, m.cfg.Tolerance)
	assert.Equal(t, 500, m.cfg.MaxIterations)
	assert.Equal(t, [2]float64{0, 2 * math.Pi}, m.cfg.Bounds)
}

func TestMinimizePropagatesObjectiveError(t *testing.T) {
	objErr := fmt.Errorf("state evaluation failed")
	failing := func([]float64) (float64, error) {
		return 0, objErr
	}

	m := New(Config{Bounds: [2]float64{-1, 1}})
	_, err := m.Minimize(context.Background(), failing, []float64{0.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, objErr)
}

func TestMinimizeUnknownAlgorithm(t *testing.T) {
	m := New(Config{Algorithm: "annealing"})
	_, err := m.Minimize(context.Background(), quadratic, []float64{1})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindShapeMismatch), "got %v", err)
}

func TestMinimizeEmptyInitial(t *testing.T) {
	m := New(Config{})
	_, err := m.Minimize(context.Background(), quadratic, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindShapeMismatch), "got %v", err)
}

func TestMinimizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Config{})
	_, err := m.Minimize(ctx, quadratic, []float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinimizeDoesNotMutateInitial(t *testing.T) {
	initial := []float64{3, 4}
	m := New(Config{Bounds: [2]float64{-10, 10}})
	_, err := m.Minimize(context.Background(), quadratic, initial)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, initial)
}
