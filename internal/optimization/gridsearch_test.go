package optimization

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/QPREP/internal/errors"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	// The grid over [-0.25, 0.75] x [-0.75, 0.25] in steps of 0.25 contains
	// the origin, so the quadratic's exact minimum is on the grid.
	point, value, err := GridSearch(quadraticObjective, []float64{0.25, -0.25}, 1.0, 0.25)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, value, 1e-12)
	require.Len(t, point, 2)
	assert.InDelta(t, 0.0, point[0], 1e-9)
	assert.InDelta(t, 0.0, point[1], 1e-9)
}

func TestGridSearchRefinement(t *testing.T) {
	// Minimum at 0.3, off the coarse grid. Re-centering on the coarse best
	// with a finer grid must not get worse.
	shifted := func(x []float64) (float64, error) {
		d := x[0] - 0.3
		return d * d, nil
	}

	coarse, coarseValue, err := GridSearch(shifted, []float64{0}, 2.0, 0.5)
	require.NoError(t, err)
	fine, fineValue, err := GridSearch(shifted, coarse, 0.5, 0.05)
	require.NoError(t, err)

	assert.LessOrEqual(t, fineValue, coarseValue)
	assert.InDelta(t, 0.3, fine[0], 0.05)
}

func TestGridSearchInvalidGrid(t *testing.T) {
	tests := []struct {
		name       string
		center     []float64
		width      float64
		resolution float64
	}{
		{name: "empty center", center: nil, width: 1, resolution: 0.1},
		{name: "zero width", center: []float64{0}, width: 0, resolution: 0.1},
		{name: "zero resolution", center: []float64{0}, width: 1, resolution: 0},
		{name: "resolution beyond width", center: []float64{0}, width: 0.1, resolution: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := GridSearch(quadraticObjective, tt.center, tt.width, tt.resolution)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindShapeMismatch), "got %v", err)
		})
	}
}

func TestGridSearchPropagatesObjectiveErrors(t *testing.T) {
	failing := func([]float64) (float64, error) {
		return 0, fmt.Errorf("evaluation blew up")
	}

	_, _, err := GridSearch(failing, []float64{0}, 1, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blew up")
}
