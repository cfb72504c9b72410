package optimization

import (
	"math"

	"github.com/copyleftdev/QPREP/internal/errors"
)

// GridSearch exhaustively evaluates the objective on a regular grid centered
// on center: each coordinate ranges over [c - width/2, c + width/2] in steps
// of resolution. Repeated calls with shrinking width refine a previous best.
//
// The grid size is exponential in the dimension, so this is only usable as a
// sanity check on very small parameter vectors; the multi-start local search
// is the real workhorse.
func GridSearch(objective ObjectiveFunction, center []float64, width, resolution float64) ([]float64, float64, error) {
	if len(center) == 0 {
		return nil, 0, errors.New(errors.KindShapeMismatch, "empty center point").
			WithComponent("optimization").WithOperation("gridsearch")
	}
	if width <= 0 || resolution <= 0 || resolution > width {
		return nil, 0, errors.Newf(errors.KindShapeMismatch,
			"invalid grid: width=%v resolution=%v", width, resolution).
			WithComponent("optimization").WithOperation("gridsearch")
	}

	lo := make([]float64, len(center))
	for i, c := range center {
		lo[i] = c - width/2
	}
	// Widen slightly so the upper edge survives floating-point drift.
	hi := width * 1.01

	point := make([]float64, len(center))
	copy(point, lo)

	var bestPoint []float64
	bestValue := math.Inf(1)

	for {
		value, err := objective(point)
		if err != nil {
			return nil, 0, err
		}
		if value < bestValue {
			bestValue = value
			bestPoint = append([]float64(nil), point...)
		}

		// Odometer increment across the grid.
		i := 0
		for ; i < len(point); i++ {
			point[i] += resolution
			if point[i] <= lo[i]+hi {
				break
			}
			point[i] = lo[i]
		}
		if i == len(point) {
			break
		}
	}

	return bestPoint, bestValue, nil
}
