// Package local wraps gonum's local optimizers behind the Minimizer contract
// used by the multi-start search.
package local

import (
	"context"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/copyleftdev/QPREP/internal/errors"
	"github.com/copyleftdev/QPREP/internal/optimization"
)

// Supported algorithm names.
const (
	AlgorithmNelderMead = "neldermead"
	AlgorithmLBFGS      = "lbfgs"
)

// Config selects and tunes the local search.
type Config struct {
	// Algorithm is "neldermead" (default, derivative-free) or "lbfgs"
	// (finite-difference gradients).
	Algorithm string
	// Tolerance is the absolute and relative function-convergence threshold.
	Tolerance float64
	// MaxIterations caps the major iterations of one search.
	MaxIterations int
	// Bounds is the [min, max] box applied to every coordinate. Candidate
	// points are clamped into the box before evaluation.
	Bounds [2]float64
}

// Minimizer runs a bounded local search with a gonum optimize method. The
// zero value is not usable; construct with New.
type Minimizer struct {
	cfg Config
}

// New creates a Minimizer, applying defaults for unset fields.
func New(cfg Config) *Minimizer {
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmNelderMead
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-9
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 500
	}
	if cfg.Bounds == [2]float64{} {
		cfg.Bounds = [2]float64{0, 2 * math.Pi}
	}
	return &Minimizer{cfg: cfg}
}

// Minimize runs the configured method from initial and returns the best point
// found. Objective errors abort the search and propagate to the caller; a
// search that merely hits its iteration cap still returns its best point with
// Converged false.
func (m *Minimizer) Minimize(ctx context.Context, objective optimization.ObjectiveFunction, initial []float64) (*optimization.MinimizeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return nil, errors.New(errors.KindShapeMismatch, "empty initial point").
			WithComponent("local").WithOperation("minimize")
	}

	// gonum's Func cannot return an error, so the first objective failure is
	// captured here and the search is steered away with +Inf.
	var objErr error
	eval := func(x []float64) float64 {
		if objErr != nil {
			return math.Inf(1)
		}
		clamped := make([]float64, len(x))
		for i, v := range x {
			clamped[i] = math.Max(m.cfg.Bounds[0], math.Min(v, m.cfg.Bounds[1]))
		}
		value, err := objective(clamped)
		if err != nil {
			objErr = err
			return math.Inf(1)
		}
		return value
	}
	problem := optimize.Problem{Func: eval}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   m.cfg.Tolerance,
			Relative:   m.cfg.Tolerance,
			Iterations: 50,
		},
		MajorIterations: m.cfg.MaxIterations,
	}

	var method optimize.Method
	switch m.cfg.Algorithm {
	case AlgorithmNelderMead:
		method = &optimize.NelderMead{}
	case AlgorithmLBFGS:
		// L-BFGS needs a gradient the objective cannot supply analytically.
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, eval, x, nil)
		}
		method = &optimize.LBFGS{}
	default:
		return nil, errors.Newf(errors.KindShapeMismatch,
			"unknown minimizer algorithm %q", m.cfg.Algorithm).
			WithComponent("local").WithOperation("minimize")
	}

	start := make([]float64, len(initial))
	copy(start, initial)

	result, err := runMinimize(problem, start, settings, method)
	if objErr != nil {
		return nil, objErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "local search failed").
			WithComponent("local").WithOperation("minimize")
	}

	point := make([]float64, len(result.X))
	for i, v := range result.X {
		point[i] = math.Max(m.cfg.Bounds[0], math.Min(v, m.cfg.Bounds[1]))
	}

	return &optimization.MinimizeResult{
		Point:     point,
		Value:     result.F,
		Converged: result.Status == optimize.FunctionConvergence || result.Status == optimize.GradientThreshold,
	}, nil
}

// runMinimize invokes gonum's Minimize, converting its panics (method and
// problem mismatches surface that way) into errors so a bad trial cannot take
// down the worker goroutine running it.
func runMinimize(problem optimize.Problem, start []float64, settings *optimize.Settings, method optimize.Method) (result *optimize.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Newf(errors.KindUnknown, "local search panicked: %v", r).
				WithComponent("local").WithOperation("minimize")
		}
	}()
	return optimize.Minimize(problem, start, settings, method)
}
