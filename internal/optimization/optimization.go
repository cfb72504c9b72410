// Package optimization contains the core of the state-preparation search:
// the objective mapping rotation angles to a distance from the target state,
// and the multi-start procedure that explores the angle space with repeated
// independent local searches.
package optimization

import (
	"context"
)

// ObjectiveFunction maps a parameter vector to a scalar to be minimized.
type ObjectiveFunction func([]float64) (float64, error)

// MinimizeResult is the terminal state of one local search.
type MinimizeResult struct {
	// Point is the best parameter vector found along the trajectory.
	Point []float64
	// Value is the objective value at Point.
	Value float64
	// Converged reports whether the minimizer met its convergence criterion
	// rather than hitting its iteration cap.
	Converged bool
}

// Minimizer is a local numerical minimizer. It is not guaranteed to find a
// global optimum; it returns the best point found from the given start.
type Minimizer interface {
	Minimize(ctx context.Context, objective ObjectiveFunction, initial []float64) (*MinimizeResult, error)
}

// TrialResult pairs one trial's terminal parameter vector with its achieved
// distance. Immutable after creation. A trial whose minimizer or objective
// failed carries Err and is excluded from best-of selection.
type TrialResult struct {
	// Start is the trial index within the run.
	Start int
	// Params is the terminal parameter vector, nil for failed trials.
	Params []float64
	// Distance is the achieved objective value.
	Distance float64
	// Converged reports minimizer convergence.
	Converged bool
	// Err is the trial's failure, if any.
	Err error
}

// Failed reports whether the trial ended in an error.
func (t *TrialResult) Failed() bool {
	return t.Err != nil
}

// RunResult is the outcome of one multi-start run: every trial, plus the
// best successful one.
type RunResult struct {
	// Best is the minimum-distance successful trial.
	Best *TrialResult
	// Trials holds all K results in start order, failed ones included for
	// distribution analysis.
	Trials []TrialResult
}
