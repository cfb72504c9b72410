package optimization

import (
	"github.com/copyleftdev/QPREP/internal/circuit"
	"github.com/copyleftdev/QPREP/internal/metrics"
	"github.com/copyleftdev/QPREP/internal/quantum"
)

// Evaluator adapts a (qubits, layers) circuit shape into state-vector
// evaluations: it rebuilds the circuit description for each parameter vector
// and delegates to the simulation primitive. It holds no mutable state and is
// safe for concurrent use.
type Evaluator struct {
	qubits int
	layers int
	sim    *quantum.Simulator
}

// NewEvaluator creates an evaluator for circuits of the given shape. A nil
// simulator falls back to the default-limits simulator.
func NewEvaluator(qubits, layers int, sim *quantum.Simulator) *Evaluator {
	if sim == nil {
		sim = quantum.NewSimulator(quantum.DefaultLimits)
	}
	return &Evaluator{qubits: qubits, layers: layers, sim: sim}
}

// Evaluate builds the circuit bound to params and returns its final state.
// Shape and simulation errors propagate unchanged; the computation is
// deterministic, so nothing is retried. Each call returns a fresh state owned
// by the caller.
func (e *Evaluator) Evaluate(params []float64) (*quantum.StateVector, error) {
	c, err := circuit.Build(e.qubits, e.layers, params)
	if err != nil {
		return nil, err
	}

	state, err := e.sim.Simulate(c)
	if err != nil {
		return nil, err
	}

	metrics.SimulationsTotal.Inc()
	return state, nil
}

// ParamCount returns the parameter-vector length the evaluator expects.
func (e *Evaluator) ParamCount() int {
	return circuit.ParamCount(e.qubits, e.layers)
}

// Dim returns the state-vector dimension 2^qubits.
func (e *Evaluator) Dim() int {
	return 1 << e.qubits
}
