package quantum

import (
	"github.com/copyleftdev/QPREP/internal/circuit"
	"github.com/copyleftdev/QPREP/internal/errors"
)

// Limits caps the circuits a Simulator will evaluate. State-vector memory is
// exponential in qubits, so the caps fail fast instead of exhausting memory.
type Limits struct {
	MaxQubits int
	MaxGates  int
}

// DefaultLimits bounds simulation to circuits that fit comfortably in memory.
var DefaultLimits = Limits{
	MaxQubits: 24,
	MaxGates:  1 << 20,
}

// Simulator evaluates circuit descriptions against |0...0>. It is stateless
// apart from its limits and scratch-buffer pool and is safe for concurrent
// use.
type Simulator struct {
	limits Limits
	pool   bufferPool
}

// NewSimulator creates a simulator with the given limits. Zero-valued fields
// fall back to DefaultLimits.
func NewSimulator(limits Limits) *Simulator {
	if limits.MaxQubits <= 0 {
		limits.MaxQubits = DefaultLimits.MaxQubits
	}
	if limits.MaxGates <= 0 {
		limits.MaxGates = DefaultLimits.MaxGates
	}
	return &Simulator{limits: limits}
}

// Simulate applies every layer of c to the zero state and returns the final
// state vector. The result is a pure, deterministic function of the circuit
// description; the returned state is freshly allocated and owned by the
// caller. Circuits beyond the simulator's limits fail with a
// simulation_failure error and are never retried.
func (s *Simulator) Simulate(c *circuit.Circuit) (*StateVector, error) {
	if c.Qubits > s.limits.MaxQubits {
		return nil, errors.Newf(errors.KindSimulationFailure,
			"circuit needs %d qubits, simulator caps at %d", c.Qubits, s.limits.MaxQubits).
			WithComponent("quantum").WithOperation("simulate")
	}
	if gates := c.GateCount(); gates > s.limits.MaxGates {
		return nil, errors.Newf(errors.KindSimulationFailure,
			"circuit has %d gates, simulator caps at %d", gates, s.limits.MaxGates).
			WithComponent("quantum").WithOperation("simulate")
	}

	state := NewZeroState(c.Qubits)
	scratch := s.pool.get(state.Dim())

	for _, layer := range c.Layers {
		for _, g := range layer.Gates {
			switch g.Kind {
			case circuit.RZ:
				state.ApplyRZ(g.Target, g.Angle)
			case circuit.RX:
				state.ApplyRXInto(scratch, g.Target, g.Angle)
				state.Amplitudes, scratch = scratch, state.Amplitudes
			case circuit.CZ:
				state.ApplyCZ(g.Control, g.Target)
			default:
				s.pool.put(scratch)
				return nil, errors.Newf(errors.KindSimulationFailure,
					"unsupported gate kind %v", g.Kind).
					WithComponent("quantum").WithOperation("simulate")
			}
		}
	}

	s.pool.put(scratch)
	return state, nil
}

// Simulate evaluates c with a default-limits simulator.
func Simulate(c *circuit.Circuit) (*StateVector, error) {
	return defaultSimulator.Simulate(c)
}

var defaultSimulator = NewSimulator(DefaultLimits)
