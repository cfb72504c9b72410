// Package circuit describes the fixed even/odd layered ansatz whose rotation
// angles the optimizer searches over.
package circuit

import (
	"github.com/copyleftdev/QPREP/internal/errors"
)

// GateKind identifies a gate in a layer specification.
type GateKind uint8

const (
	// RZ is a single-qubit rotation about the Z axis.
	RZ GateKind = iota
	// RX is a single-qubit rotation about the X axis.
	RX
	// CZ is the fixed two-qubit controlled-Z entangler.
	CZ
)

// String returns the conventional gate name.
func (k GateKind) String() string {
	switch k {
	case RZ:
		return "RZ"
	case RX:
		return "RX"
	case CZ:
		return "CZ"
	default:
		return "?"
	}
}

// Gate binds a gate kind to its qubit(s) and, for rotations, an angle.
// Control is -1 for single-qubit gates.
type Gate struct {
	Kind    GateKind
	Target  int
	Control int
	Angle   float64
}

// Parity distinguishes even layers from odd layers.
type Parity uint8

const (
	// Even layers apply RZ rotations followed by the entangling pattern.
	Even Parity = iota
	// Odd layers apply RX rotations only.
	Odd
)

// String names the parity.
func (p Parity) String() string {
	if p == Even {
		return "even"
	}
	return "odd"
}

// Layer is one structural slice of the circuit: one rotation per qubit plus,
// for even parity, the fixed entangling pattern.
type Layer struct {
	Parity Parity
	Gates  []Gate
}

// EvenLayer builds an even layer over n qubits: RZ(angles[q]) on each qubit q,
// then CZ on every qubit pair (i, j) with i < j in ascending order. The
// entangling pattern is structural: it carries no parameters and cannot be
// tuned to the identity, which shapes the optimization landscape. For n = 1
// there are no pairs and the pattern degenerates to the identity.
func EvenLayer(n int, angles []float64) (Layer, error) {
	if len(angles) != n {
		return Layer{}, errors.Newf(errors.KindShapeMismatch,
			"even layer over %d qubits needs %d angles, got %d", n, n, len(angles)).
			WithComponent("circuit")
	}

	gates := make([]Gate, 0, n+n*(n-1)/2)
	for q := 0; q < n; q++ {
		gates = append(gates, Gate{Kind: RZ, Target: q, Control: -1, Angle: angles[q]})
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			gates = append(gates, Gate{Kind: CZ, Target: j, Control: i})
		}
	}

	return Layer{Parity: Even, Gates: gates}, nil
}

// OddLayer builds an odd layer over n qubits: RX(angles[q]) on each qubit q.
func OddLayer(n int, angles []float64) (Layer, error) {
	if len(angles) != n {
		return Layer{}, errors.Newf(errors.KindShapeMismatch,
			"odd layer over %d qubits needs %d angles, got %d", n, n, len(angles)).
			WithComponent("circuit")
	}

	gates := make([]Gate, n)
	for q := 0; q < n; q++ {
		gates[q] = Gate{Kind: RX, Target: q, Control: -1, Angle: angles[q]}
	}

	return Layer{Parity: Odd, Gates: gates}, nil
}
