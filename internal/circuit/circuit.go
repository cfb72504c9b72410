package circuit

import (
	"github.com/copyleftdev/QPREP/internal/errors"
)

// AnglesPerQubitPerBlock is the number of rotation angles each qubit consumes
// per even/odd block: one RZ in the even layer, one RX in the odd layer.
const AnglesPerQubitPerBlock = 2

// ParamCount returns the parameter-vector length required by a circuit of
// blocks even/odd blocks over qubits qubits.
func ParamCount(qubits, blocks int) int {
	return AnglesPerQubitPerBlock * qubits * blocks
}

// Circuit is an immutable description of a built circuit: 2·Blocks layers
// alternating even/odd, starting even.
type Circuit struct {
	Qubits int
	Blocks int
	Layers []Layer
}

// Build composes blocks repetitions of (even layer, odd layer) over qubits
// qubits, consuming a fresh n-angle slice per layer from params. The angle at
// position b·2n + q binds the even RZ on qubit q of block b; position
// b·2n + n + q binds the odd RX. Build is a pure function of its inputs.
func Build(qubits, blocks int, params []float64) (*Circuit, error) {
	if qubits < 1 {
		return nil, errors.Newf(errors.KindShapeMismatch,
			"qubit count must be positive, got %d", qubits).
			WithComponent("circuit").WithOperation("build")
	}
	if blocks < 0 {
		return nil, errors.Newf(errors.KindShapeMismatch,
			"block count must be non-negative, got %d", blocks).
			WithComponent("circuit").WithOperation("build")
	}
	if want := ParamCount(qubits, blocks); len(params) != want {
		return nil, errors.Newf(errors.KindShapeMismatch,
			"parameter vector length %d, want %d (%d qubits x %d blocks x %d angles)",
			len(params), want, qubits, blocks, AnglesPerQubitPerBlock).
			WithComponent("circuit").WithOperation("build")
	}

	layers := make([]Layer, 0, 2*blocks)
	stride := AnglesPerQubitPerBlock * qubits
	for b := 0; b < blocks; b++ {
		base := b * stride

		even, err := EvenLayer(qubits, params[base:base+qubits])
		if err != nil {
			return nil, err
		}
		layers = append(layers, even)

		odd, err := OddLayer(qubits, params[base+qubits:base+stride])
		if err != nil {
			return nil, err
		}
		layers = append(layers, odd)
	}

	return &Circuit{Qubits: qubits, Blocks: blocks, Layers: layers}, nil
}

// GateCount returns the total number of gates in the circuit.
func (c *Circuit) GateCount() int {
	total := 0
	for _, layer := range c.Layers {
		total += len(layer.Gates)
	}
	return total
}

// Dim returns the state-vector dimension 2^Qubits.
func (c *Circuit) Dim() int {
	return 1 << c.Qubits
}
