// Package quantum implements the state-vector simulation primitive used by
// the state evaluator: given a circuit description, it produces the final
// state of |0...0> under the circuit's gates.
package quantum

import (
	"math"
	"math/cmplx"
)

// StateVector holds the full joint state of Qubits qubits as 2^Qubits complex
// amplitudes. Qubit q maps to bit 1<<q of the basis-state index.
type StateVector struct {
	Qubits     int
	Amplitudes []complex128
}

// NewZeroState returns the computational basis state |0...0> over n qubits.
func NewZeroState(n int) *StateVector {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &StateVector{Qubits: n, Amplitudes: amps}
}

// Dim returns the state-vector dimension 2^Qubits.
func (s *StateVector) Dim() int {
	return len(s.Amplitudes)
}

// Clone returns an independent copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Qubits: s.Qubits, Amplitudes: amps}
}

// Norm returns the Euclidean norm of the amplitudes. A unitary circuit keeps
// it at 1 up to rounding.
func (s *StateVector) Norm() float64 {
	sum := 0.0
	for _, a := range s.Amplitudes {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product <other|s>.
func (s *StateVector) Dot(other []complex128) complex128 {
	var sum complex128
	for i, a := range s.Amplitudes {
		sum += cmplx.Conj(other[i]) * a
	}
	return sum
}

// ApplyRZ applies RZ(theta) = diag(e^{-i theta/2}, e^{i theta/2}) to qubit q
// in place.
func (s *StateVector) ApplyRZ(q int, theta float64) {
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	conj := cmplx.Conj(phase)
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= conj
		}
	}
}

// ApplyCZ applies a controlled-Z between qubits a and b in place: a -1 phase
// on every basis state where both are 1.
func (s *StateVector) ApplyCZ(a, b int) {
	aBit := 1 << a
	bBit := 1 << b
	for i := range s.Amplitudes {
		if i&aBit != 0 && i&bBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

// ApplyRX applies RX(theta) = cos(theta/2) I - i sin(theta/2) X to qubit q.
func (s *StateVector) ApplyRX(q int, theta float64) {
	dst := make([]complex128, len(s.Amplitudes))
	s.ApplyRXInto(dst, q, theta)
	s.Amplitudes = dst
}

// ApplyRXInto writes the result of RX(theta) on qubit q into dst, leaving the
// receiver's amplitudes untouched. len(dst) must equal the state dimension.
func (s *StateVector) ApplyRXInto(dst []complex128, q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			dst[i] = c*s.Amplitudes[i] + js*s.Amplitudes[j]
			dst[j] = js*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
}
