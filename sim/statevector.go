package sim

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/pkg/errors"

	"hlsim/circuit"
	"hlsim/pauli"
)

type Complex = complex128

// StateVector is a pure state of NumQubits qubits. Qubit q is bit q of the
// basis index.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0...0>.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// BasisState returns |index>.
func BasisState(numQubits, index int) *StateVector {
	s := NewStateVector(numQubits)
	s.Amplitudes[0] = 0
	s.Amplitudes[index] = 1
	return s
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// ApplyGate applies one primitive gate. Boxes must be flattened first.
func (s *StateVector) ApplyGate(g circuit.Gate) error {
	for _, q := range g.Qubits {
		if q < 0 || q >= s.NumQubits {
			return errors.Wrapf(pauli.ErrConfiguration, "gate %s on qubit %d of %d-qubit state", g.Type, q, s.NumQubits)
		}
	}
	param := func(i int) float64 {
		if i < len(g.Params) {
			return g.Params[i]
		}
		return 0
	}

	switch g.Type {
	case "H":
		s.applyH(g.Qubits[0])
	case "X":
		s.applyPauli([]pauli.Pauli{pauli.X}, g.Qubits)
	case "Y":
		s.applyPauli([]pauli.Pauli{pauli.Y}, g.Qubits)
	case "Z":
		s.applyPauli([]pauli.Pauli{pauli.Z}, g.Qubits)
	case "RX":
		s.applyRX(g.Qubits[0], param(0))
	case "RY":
		s.applyRY(g.Qubits[0], param(0))
	case "RZ":
		s.applyRZ(g.Qubits[0], param(0))
	case "CX":
		s.applyCX(g.Qubits[0], g.Qubits[1])
	case "CZ":
		s.applyCZ(g.Qubits[0], g.Qubits[1])
	case "SWAP":
		s.applySWAP(g.Qubits[0], g.Qubits[1])
	case circuit.TypePauliExp:
		s.ApplyPauliExp(g.Paulis, g.Qubits, param(0))
	case circuit.TypeTK2:
		for i, p := range []pauli.Pauli{pauli.X, pauli.Y, pauli.Z} {
			s.ApplyPauliExp([]pauli.Pauli{p, p}, g.Qubits, param(i))
		}
	case circuit.TypeReset:
		s.applyReset(g.Qubits[0])
	case circuit.TypeBarrier:
	case circuit.TypeBox:
		return errors.Wrapf(pauli.ErrConfiguration, "box %q must be flattened before simulation", g.Box.Name)
	default:
		return errors.Wrapf(pauli.ErrConfiguration, "unsupported gate %s", g.Type)
	}
	return nil
}

// ApplyPauliExp applies exp(-i*pi/2*t*P), P = paulis[k] on qubits[k].
func (s *StateVector) ApplyPauliExp(paulis []pauli.Pauli, qubits []int, t float64) {
	phi := math.Pi / 2 * t
	c := complex(math.Cos(phi), 0)
	js := complex(0, -math.Sin(phi))

	pv := s.pauliProduct(paulis, qubits)
	for i := range s.Amplitudes {
		s.Amplitudes[i] = c*s.Amplitudes[i] + js*pv[i]
	}
}

// applyPauli applies the Pauli product itself.
func (s *StateVector) applyPauli(paulis []pauli.Pauli, qubits []int) {
	s.Amplitudes = s.pauliProduct(paulis, qubits)
}

// pauliProduct returns P|psi>. Using Y = iXZ, P|i> = i^ny (-1)^|i&z| |i^x>.
func (s *StateVector) pauliProduct(paulis []pauli.Pauli, qubits []int) []Complex {
	var xmask, zmask, ny int
	for k, p := range paulis {
		bit := 1 << qubits[k]
		switch p {
		case pauli.X:
			xmask |= bit
		case pauli.Y:
			xmask |= bit
			zmask |= bit
			ny++
		case pauli.Z:
			zmask |= bit
		}
	}
	var global Complex
	switch ny % 4 {
	case 0:
		global = 1
	case 1:
		global = 1i
	case 2:
		global = -1
	case 3:
		global = -1i
	}

	out := make([]Complex, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		if amp == 0 {
			continue
		}
		ph := global
		if bits.OnesCount(uint(i&zmask))%2 == 1 {
			ph = -ph
		}
		out[i^xmask] += ph * amp
	}
	return out
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = hFactor * (s.Amplitudes[i] + s.Amplitudes[j])
			newAmps[j] = hFactor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRX(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] + js*s.Amplitudes[j]
			newAmps[j] = js*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRY(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	s_ := complex(math.Sin(theta/2), 0)
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			newAmps[i] = c*s.Amplitudes[i] - s_*s.Amplitudes[j]
			newAmps[j] = s_*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = newAmps
}

func (s *StateVector) applyRZ(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyReset projects q onto |0> and renormalizes. On a pure state this is a
// post-selection, not the reset channel; use DensityMatrix for that.
func (s *StateVector) applyReset(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q

	prob0 := 0.0
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			prob0 += real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		}
	}

	norm := 1.0
	if prob0 > 0 {
		norm = math.Sqrt(prob0)
	}

	for i := 0; i < n; i++ {
		if i&bit == 0 {
			s.Amplitudes[i] = s.Amplitudes[i] / complex(norm, 0)
		} else {
			s.Amplitudes[i] = 0
		}
	}
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal populations of each qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)

	for i, amp := range s.Amplitudes {
		prob := real(amp * cmplx.Conj(amp))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	return probs
}

// Run applies the flattened circuit to s.
func (s *StateVector) Run(c *circuit.Circuit) error {
	if c.NumQubits != s.NumQubits {
		return errors.Wrapf(pauli.ErrConfiguration,
			"circuit %q has %d qubits, state has %d", c.Name, c.NumQubits, s.NumQubits)
	}
	for i, g := range c.Flatten().Gates {
		if err := s.ApplyGate(g); err != nil {
			return errors.Wrapf(err, "gate %d", i)
		}
	}
	return nil
}

// SimulateCircuit runs c on |0...0>.
func SimulateCircuit(c *circuit.Circuit) (*StateVector, error) {
	state := NewStateVector(c.NumQubits)
	if err := state.Run(c); err != nil {
		return nil, errors.Wrap(err, "simulate circuit")
	}
	return state, nil
}
