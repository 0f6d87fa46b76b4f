package sim

import (
	"math/cmplx"

	"github.com/pkg/errors"

	"hlsim/circuit"
	"hlsim/pauli"
)

// DensityMatrix is a mixed state of NumQubits qubits, stored row-major.
type DensityMatrix struct {
	NumQubits int
	Dim       int
	Data      []Complex
}

// NewDensityMatrix returns |0...0><0...0|.
func NewDensityMatrix(numQubits int) *DensityMatrix {
	dim := 1 << numQubits
	rho := &DensityMatrix{NumQubits: numQubits, Dim: dim, Data: make([]Complex, dim*dim)}
	rho.Data[0] = 1
	return rho
}

// FromStateVector returns |psi><psi|.
func FromStateVector(s *StateVector) *DensityMatrix {
	dim := len(s.Amplitudes)
	rho := &DensityMatrix{NumQubits: s.NumQubits, Dim: dim, Data: make([]Complex, dim*dim)}
	for i, a := range s.Amplitudes {
		for j, b := range s.Amplitudes {
			rho.Data[i*dim+j] = a * cmplx.Conj(b)
		}
	}
	return rho
}

func (rho *DensityMatrix) At(i, j int) Complex {
	return rho.Data[i*rho.Dim+j]
}

func (rho *DensityMatrix) Clone() *DensityMatrix {
	data := make([]Complex, len(rho.Data))
	copy(data, rho.Data)
	return &DensityMatrix{NumQubits: rho.NumQubits, Dim: rho.Dim, Data: data}
}

// ApplyGate applies one primitive gate. Unitaries act as U rho U^dagger,
// RESET as the channel sum_k |0><k| rho |k><0| on its qubit.
func (rho *DensityMatrix) ApplyGate(g circuit.Gate) error {
	if g.Type == circuit.TypeReset {
		q := g.Qubits[0]
		if q < 0 || q >= rho.NumQubits {
			return errors.Wrapf(pauli.ErrConfiguration, "reset on qubit %d of %d-qubit state", q, rho.NumQubits)
		}
		rho.reset(q)
		return nil
	}
	// U rho U^dagger = (U (U rho)^dagger)^dagger
	if err := rho.applyLeft(g); err != nil {
		return err
	}
	rho.adjoint()
	if err := rho.applyLeft(g); err != nil {
		return err
	}
	rho.adjoint()
	return nil
}

// applyLeft replaces rho by U rho, one column at a time.
func (rho *DensityMatrix) applyLeft(g circuit.Gate) error {
	col := &StateVector{Amplitudes: make([]Complex, rho.Dim), NumQubits: rho.NumQubits}
	for j := 0; j < rho.Dim; j++ {
		for i := 0; i < rho.Dim; i++ {
			col.Amplitudes[i] = rho.Data[i*rho.Dim+j]
		}
		if err := col.ApplyGate(g); err != nil {
			return err
		}
		for i := 0; i < rho.Dim; i++ {
			rho.Data[i*rho.Dim+j] = col.Amplitudes[i]
		}
	}
	return nil
}

func (rho *DensityMatrix) adjoint() {
	for i := 0; i < rho.Dim; i++ {
		rho.Data[i*rho.Dim+i] = cmplx.Conj(rho.Data[i*rho.Dim+i])
		for j := i + 1; j < rho.Dim; j++ {
			a, b := rho.Data[i*rho.Dim+j], rho.Data[j*rho.Dim+i]
			rho.Data[i*rho.Dim+j], rho.Data[j*rho.Dim+i] = cmplx.Conj(b), cmplx.Conj(a)
		}
	}
}

func (rho *DensityMatrix) reset(q int) {
	bit := 1 << q
	out := make([]Complex, len(rho.Data))
	for i := 0; i < rho.Dim; i++ {
		if i&bit != 0 {
			continue
		}
		for j := 0; j < rho.Dim; j++ {
			if j&bit != 0 {
				continue
			}
			out[i*rho.Dim+j] = rho.Data[i*rho.Dim+j] + rho.Data[(i|bit)*rho.Dim+(j|bit)]
		}
	}
	rho.Data = out
}

// Trace returns Tr(rho).
func (rho *DensityMatrix) Trace() float64 {
	var tr Complex
	for i := 0; i < rho.Dim; i++ {
		tr += rho.Data[i*rho.Dim+i]
	}
	return real(tr)
}

// Purity returns Tr(rho^2).
func (rho *DensityMatrix) Purity() float64 {
	var p float64
	for _, v := range rho.Data {
		// rho is Hermitian, so Tr(rho^2) = sum |rho_ij|^2.
		p += real(v * cmplx.Conj(v))
	}
	return p
}

// QubitProbabilities returns the marginal populations of each qubit.
func (rho *DensityMatrix) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, rho.NumQubits)
	for i := 0; i < rho.Dim; i++ {
		p := real(rho.Data[i*rho.Dim+i])
		for q := 0; q < rho.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// PartialTrace traces out every qubit not in keep. The i-th kept qubit becomes
// qubit i of the result.
func (rho *DensityMatrix) PartialTrace(keep []int) *DensityMatrix {
	out := &DensityMatrix{NumQubits: len(keep), Dim: 1 << len(keep)}
	out.Data = make([]Complex, out.Dim*out.Dim)

	var keepMask int
	for _, q := range keep {
		keepMask |= 1 << q
	}
	reduce := func(i int) int {
		r := 0
		for k, q := range keep {
			if i&(1<<q) != 0 {
				r |= 1 << k
			}
		}
		return r
	}

	for i := 0; i < rho.Dim; i++ {
		for j := 0; j < rho.Dim; j++ {
			// Traced-out bits must agree.
			if i&^keepMask != j&^keepMask {
				continue
			}
			out.Data[reduce(i)*out.Dim+reduce(j)] += rho.Data[i*rho.Dim+j]
		}
	}
	return out
}

// Observer is called after each top-level gate of a circuit run.
type Observer func(index int, g circuit.Gate, rho *DensityMatrix)

// RunDensity applies c to rho gate by gate. Boxes are expanded in place, and
// observe (if non-nil) sees the state after every top-level gate.
func RunDensity(c *circuit.Circuit, rho *DensityMatrix, observe Observer) error {
	if c.NumQubits != rho.NumQubits {
		return errors.Wrapf(pauli.ErrConfiguration,
			"circuit %q has %d qubits, state has %d", c.Name, c.NumQubits, rho.NumQubits)
	}
	for i, g := range c.Gates {
		for _, fg := range circuit.FlattenGate(g) {
			if err := rho.ApplyGate(fg); err != nil {
				return errors.Wrapf(err, "gate %d", i)
			}
		}
		if observe != nil {
			observe(i, g, rho)
		}
	}
	return nil
}
