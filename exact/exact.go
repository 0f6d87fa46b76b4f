// Package exact computes dense reference propagators for small systems and
// compares synthesized circuits against them.
package exact

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"hlsim/circuit"
	"hlsim/pauli"
	"hlsim/sim"
)

// MaxQubits bounds the dense representation.
const MaxQubits = 10

// OperatorMatrix returns the 2^n x 2^n matrix of op, with qubits[k] mapped to
// bit k of the basis index.
func OperatorMatrix(op *pauli.Operator, qubits []pauli.Qubit) (*mat.CDense, error) {
	n := len(qubits)
	if n == 0 || n > MaxQubits {
		return nil, errors.Wrapf(pauli.ErrConfiguration, "dense matrix needs 1..%d qubits, got %d", MaxQubits, n)
	}
	bit := make(map[pauli.Qubit]int, n)
	for k, q := range qubits {
		bit[q] = k
	}

	dim := 1 << n
	m := mat.NewCDense(dim, dim, nil)
	for _, term := range op.Terms() {
		var xmask, zmask, ny int
		for _, q := range term.String.Support() {
			k, ok := bit[q]
			if !ok {
				return nil, errors.Wrapf(pauli.ErrConfiguration, "term %s acts outside the given qubits", term.String)
			}
			switch term.String.Get(q) {
			case pauli.X:
				xmask |= 1 << k
			case pauli.Y:
				xmask |= 1 << k
				zmask |= 1 << k
				ny++
			case pauli.Z:
				zmask |= 1 << k
			}
		}
		global := []complex128{1, 1i, -1, -1i}[ny%4] * term.Coeff
		for i := 0; i < dim; i++ {
			ph := global
			if bits.OnesCount(uint(i&zmask))%2 == 1 {
				ph = -ph
			}
			j := i ^ xmask
			m.Set(j, i, m.At(j, i)+ph)
		}
	}
	return m, nil
}

// Evolve returns exp(-i*t*H) for the operator H on the given qubits.
func Evolve(h *pauli.Operator, qubits []pauli.Qubit, t float64) (*mat.CDense, error) {
	hm, err := OperatorMatrix(h, qubits)
	if err != nil {
		return nil, errors.Wrap(err, "evolve")
	}
	dim, _ := hm.Dims()

	// -i*t*H as a complex matrix, exponentiated through its real embedding
	// [[A, -B], [B, A]] for A + iB.
	gen := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			gen.Set(i, j, complex(0, -t)*hm.At(i, j))
		}
	}
	var e mat.Dense
	e.Exp(embed(gen))
	return unembed(&e), nil
}

// CircuitUnitary returns the matrix of a reset-free circuit, column k being
// the image of basis state |k>.
func CircuitUnitary(c *circuit.Circuit) (*mat.CDense, error) {
	if c.NumQubits == 0 || c.NumQubits > MaxQubits {
		return nil, errors.Wrapf(pauli.ErrConfiguration, "dense unitary needs 1..%d qubits, got %d", MaxQubits, c.NumQubits)
	}
	flat := c.Flatten()
	for _, g := range flat.Gates {
		if g.Type == circuit.TypeReset {
			return nil, errors.Wrapf(pauli.ErrConfiguration, "circuit %q contains a reset and has no unitary", c.Name)
		}
	}

	dim := 1 << c.NumQubits
	u := mat.NewCDense(dim, dim, nil)
	for k := 0; k < dim; k++ {
		s := sim.BasisState(c.NumQubits, k)
		if err := s.Run(flat); err != nil {
			return nil, errors.Wrap(err, "circuit unitary")
		}
		for i, amp := range s.Amplitudes {
			u.Set(i, k, amp)
		}
	}
	return u, nil
}

// Distance returns the operator (spectral) norm of a - b.
func Distance(a, b *mat.CDense) float64 {
	r, c := a.Dims()
	diff := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			diff.Set(i, j, a.At(i, j)-b.At(i, j))
		}
	}
	// The real embedding has the same singular values, each twice.
	var svd mat.SVD
	if !svd.Factorize(embed(diff), mat.SVDNone) {
		return math.NaN()
	}
	return svd.Values(nil)[0]
}

// Identity returns the dim x dim identity.
func Identity(dim int) *mat.CDense {
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Mul returns a*b.
func Mul(a, b *mat.CDense) *mat.CDense {
	var p mat.Dense
	p.Mul(embed(a), embed(b))
	return unembed(&p)
}

func embed(m *mat.CDense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(2*r, 2*c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			out.Set(i, j, real(v))
			out.Set(i, j+c, -imag(v))
			out.Set(i+r, j, imag(v))
			out.Set(i+r, j+c, real(v))
		}
	}
	return out
}

func unembed(m *mat.Dense) *mat.CDense {
	r2, c2 := m.Dims()
	r, c := r2/2, c2/2
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, complex(m.At(i, j), m.At(i+r, j)))
		}
	}
	return out
}
