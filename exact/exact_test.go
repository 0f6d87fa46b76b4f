package exact

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"hlsim/circuit"
	"hlsim/pauli"
)

func TestOperatorMatrixPauliY(t *testing.T) {
	y := pauli.MustString([]pauli.Qubit{pauli.Q(0)}, []pauli.Pauli{pauli.Y})
	m, err := OperatorMatrix(pauli.NewOperator().Set(y, 1), pauli.Qubits(1))
	require.NoError(t, err)

	assert.Equal(t, complex128(0), m.At(0, 0))
	assert.Equal(t, complex128(-1i), m.At(0, 1))
	assert.Equal(t, complex128(1i), m.At(1, 0))
	assert.Equal(t, complex128(0), m.At(1, 1))
}

func TestOperatorMatrixRejectsForeignQubit(t *testing.T) {
	z := pauli.MustString([]pauli.Qubit{pauli.Q(3)}, []pauli.Pauli{pauli.Z})
	_, err := OperatorMatrix(pauli.NewOperator().Set(z, 1), pauli.Qubits(2))
	assert.ErrorIs(t, err, pauli.ErrConfiguration)
}

func TestEvolveMatchesSinglePauliExp(t *testing.T) {
	xz := pauli.MustString(pauli.Qubits(2), []pauli.Pauli{pauli.X, pauli.Z})
	h := pauli.NewOperator().Set(xz, 0.7)
	const T = 0.9

	want, err := Evolve(h, pauli.Qubits(2), T)
	require.NoError(t, err)

	c := circuit.New("exp", 2)
	require.NoError(t, c.AddPauliExp([]pauli.Pauli{pauli.X, pauli.Z}, []int{0, 1}, 0.7*(2/math.Pi)*T))
	got, err := CircuitUnitary(c)
	require.NoError(t, err)

	assert.Less(t, Distance(want, got), 1e-9)
}

func TestDistance(t *testing.T) {
	id := Identity(4)
	assert.InDelta(t, 0, Distance(id, id), 1e-12)

	neg := mat.NewCDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		neg.Set(i, i, -1)
	}
	assert.InDelta(t, 2, Distance(id, neg), 1e-12)

	phase := mat.NewCDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		phase.Set(i, i, cmplx.Exp(complex(0, 0.5)))
	}
	assert.InDelta(t, cmplx.Abs(1-cmplx.Exp(complex(0, 0.5))), Distance(id, phase), 1e-12)
}

func TestCircuitUnitaryRejectsReset(t *testing.T) {
	c := circuit.New("reset", 1)
	require.NoError(t, c.AddReset(0))
	_, err := CircuitUnitary(c)
	assert.ErrorIs(t, err, pauli.ErrConfiguration)
}

func TestMulIsMatrixProduct(t *testing.T) {
	x := pauli.MustString([]pauli.Qubit{pauli.Q(0)}, []pauli.Pauli{pauli.X})
	m, err := OperatorMatrix(pauli.NewOperator().Set(x, 1), pauli.Qubits(1))
	require.NoError(t, err)
	assert.Less(t, Distance(Mul(m, m), Identity(2)), 1e-12)
}

func TestSweepKeepsStepOrder(t *testing.T) {
	z := pauli.MustString([]pauli.Qubit{pauli.Q(0)}, []pauli.Pauli{pauli.Z})
	h := pauli.NewOperator().Set(z, 1)
	target, err := Evolve(h, pauli.Qubits(1), 1)
	require.NoError(t, err)

	synth := func(steps int) (*circuit.Circuit, error) {
		c := circuit.New("z", 1)
		for k := 0; k < steps; k++ {
			if err := c.AddPauliExp([]pauli.Pauli{pauli.Z}, []int{0}, (2/math.Pi)/float64(steps)); err != nil {
				return nil, err
			}
		}
		return c, nil
	}

	points, err := Sweep(context.Background(), target, []int{4, 1, 2}, 2, synth)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 4, points[0].Steps)
	assert.Equal(t, 1, points[1].Steps)
	assert.Equal(t, 2, points[2].Steps)
	assert.Equal(t, 4, points[0].Depth)
	for _, p := range points {
		// A single term is reproduced exactly at every step count.
		assert.Less(t, p.Distance, 1e-9)
	}
}
