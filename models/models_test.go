package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsim/circuit"
	"hlsim/pauli"
	"hlsim/trotter"
)

func TestPathGraph(t *testing.T) {
	g := PathGraph(4)
	assert.Equal(t, []int{0, 1, 2, 3}, Sites(g))
	assert.Equal(t, []Edge{{0, 1}, {1, 2}, {2, 3}}, Edges(g))

	assert.Empty(t, Edges(PathGraph(1)))
}

func TestXXZChain(t *testing.T) {
	h, err := XXZChain(3, 0.5)
	require.NoError(t, err)
	require.Equal(t, 6, h.Len())

	terms := h.Terms()
	want := []struct {
		p     pauli.Pauli
		edge  Edge
		coeff complex128
	}{
		{pauli.Z, Edge{0, 1}, 0.5},
		{pauli.X, Edge{0, 1}, 1},
		{pauli.Y, Edge{0, 1}, 1},
		{pauli.Z, Edge{1, 2}, 0.5},
		{pauli.X, Edge{1, 2}, 1},
		{pauli.Y, Edge{1, 2}, 1},
	}
	for i, w := range want {
		assert.True(t, terms[i].String.Equal(bond(w.edge, w.p)), "term %d is %s", i, terms[i].String)
		assert.Equal(t, w.coeff, terms[i].Coeff, "term %d", i)
	}
	assert.Equal(t, pauli.Qubits(3), h.Qubits())
}

func TestTransverseFieldIsing(t *testing.T) {
	h, err := TransverseFieldIsing(3, 2)
	require.NoError(t, err)
	require.Equal(t, 5, h.Len())

	terms := h.Terms()
	assert.Equal(t, complex128(-2), terms[0].Coeff)
	assert.Equal(t, complex128(-2), terms[1].Coeff)
	for i, site := range []int{0, 1, 2} {
		x := pauli.MustString([]pauli.Qubit{pauli.Q(site)}, []pauli.Pauli{pauli.X})
		assert.True(t, terms[2+i].String.Equal(x))
		assert.Equal(t, complex128(1), terms[2+i].Coeff)
	}
}

func TestModelsRejectEmptyLattice(t *testing.T) {
	_, err := XXZChain(0, 1)
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
	_, err = TransverseFieldIsing(-1, 1)
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
	_, _, err = AncillaAndSystemQubits(0, 2)
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
}

func TestAncillaAndSystemQubits(t *testing.T) {
	anc, sys, err := AncillaAndSystemQubits(3, 1)
	require.NoError(t, err)
	assert.Equal(t, []pauli.Qubit{pauli.Q(0)}, anc)
	assert.Equal(t, []pauli.Qubit{pauli.Q(1), pauli.Q(2), pauli.Q(3)}, sys)

	anc, sys, err = AncillaAndSystemQubits(2, NumDilationAncillas)
	require.NoError(t, err)
	assert.Equal(t, []pauli.Qubit{pauli.Q(0), pauli.Q(1)}, anc)
	assert.Equal(t, []pauli.Qubit{pauli.Q(2), pauli.Q(3)}, sys)
}

func TestDilationOperatorsSelectAnalyticPath(t *testing.T) {
	anc, sys, err := AncillaAndSystemQubits(3, NumDilationAncillas)
	require.NoError(t, err)
	jumps, err := DilationOperators(0.2, anc, sys)
	require.NoError(t, err)
	require.Len(t, jumps, 2)

	c := complex(math.Sqrt(0.4)/2, 0)
	for _, term := range jumps[0].Terms() {
		assert.Equal(t, c, term.Coeff)
	}

	strategy, err := trotter.SelectDilation(jumps, anc, sys)
	require.NoError(t, err)
	assert.Equal(t, "analytic", strategy.Name())
}

func TestXXZLindbladSimulation(t *testing.T) {
	c, err := XXZLindbladSimulation(3, 1, 0.1, 2, 4)
	require.NoError(t, err)

	assert.Equal(t, 3+NumDilationAncillas, c.NumQubits)
	require.Len(t, c.Gates, 8)
	stats := c.Stats()
	assert.Equal(t, 8, stats[circuit.TypeReset])
	assert.Equal(t, 4*6, stats[circuit.TypePauliExp])

	_, err = XXZLindbladSimulation(3, 1, 0.1, 2, 0)
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
}
