package trotter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsim/circuit"
	"hlsim/exact"
	"hlsim/pauli"
	"hlsim/sim"
)

func ancillaAndSystem(nSystem int) ([]pauli.Qubit, []pauli.Qubit) {
	qs := pauli.Qubits(2 + nSystem)
	return qs[:2], qs[2:]
}

func TestAnalyticDilationAngles(t *testing.T) {
	d := AnalyticDilation{Epsilon: 0.18}
	angles, err := d.DilationAngles(0.04)
	require.NoError(t, err)

	theta := (2 / math.Pi) * (math.Sqrt(2*0.18) / 2) * math.Sqrt(0.04)
	assert.InDelta(t, theta, angles[0][0], 1e-15)
	assert.InDelta(t, theta, angles[0][1], 1e-15)
	assert.Zero(t, angles[0][2])
	assert.InDelta(t, theta, angles[1][0], 1e-15)
	assert.InDelta(t, -theta, angles[1][1], 1e-15)
	assert.Zero(t, angles[1][2])
}

func TestAnalyticDilationStep(t *testing.T) {
	box, err := AnalyticDilation{Epsilon: 0.1}.Step(0.25, 3)
	require.NoError(t, err)

	c := box.Circuit
	assert.Equal(t, "Dilation Trotter step", box.Name)
	assert.Equal(t, 5, c.NumQubits)
	require.Len(t, c.Registers, 2)
	assert.Equal(t, "anc_dilation", c.Registers[0].Name)
	assert.Equal(t, "sys", c.Registers[1].Name)

	require.Len(t, c.Gates, 2)
	assert.Equal(t, circuit.TypeTK2, c.Gates[0].Type)
	assert.Equal(t, []int{0, 2}, c.Gates[0].Qubits)
	assert.Equal(t, []int{1, 4}, c.Gates[1].Qubits)
	assert.Equal(t, -c.Gates[0].Params[1], c.Gates[1].Params[1])
}

func TestDilationRejectsNegativeInputs(t *testing.T) {
	_, err := AnalyticDilation{Epsilon: 0.1}.Step(-0.1, 2)
	assert.ErrorIs(t, err, ErrArithmetic)

	_, err = AnalyticDilation{Epsilon: -1}.Step(0.1, 2)
	assert.ErrorIs(t, err, ErrArithmetic)

	_, err = AnalyticDilation{Epsilon: 0.1}.Step(0.1, 0)
	assert.ErrorIs(t, err, ErrConfiguration)

	anc, sys := ancillaAndSystem(2)
	jumps, err := AnalyticDilation{Epsilon: 0.1}.JumpOperators(anc, sys)
	require.NoError(t, err)
	general := GeneralDilation{Operator: pauli.Sum(jumps...), Ancillas: anc, System: sys}

	_, err = general.Step(-0.1, 2)
	assert.ErrorIs(t, err, ErrArithmetic)

	_, err = general.Step(0.1, 3)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestJumpOperators(t *testing.T) {
	anc, sys := ancillaAndSystem(3)
	jumps, err := AnalyticDilation{Epsilon: 0.5}.JumpOperators(anc, sys)
	require.NoError(t, err)
	require.Len(t, jumps, 2)

	c := math.Sqrt(2*0.5) / 2
	xx := pauli.MustString([]pauli.Qubit{anc[1], sys[2]}, []pauli.Pauli{pauli.X, pauli.X})
	yy := pauli.MustString([]pauli.Qubit{anc[1], sys[2]}, []pauli.Pauli{pauli.Y, pauli.Y})
	assert.Equal(t, complex(c, 0), jumps[1].Coefficient(xx))
	assert.Equal(t, complex(-c, 0), jumps[1].Coefficient(yy))
	assert.Equal(t, []pauli.Qubit{anc[0], sys[0]}, jumps[0].Qubits())

	_, err = AnalyticDilation{Epsilon: 0.5}.JumpOperators(anc[:1], sys)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAnalyticAndGeneralDilationAgree(t *testing.T) {
	anc, sys := ancillaAndSystem(3)
	analytic := AnalyticDilation{Epsilon: 0.3}
	jumps, err := analytic.JumpOperators(anc, sys)
	require.NoError(t, err)
	general := GeneralDilation{Operator: pauli.Sum(jumps...), Ancillas: anc, System: sys}

	const dt = 0.2
	a, err := analytic.Step(dt, 3)
	require.NoError(t, err)
	g, err := general.Step(dt, 3)
	require.NoError(t, err)

	ua, err := exact.CircuitUnitary(a.Circuit)
	require.NoError(t, err)
	ug, err := exact.CircuitUnitary(g.Circuit)
	require.NoError(t, err)
	assert.Less(t, exact.Distance(ua, ug), 1e-9)
}

func TestSelectDilation(t *testing.T) {
	anc, sys := ancillaAndSystem(3)
	jumps, err := AnalyticDilation{Epsilon: 0.3}.JumpOperators(anc, sys)
	require.NoError(t, err)

	strategy, err := SelectDilation(jumps, anc, sys)
	require.NoError(t, err)
	analytic, ok := strategy.(AnalyticDilation)
	require.True(t, ok, "expected the analytic special case, got %s", strategy.Name())
	assert.InDelta(t, 0.3, analytic.Epsilon, 1e-12)

	// Flipping the sign of K2's YY term leaves the special case.
	yy := pauli.MustString([]pauli.Qubit{anc[1], sys[2]}, []pauli.Pauli{pauli.Y, pauli.Y})
	other := []*pauli.Operator{jumps[0], pauli.Sum(jumps[1]).Set(yy, -jumps[1].Coefficient(yy))}
	strategy, err = SelectDilation(other, anc, sys)
	require.NoError(t, err)
	general, ok := strategy.(GeneralDilation)
	require.True(t, ok)
	assert.Equal(t, 4, general.Operator.Len())
	assert.Equal(t, 2, general.NumAncillas())

	_, err = SelectDilation(nil, anc, sys)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestDissipatorSimulationResetsEveryRepetition(t *testing.T) {
	const steps = 4
	box, err := DissipatorSimulation(AnalyticDilation{Epsilon: 0.1}, 3, 1, steps)
	require.NoError(t, err)

	c := box.Circuit
	assert.Equal(t, 5, c.NumQubits)
	anc, ok := c.Register("ancilla")
	require.True(t, ok)
	assert.Equal(t, 0, anc.Start)
	sys, ok := c.Register("system")
	require.True(t, ok)
	assert.Equal(t, 2, sys.Start)

	require.Len(t, c.Gates, steps*3)
	for rep := 0; rep < steps; rep++ {
		g := c.Gates[rep*3]
		assert.Equal(t, circuit.TypeBox, g.Type)
		assert.Same(t, c.Gates[0].Box, g.Box)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, g.Qubits)
		assert.Equal(t, circuit.TypeReset, c.Gates[rep*3+1].Type)
		assert.Equal(t, []int{0}, c.Gates[rep*3+1].Qubits)
		assert.Equal(t, circuit.TypeReset, c.Gates[rep*3+2].Type)
		assert.Equal(t, []int{1}, c.Gates[rep*3+2].Qubits)
	}
}

func TestDissipatorSimulationAncillasAreFreshEachRepetition(t *testing.T) {
	const steps = 4
	box, err := DissipatorSimulation(AnalyticDilation{Epsilon: 0.5}, 3, 1, steps)
	require.NoError(t, err)

	// System starts fully excited: qubits 2, 3 and 4 set.
	rho := sim.FromStateVector(sim.BasisState(5, 0b11100))
	var excited, checked int
	err = sim.RunDensity(box.Circuit, rho, func(i int, g circuit.Gate, rho *sim.DensityMatrix) {
		probs := rho.QubitProbabilities()
		switch i % 3 {
		case 0:
			if probs[0].Prob1 > 0.01 || probs[1].Prob1 > 0.01 {
				excited++
			}
		case 2:
			checked++
			assert.InDelta(t, 1, probs[0].Prob0, 1e-9, "ancilla 0 after repetition %d", i/3)
			assert.InDelta(t, 1, probs[1].Prob0, 1e-9, "ancilla 1 after repetition %d", i/3)
		}
		assert.InDelta(t, 1, rho.Trace(), 1e-9)
	})
	require.NoError(t, err)
	assert.Equal(t, steps, checked)
	assert.Equal(t, steps, excited, "every dilation step should excite an ancilla")
	assert.Less(t, rho.Purity(), 1-1e-3)
}

func TestDilationWithoutResetsStaysPure(t *testing.T) {
	step, err := AnalyticDilation{Epsilon: 0.5}.Step(0.25, 3)
	require.NoError(t, err)

	c := circuit.New("no resets", 5)
	for k := 0; k < 4; k++ {
		require.NoError(t, c.AddBox(step, []int{0, 1, 2, 3, 4}))
	}
	rho := sim.FromStateVector(sim.BasisState(5, 0b11100))
	require.NoError(t, sim.RunDensity(c, rho, nil))
	assert.InDelta(t, 1, rho.Purity(), 1e-9)
}

func TestLindbladSimulationAlternatesSteps(t *testing.T) {
	const steps = 3
	c, err := LindbladSimulation(xxz(3, 0.5), FirstOrder, AnalyticDilation{Epsilon: 0.1}, 3, 1.5, steps)
	require.NoError(t, err)

	assert.Equal(t, "Lindblad simulation", c.Name)
	assert.Equal(t, 5, c.NumQubits)
	require.Len(t, c.Gates, 2*steps)

	coherent, dissipative := c.Gates[0].Box, c.Gates[1].Box
	assert.Equal(t, "Time evolution", coherent.Name)
	assert.Equal(t, "Dissipator Trotterization", dissipative.Name)
	for rep := 0; rep < steps; rep++ {
		assert.Same(t, coherent, c.Gates[2*rep].Box)
		assert.Equal(t, []int{2, 3, 4}, c.Gates[2*rep].Qubits)
		assert.Same(t, dissipative, c.Gates[2*rep+1].Box)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, c.Gates[2*rep+1].Qubits)
	}

	// dt = 0.5 reaches both steps.
	inner := coherent.Circuit.Gates[0].Box.Circuit.Gates[0]
	assert.InDelta(t, 0.5*HalfTurn*0.5, inner.Params[0], 1e-15)
	stats := c.Stats()
	assert.Equal(t, 2*steps, stats[circuit.TypeReset])
	assert.Equal(t, 2*steps, stats[circuit.TypeTK2])
}

func TestLindbladSimulationRejectsBadInput(t *testing.T) {
	c, err := LindbladSimulation(xxz(3, 1), SecondOrder, AnalyticDilation{Epsilon: 0.1}, 3, 1, 0)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Nil(t, c)

	_, err = LindbladSimulation(xxz(3, 1), SecondOrder, nil, 3, 1, 2)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = LindbladSimulation(xxz(3, 1), SecondOrder, AnalyticDilation{Epsilon: -0.1}, 3, 1, 2)
	assert.ErrorIs(t, err, ErrArithmetic)
}
