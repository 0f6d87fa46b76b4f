package trotter

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"hlsim/circuit"
	"hlsim/pauli"
)

// DilationStrategy builds one dissipative step on ancilla++system qubits. The
// step itself never resets ancillas; DissipatorSimulation does that after every
// repetition.
type DilationStrategy interface {
	Name() string
	NumAncillas() int
	// Step returns a box over NumAncillas() ancilla qubits followed by nSystem
	// system qubits.
	Step(dt float64, nSystem int) (*circuit.Box, error)
}

const dilationStepName = "Dilation Trotter step"

// AnalyticDilation is the closed form for one fixed pair of jump operators
//
//	K1 = c (X X + Y Y) on (anc[0], sys[0])
//	K2 = c (X X - Y Y) on (anc[1], sys[n-1])
//
// with c = sqrt(2*Epsilon)/2. Each operator becomes a single TK2 gate. Any
// other dissipator has to go through GeneralDilation.
type AnalyticDilation struct {
	Epsilon float64
}

func (AnalyticDilation) Name() string { return "analytic" }

func (AnalyticDilation) NumAncillas() int { return 2 }

func (d AnalyticDilation) amplitude() (float64, error) {
	if math.IsNaN(d.Epsilon) || math.IsInf(d.Epsilon, 0) || d.Epsilon < 0 {
		return 0, errors.Wrapf(ErrArithmetic, "dissipation strength %v must be finite and non-negative", d.Epsilon)
	}
	return math.Sqrt(2*d.Epsilon) / 2, nil
}

// DilationAngles returns the TK2 angle triples of K1 and K2 for a step dt.
func (d AnalyticDilation) DilationAngles(dt float64) ([2][3]float64, error) {
	c, err := d.amplitude()
	if err != nil {
		return [2][3]float64{}, err
	}
	root, err := sqrtStep(dt)
	if err != nil {
		return [2][3]float64{}, err
	}
	theta := HalfTurn * c * root
	return [2][3]float64{
		{theta, theta, 0},
		{theta, -theta, 0},
	}, nil
}

// JumpOperators returns K1 and K2 over the given qubits. anc needs exactly two
// qubits and sys at least one.
func (d AnalyticDilation) JumpOperators(anc, sys []pauli.Qubit) ([]*pauli.Operator, error) {
	if len(anc) != 2 || len(sys) == 0 {
		return nil, errors.Wrapf(ErrConfiguration,
			"analytic dilation needs 2 ancillas and at least 1 system qubit, got %d and %d", len(anc), len(sys))
	}
	c, err := d.amplitude()
	if err != nil {
		return nil, err
	}

	pair := func(a, s pauli.Qubit, p pauli.Pauli) (pauli.String, error) {
		return pauli.NewString([]pauli.Qubit{a, s}, []pauli.Pauli{p, p})
	}
	build := func(a, s pauli.Qubit, sign float64) (*pauli.Operator, error) {
		xx, err := pair(a, s, pauli.X)
		if err != nil {
			return nil, err
		}
		yy, err := pair(a, s, pauli.Y)
		if err != nil {
			return nil, err
		}
		return pauli.NewOperator().Set(xx, complex(c, 0)).Set(yy, complex(sign*c, 0)), nil
	}

	k1, err := build(anc[0], sys[0], 1)
	if err != nil {
		return nil, errors.Wrap(err, "jump operator K1")
	}
	k2, err := build(anc[1], sys[len(sys)-1], -1)
	if err != nil {
		return nil, errors.Wrap(err, "jump operator K2")
	}
	return []*pauli.Operator{k1, k2}, nil
}

func (d AnalyticDilation) Step(dt float64, nSystem int) (*circuit.Box, error) {
	if nSystem < 1 {
		return nil, errors.Wrapf(ErrConfiguration, "dilation step needs at least 1 system qubit, got %d", nSystem)
	}
	angles, err := d.DilationAngles(dt)
	if err != nil {
		return nil, errors.Wrap(err, "analytic dilation step")
	}

	c := circuit.New(dilationStepName, 0)
	anc := c.AddRegister("anc_dilation", 2)
	sys := c.AddRegister("sys", nSystem)
	k1, k2 := angles[0], angles[1]
	if err := c.AddTK2(k1[0], k1[1], k1[2], anc.Qubit(0), sys.Qubit(0)); err != nil {
		return nil, errors.Wrap(err, "analytic dilation step")
	}
	if err := c.AddTK2(k2[0], k2[1], k2[2], anc.Qubit(1), sys.Qubit(nSystem-1)); err != nil {
		return nil, errors.Wrap(err, "analytic dilation step")
	}
	return circuit.NewBox(c), nil
}

// GeneralDilation evolves an arbitrary jump-operator sum with a second-order
// step of size sqrt(dt) on Ancillas ++ System.
type GeneralDilation struct {
	Operator *pauli.Operator
	Ancillas []pauli.Qubit
	System   []pauli.Qubit
}

func (GeneralDilation) Name() string { return "general" }

func (d GeneralDilation) NumAncillas() int { return len(d.Ancillas) }

func (d GeneralDilation) Step(dt float64, nSystem int) (*circuit.Box, error) {
	if nSystem != len(d.System) {
		return nil, errors.Wrapf(ErrConfiguration,
			"general dilation was built for %d system qubits, asked for %d", len(d.System), nSystem)
	}
	root, err := sqrtStep(dt)
	if err != nil {
		return nil, errors.Wrap(err, "general dilation step")
	}
	qubits := make([]pauli.Qubit, 0, len(d.Ancillas)+len(d.System))
	qubits = append(qubits, d.Ancillas...)
	qubits = append(qubits, d.System...)
	return symmetricStep(dilationStepName, d.Operator, root, qubits)
}

// SelectDilation picks AnalyticDilation when jumps is exactly its K1/K2 pair
// over anc and sys, and a GeneralDilation over the summed jumps otherwise.
func SelectDilation(jumps []*pauli.Operator, anc, sys []pauli.Qubit) (DilationStrategy, error) {
	if len(jumps) == 0 {
		return nil, errors.Wrap(ErrConfiguration, "no jump operators")
	}
	if d, ok := matchAnalytic(jumps, anc, sys); ok {
		return d, nil
	}
	return GeneralDilation{
		Operator: pauli.Sum(jumps...),
		Ancillas: anc,
		System:   sys,
	}, nil
}

func matchAnalytic(jumps []*pauli.Operator, anc, sys []pauli.Qubit) (AnalyticDilation, bool) {
	if len(jumps) != 2 || len(anc) != 2 || len(sys) == 0 || jumps[0].Len() == 0 {
		return AnalyticDilation{}, false
	}
	c := real(jumps[0].Terms()[0].Coeff)
	if c < 0 {
		return AnalyticDilation{}, false
	}
	d := AnalyticDilation{Epsilon: 2 * c * c}
	want, err := d.JumpOperators(anc, sys)
	if err != nil {
		return AnalyticDilation{}, false
	}
	for i := range want {
		if !approxEqual(jumps[i], want[i]) {
			return AnalyticDilation{}, false
		}
	}
	return d, true
}

func approxEqual(a, b *pauli.Operator) bool {
	ta, tb := a.Terms(), b.Terms()
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if !ta[i].String.Equal(tb[i].String) {
			return false
		}
		if cmplx.Abs(ta[i].Coeff-tb[i].Coeff) > imagTolerance*math.Max(1, cmplx.Abs(tb[i].Coeff)) {
			return false
		}
	}
	return true
}

func sqrtStep(dt float64) (float64, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0, errors.Wrapf(ErrArithmetic, "dissipative step size %v must be finite and non-negative", dt)
	}
	return math.Sqrt(dt), nil
}
