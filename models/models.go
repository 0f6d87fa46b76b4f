package models

import (
	"github.com/pkg/errors"

	"hlsim/circuit"
	"hlsim/pauli"
	"hlsim/trotter"
)

// NumDilationAncillas is the ancilla count of the analytic dilation.
const NumDilationAncillas = 2

func bond(e Edge, p pauli.Pauli) pauli.String {
	return pauli.MustString(
		[]pauli.Qubit{pauli.Q(e.From), pauli.Q(e.To)},
		[]pauli.Pauli{p, p},
	)
}

func checkSize(n int) error {
	if n < 1 {
		return errors.Wrapf(trotter.ErrConfiguration, "model needs at least 1 site, got %d", n)
	}
	return nil
}

// XXZChain returns sum_<ij> (deltaZZ Z_i Z_j + X_i X_j + Y_i Y_j) on the open
// chain of n sites, with ZZ, XX, YY per bond.
func XXZChain(n int, deltaZZ float64) (*pauli.Operator, error) {
	if err := checkSize(n); err != nil {
		return nil, errors.Wrap(err, "xxz chain")
	}
	op := pauli.NewOperator()
	for _, e := range Edges(PathGraph(n)) {
		op.Set(bond(e, pauli.Z), complex(deltaZZ, 0))
		op.Set(bond(e, pauli.X), 1)
		op.Set(bond(e, pauli.Y), 1)
	}
	return op, nil
}

// TransverseFieldIsing returns -jZZ sum_<ij> Z_i Z_j + sum_i X_i. All bond
// terms come before the field terms.
func TransverseFieldIsing(n int, jZZ float64) (*pauli.Operator, error) {
	if err := checkSize(n); err != nil {
		return nil, errors.Wrap(err, "transverse field ising")
	}
	g := PathGraph(n)
	op := pauli.NewOperator()
	for _, e := range Edges(g) {
		op.Set(bond(e, pauli.Z), complex(-jZZ, 0))
	}
	for _, site := range Sites(g) {
		op.Set(pauli.MustString([]pauli.Qubit{pauli.Q(site)}, []pauli.Pauli{pauli.X}), 1)
	}
	return op, nil
}

// AncillaAndSystemQubits allocates q[0..nAncilla-1] as ancillas and the next
// nSystem qubits as the system.
func AncillaAndSystemQubits(nSystem, nAncilla int) (anc, sys []pauli.Qubit, err error) {
	if nSystem < 1 || nAncilla < 0 {
		return nil, nil, errors.Wrapf(trotter.ErrConfiguration,
			"invalid qubit allocation: %d system, %d ancilla", nSystem, nAncilla)
	}
	qs := pauli.Qubits(nAncilla + nSystem)
	return qs[:nAncilla], qs[nAncilla:], nil
}

// DilationOperators returns the jump operators K1 and K2 of strength epsilon.
func DilationOperators(epsilon float64, anc, sys []pauli.Qubit) ([]*pauli.Operator, error) {
	return trotter.AnalyticDilation{Epsilon: epsilon}.JumpOperators(anc, sys)
}

// XXZLindbladSimulation alternates a first-order XXZ step with the analytic
// dilation step, nSteps times over total time T.
func XXZLindbladSimulation(nSystem int, deltaZZ, epsilon, T float64, nSteps int, opts ...trotter.Option) (*circuit.Circuit, error) {
	h, err := XXZChain(nSystem, deltaZZ)
	if err != nil {
		return nil, err
	}
	c, err := trotter.LindbladSimulation(h, trotter.FirstOrder, trotter.AnalyticDilation{Epsilon: epsilon}, nSystem, T, nSteps, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "xxz lindblad simulation")
	}
	return c, nil
}
