package trotter

import (
	"fmt"

	"github.com/pkg/errors"

	"hlsim/circuit"
	"hlsim/pauli"
)

// Order selects the product formula.
type Order int

const (
	FirstOrder  Order = 1
	SecondOrder Order = 2
)

func (o Order) String() string {
	switch o {
	case FirstOrder:
		return "1st-order"
	case SecondOrder:
		return "2nd-order"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder converts 1 or 2 into an Order.
func ParseOrder(n int) (Order, error) {
	switch Order(n) {
	case FirstOrder, SecondOrder:
		return Order(n), nil
	default:
		return 0, errors.Wrapf(ErrConfiguration, "trotter order must be 1 or 2, got %d", n)
	}
}

// Step builds one Trotter step of the given order.
func Step(order Order, op *pauli.Operator, dt float64, qubits []pauli.Qubit) (*circuit.Box, error) {
	switch order {
	case FirstOrder:
		return FirstOrderStep(op, dt, qubits)
	case SecondOrder:
		return SecondOrderStep(op, dt, qubits)
	default:
		return nil, errors.Wrapf(ErrConfiguration, "unknown trotter order %d", int(order))
	}
}

// FirstOrderStep applies every term once, in operator order, each for the
// full step dt.
func FirstOrderStep(op *pauli.Operator, dt float64, qubits []pauli.Qubit) (*circuit.Box, error) {
	terms := op.Terms()
	if len(terms) == 0 {
		return nil, errors.Wrap(ErrConfiguration, "first-order step of an empty operator")
	}

	c := circuit.New("1st-order Trotter step", 0)
	reg := c.AddRegister("q", len(qubits))
	for _, term := range terms {
		g, err := PauliExpGate(term.Coeff, dt, term.String, qubits)
		if err != nil {
			return nil, errors.Wrap(err, "first-order step")
		}
		if err := c.AddPauliExp(g.Paulis, reg.Qubits(), g.T); err != nil {
			return nil, errors.Wrap(err, "first-order step")
		}
	}
	return circuit.NewBox(c), nil
}

// SecondOrderStep builds the symmetric step
//
//	A_0(dt/2) ... A_{N-2}(dt/2) A_{N-1}(dt) A_{N-2}(dt/2) ... A_0(dt/2)
//
// where A_k is the exponential of the k-th term. With a single term it is one
// full-angle gate.
func SecondOrderStep(op *pauli.Operator, dt float64, qubits []pauli.Qubit) (*circuit.Box, error) {
	return symmetricStep("2nd-order Trotter step", op, dt, qubits)
}

func symmetricStep(name string, op *pauli.Operator, dt float64, qubits []pauli.Qubit) (*circuit.Box, error) {
	terms := op.Terms()
	if len(terms) == 0 {
		return nil, errors.Wrapf(ErrConfiguration, "%s of an empty operator", name)
	}
	last := len(terms) - 1

	halves := make([]PauliGate, 0, last)
	for _, term := range terms[:last] {
		g, err := PauliExpGate(term.Coeff/2, dt, term.String, qubits)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		halves = append(halves, g)
	}
	middle, err := PauliExpGate(terms[last].Coeff, dt, terms[last].String, qubits)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	c := circuit.New(name, 0)
	reg := c.AddRegister("reg_trotterbox", len(qubits))
	sequence := append([]PauliGate{}, halves...)
	sequence = append(sequence, middle)
	for i := len(halves) - 1; i >= 0; i-- {
		sequence = append(sequence, halves[i])
	}
	for _, g := range sequence {
		if err := c.AddPauliExp(g.Paulis, reg.Qubits(), g.T); err != nil {
			return nil, errors.Wrap(err, name)
		}
	}
	return circuit.NewBox(c), nil
}
