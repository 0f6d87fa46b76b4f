package trotter

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hlsim/circuit"
	"hlsim/pauli"
)

// Register names of the dissipative and Lindblad circuits.
const (
	AncillaRegister = "ancilla"
	SystemRegister  = "system"
)

func stepSize(T float64, N int) (float64, error) {
	if N < 1 {
		return 0, errors.Wrapf(ErrConfiguration, "number of trotter steps must be at least 1, got %d", N)
	}
	if math.IsNaN(T) || math.IsInf(T, 0) {
		return 0, errors.Wrapf(ErrArithmetic, "evolution time %v is not finite", T)
	}
	return T / float64(N), nil
}

// Trotterization approximates exp(-i*T*op) on qubits q[0..nQubits-1] with N
// repetitions of one step of the given order. The step box is built once and
// referenced N times.
func Trotterization(order Order, op *pauli.Operator, nQubits int, T float64, N int, opts ...Option) (*circuit.Box, error) {
	o := buildOptions(opts)
	if nQubits < 1 {
		return nil, errors.Wrapf(ErrConfiguration, "trotterization needs at least 1 qubit, got %d", nQubits)
	}
	dt, err := stepSize(T, N)
	if err != nil {
		return nil, errors.Wrap(err, "trotterization")
	}
	step, err := Step(order, op, dt, pauli.Qubits(nQubits))
	if err != nil {
		return nil, errors.Wrap(err, "build trotter step")
	}

	c := circuit.New("Time evolution", 0)
	reg := c.AddRegister("q", nQubits)
	for k := 0; k < N; k++ {
		if err := c.AddBox(step, reg.Qubits()); err != nil {
			return nil, errors.Wrap(err, "trotterization")
		}
	}
	o.logger.Debug("trotterization",
		zap.Stringer("order", order),
		zap.Int("terms", op.Len()),
		zap.Int("qubits", nQubits),
		zap.Int("steps", N),
		zap.Float64("dt", dt),
	)
	return circuit.NewBox(c), nil
}

func FirstOrderTrotterization(op *pauli.Operator, nQubits int, T float64, N int, opts ...Option) (*circuit.Box, error) {
	return Trotterization(FirstOrder, op, nQubits, T, N, opts...)
}

func SecondOrderTrotterization(op *pauli.Operator, nQubits int, T float64, N int, opts ...Option) (*circuit.Box, error) {
	return Trotterization(SecondOrder, op, nQubits, T, N, opts...)
}

// HamiltonianSimulation is the first-order coherent evolution used by the
// XXZ Lindblad composition.
func HamiltonianSimulation(h *pauli.Operator, nQubits int, T float64, N int, opts ...Option) (*circuit.Box, error) {
	return FirstOrderTrotterization(h, nQubits, T, N, opts...)
}

// DissipatorSimulation repeats the strategy's dilation step N times over an
// "ancilla" register followed by a "system" register. Every ancilla is reset
// after every repetition.
func DissipatorSimulation(strategy DilationStrategy, nSystem int, T float64, N int, opts ...Option) (*circuit.Box, error) {
	o := buildOptions(opts)
	if strategy == nil {
		return nil, errors.Wrap(ErrConfiguration, "dissipator simulation: nil dilation strategy")
	}
	if nSystem < 1 {
		return nil, errors.Wrapf(ErrConfiguration, "dissipator simulation needs at least 1 system qubit, got %d", nSystem)
	}
	dt, err := stepSize(T, N)
	if err != nil {
		return nil, errors.Wrap(err, "dissipator simulation")
	}
	step, err := strategy.Step(dt, nSystem)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s dilation step", strategy.Name())
	}

	c := circuit.New("Dissipator Trotterization", 0)
	anc := c.AddRegister(AncillaRegister, strategy.NumAncillas())
	sys := c.AddRegister(SystemRegister, nSystem)
	wires := append(anc.Qubits(), sys.Qubits()...)
	for k := 0; k < N; k++ {
		if err := c.AddBox(step, wires); err != nil {
			return nil, errors.Wrap(err, "dissipator simulation")
		}
		for _, q := range anc.Qubits() {
			if err := c.AddReset(q); err != nil {
				return nil, errors.Wrap(err, "dissipator simulation")
			}
		}
	}
	o.logger.Debug("dissipator simulation",
		zap.String("strategy", strategy.Name()),
		zap.Int("ancillas", strategy.NumAncillas()),
		zap.Int("system", nSystem),
		zap.Int("steps", N),
		zap.Float64("dt", dt),
	)
	return circuit.NewBox(c), nil
}

// LindbladSimulation alternates a coherent step of h on the system register
// with a dissipative step (including its resets) on ancilla ++ system, N
// times. Both steps are built once for dt = T/N.
func LindbladSimulation(h *pauli.Operator, order Order, strategy DilationStrategy, nSystem int, T float64, N int, opts ...Option) (*circuit.Circuit, error) {
	o := buildOptions(opts)
	if strategy == nil {
		return nil, errors.Wrap(ErrConfiguration, "lindblad simulation: nil dilation strategy")
	}
	dt, err := stepSize(T, N)
	if err != nil {
		return nil, errors.Wrap(err, "lindblad simulation")
	}
	coherent, err := Trotterization(order, h, nSystem, dt, 1, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "coherent step")
	}
	dissipative, err := DissipatorSimulation(strategy, nSystem, dt, 1, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "dissipative step")
	}

	c := circuit.New("Lindblad simulation", 0)
	anc := c.AddRegister(AncillaRegister, strategy.NumAncillas())
	sys := c.AddRegister(SystemRegister, nSystem)
	wires := append(anc.Qubits(), sys.Qubits()...)
	for k := 0; k < N; k++ {
		if err := c.AddBox(coherent, sys.Qubits()); err != nil {
			return nil, errors.Wrap(err, "lindblad simulation")
		}
		if err := c.AddBox(dissipative, wires); err != nil {
			return nil, errors.Wrap(err, "lindblad simulation")
		}
	}
	o.logger.Debug("lindblad simulation",
		zap.Stringer("order", order),
		zap.String("strategy", strategy.Name()),
		zap.Int("steps", N),
		zap.Float64("dt", dt),
	)
	return c, nil
}
