// Package trotter synthesizes product-formula circuits for closed (Hamiltonian)
// and open (Lindblad) dynamics.
//
// Every gate is a Pauli exponential exp(-i*pi/2*t*P) whose angle t is given in
// half-turns. A term c*P evolved for dt therefore becomes t = c*(2/pi)*dt.
package trotter

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hlsim/pauli"
)

// Error taxonomy. Both are re-exports of the pauli sentinels so that any
// package in the pipeline can be matched with one errors.Is.
var (
	ErrConfiguration = pauli.ErrConfiguration
	ErrArithmetic    = pauli.ErrArithmetic
)

// HalfTurn converts radians to the half-turn unit of gate angles.
const HalfTurn = 2 / math.Pi

// imagTolerance bounds the imaginary part accepted on a coefficient, relative
// to its magnitude.
const imagTolerance = 1e-12

// PauliGate is exp(-i*pi/2*T*P) where P applies Paulis[k] to the k-th qubit of
// the list the gate was synthesized for.
type PauliGate struct {
	Paulis []pauli.Pauli
	T      float64
}

// Angle returns the half-turn angle c*(2/pi)*dt.
func Angle(coeff complex128, dt float64) (float64, error) {
	if cmplx.IsNaN(coeff) || cmplx.IsInf(coeff) {
		return 0, errors.Wrapf(ErrArithmetic, "non-finite coefficient %v", coeff)
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0, errors.Wrapf(ErrArithmetic, "non-finite step size %v", dt)
	}
	if math.Abs(imag(coeff)) > imagTolerance*math.Max(1, cmplx.Abs(coeff)) {
		return 0, errors.Wrapf(ErrArithmetic, "coefficient %v has an imaginary part", coeff)
	}
	return real(coeff) * HalfTurn * dt, nil
}

// PauliExpGate synthesizes the gate for coeff*s over a step dt. Every qubit of
// the string's support must appear in qubits; the remaining qubits carry the
// identity.
func PauliExpGate(coeff complex128, dt float64, s pauli.String, qubits []pauli.Qubit) (PauliGate, error) {
	index := make(map[pauli.Qubit]bool, len(qubits))
	for _, q := range qubits {
		if index[q] {
			return PauliGate{}, errors.Wrapf(ErrConfiguration, "qubit %s listed twice", q)
		}
		index[q] = true
	}
	for _, q := range s.Support() {
		if !index[q] {
			return PauliGate{}, errors.Wrapf(ErrConfiguration, "term %s acts on %s outside the qubit list", s, q)
		}
	}

	t, err := Angle(coeff, dt)
	if err != nil {
		return PauliGate{}, errors.Wrapf(err, "term %s", s)
	}
	return PauliGate{Paulis: s.Labels(qubits), T: t}, nil
}

// Option configures a synthesis call.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger logs synthesis decisions at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
