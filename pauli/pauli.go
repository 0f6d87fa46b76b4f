package pauli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Error taxonomy shared by every synthesis package. Failures are wrapped with
// context, so callers match them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrArithmetic    = errors.New("arithmetic error")
)

// Pauli is a single-qubit Pauli label.
type Pauli int

const (
	I Pauli = iota
	X
	Y
	Z
)

func (p Pauli) String() string {
	switch p {
	case I:
		return "I"
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Pauli(%d)", int(p))
	}
}

// DefaultRegister is the register used by Q.
const DefaultRegister = "q"

// Qubit identifies a qubit by register name and index.
type Qubit struct {
	Reg   string
	Index int
}

// Q returns qubit i of the default register.
func Q(i int) Qubit {
	return Qubit{Reg: DefaultRegister, Index: i}
}

// Qubits returns Q(0), ..., Q(n-1).
func Qubits(n int) []Qubit {
	qs := make([]Qubit, n)
	for i := 0; i < n; i++ {
		qs[i] = Q(i)
	}
	return qs
}

func (q Qubit) String() string {
	return fmt.Sprintf("%s[%d]", q.Reg, q.Index)
}

// Compare orders qubits by register name, then index.
func (q Qubit) Compare(o Qubit) int {
	if c := strings.Compare(q.Reg, o.Reg); c != 0 {
		return c
	}
	return q.Index - o.Index
}

// String is an immutable tensor product of non-identity Paulis on a set of
// qubits. Qubits not in the support carry the identity.
type String struct {
	qubits []Qubit
	paulis []Pauli
}

// NewString pairs qubits with Paulis. Identity labels are dropped.
func NewString(qubits []Qubit, paulis []Pauli) (String, error) {
	if len(qubits) != len(paulis) {
		return String{}, errors.Wrapf(ErrConfiguration,
			"pauli string has %d qubits but %d labels", len(qubits), len(paulis))
	}

	type pair struct {
		q Qubit
		p Pauli
	}
	pairs := make([]pair, 0, len(qubits))
	seen := make(map[Qubit]bool, len(qubits))
	for i, q := range qubits {
		if seen[q] {
			return String{}, errors.Wrapf(ErrConfiguration, "qubit %s repeated in pauli string", q)
		}
		seen[q] = true
		if paulis[i] < I || paulis[i] > Z {
			return String{}, errors.Wrapf(ErrConfiguration, "invalid pauli label %d", int(paulis[i]))
		}
		if paulis[i] == I {
			continue
		}
		pairs = append(pairs, pair{q, paulis[i]})
	}
	slices.SortFunc(pairs, func(a, b pair) int { return a.q.Compare(b.q) })

	s := String{
		qubits: make([]Qubit, len(pairs)),
		paulis: make([]Pauli, len(pairs)),
	}
	for i, pr := range pairs {
		s.qubits[i] = pr.q
		s.paulis[i] = pr.p
	}
	return s, nil
}

// MustString is NewString for literals known to be valid.
func MustString(qubits []Qubit, paulis []Pauli) String {
	s, err := NewString(qubits, paulis)
	if err != nil {
		panic(err)
	}
	return s
}

// Support returns the qubits carrying a non-identity Pauli, in qubit order.
func (s String) Support() []Qubit {
	return slices.Clone(s.qubits)
}

// Get returns the Pauli on q, or I when q is outside the support.
func (s String) Get(q Qubit) Pauli {
	for i, sq := range s.qubits {
		if sq == q {
			return s.paulis[i]
		}
	}
	return I
}

// Labels returns the Pauli on each of the given qubits.
func (s String) Labels(qubits []Qubit) []Pauli {
	out := make([]Pauli, len(qubits))
	for i, q := range qubits {
		out[i] = s.Get(q)
	}
	return out
}

// IsIdentity reports whether the string has empty support.
func (s String) IsIdentity() bool {
	return len(s.qubits) == 0
}

// Key is a canonical text form, unique per string.
func (s String) Key() string {
	if s.IsIdentity() {
		return "I"
	}
	parts := make([]string, len(s.qubits))
	for i, q := range s.qubits {
		parts[i] = fmt.Sprintf("%s(%s)", s.paulis[i], q)
	}
	return strings.Join(parts, " ")
}

func (s String) String() string {
	return s.Key()
}

// Equal reports whether both strings act identically.
func (s String) Equal(o String) bool {
	return slices.Equal(s.qubits, o.qubits) && slices.Equal(s.paulis, o.paulis)
}
