package pauli

import (
	"fmt"
	"slices"
	"strings"
)

// Term is one (string, coefficient) pair of an Operator.
type Term struct {
	String String
	Coeff  complex128
}

// Operator is a weighted sum of Pauli strings. Term order is insertion order
// and is significant: it fixes the gate order of synthesized product formulas.
type Operator struct {
	keys  []string
	terms map[string]Term
}

// NewOperator returns an empty operator.
func NewOperator() *Operator {
	return &Operator{terms: make(map[string]Term)}
}

// Set assigns the coefficient of s. A new string is appended at the end; an
// existing one keeps its position.
func (o *Operator) Set(s String, c complex128) *Operator {
	k := s.Key()
	if _, ok := o.terms[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.terms[k] = Term{String: s, Coeff: c}
	return o
}

// Add accumulates c onto the coefficient of s.
func (o *Operator) Add(s String, c complex128) *Operator {
	return o.Set(s, o.Coefficient(s)+c)
}

// Len returns the number of terms.
func (o *Operator) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Coefficient returns the coefficient of s, zero if absent.
func (o *Operator) Coefficient(s String) complex128 {
	return o.terms[s.Key()].Coeff
}

// Has reports whether s is a term of o.
func (o *Operator) Has(s String) bool {
	_, ok := o.terms[s.Key()]
	return ok
}

// Terms returns a snapshot of the terms in insertion order. Modifying the
// returned slice does not affect o.
func (o *Operator) Terms() []Term {
	if o == nil {
		return nil
	}
	out := make([]Term, len(o.keys))
	for i, k := range o.keys {
		out[i] = o.terms[k]
	}
	return out
}

// Scale returns a new operator with every coefficient multiplied by f.
func (o *Operator) Scale(f float64) *Operator {
	out := NewOperator()
	for _, t := range o.Terms() {
		out.Set(t.String, t.Coeff*complex(f, 0))
	}
	return out
}

// Sum concatenates the terms of ops in order. Repeated strings accumulate
// at their first position.
func Sum(ops ...*Operator) *Operator {
	out := NewOperator()
	for _, op := range ops {
		for _, t := range op.Terms() {
			out.Add(t.String, t.Coeff)
		}
	}
	return out
}

// Qubits returns the union of all term supports, in qubit order.
func (o *Operator) Qubits() []Qubit {
	seen := make(map[Qubit]bool)
	var qs []Qubit
	for _, t := range o.Terms() {
		for _, q := range t.String.qubits {
			if !seen[q] {
				seen[q] = true
				qs = append(qs, q)
			}
		}
	}
	slices.SortFunc(qs, Qubit.Compare)
	return qs
}

// Equal reports whether both operators have the same terms, coefficients and
// order.
func (o *Operator) Equal(other *Operator) bool {
	if !slices.Equal(o.keys, other.keys) {
		return false
	}
	for _, k := range o.keys {
		if o.terms[k].Coeff != other.terms[k].Coeff {
			return false
		}
	}
	return true
}

func (o *Operator) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, t := range o.Terms() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%s): %v", t.String, t.Coeff)
	}
	sb.WriteString("}")
	return sb.String()
}
