package circuit

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"hlsim/pauli"
)

// Gate kinds understood by the builders, the simulators and the QASM writer.
const (
	TypePauliExp = "PAULIEXP"
	TypeTK2      = "TK2"
	TypeReset    = "RESET"
	TypeBox      = "BOX"
	TypeBarrier  = "BARRIER"
)

// Gate is one operation placed on the circuit.
type Gate struct {
	Type   string
	Qubits []int         // qubits the gate acts on, in gate order
	Paulis []pauli.Pauli // PAULIEXP only, parallel to Qubits
	Params []float64     // half-turns for PAULIEXP/TK2, radians for RX/RY/RZ
	Box    *Box          // BOX only
	Step   int           // layer index, assigned by Schedule
}

// Register is a named, contiguous range of circuit qubits.
type Register struct {
	Name  string
	Start int
	Size  int
}

// Qubit returns the circuit index of the i-th register qubit.
func (r Register) Qubit(i int) int {
	return r.Start + i
}

// Qubits returns the circuit indices of all register qubits.
func (r Register) Qubits() []int {
	qs := make([]int, r.Size)
	for i := 0; i < r.Size; i++ {
		qs[i] = r.Start + i
	}
	return qs
}

// Circuit holds an ordered gate list over NumQubits qubits.
type Circuit struct {
	Name      string
	NumQubits int
	Registers []Register
	Gates     []Gate
}

// New returns an empty circuit. Qubits created here are not part of any
// register; AddRegister appends named ones.
func New(name string, numQubits int) *Circuit {
	return &Circuit{Name: name, NumQubits: numQubits}
}

// AddRegister appends size fresh qubits under the given name.
func (c *Circuit) AddRegister(name string, size int) Register {
	r := Register{Name: name, Start: c.NumQubits, Size: size}
	c.Registers = append(c.Registers, r)
	c.NumQubits += size
	return r
}

// Register looks up a register by name.
func (c *Circuit) Register(name string) (Register, bool) {
	for _, r := range c.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// QubitName returns the register-qualified label of a circuit qubit.
func (c *Circuit) QubitName(q int) string {
	for _, r := range c.Registers {
		if q >= r.Start && q < r.Start+r.Size {
			return fmt.Sprintf("%s[%d]", r.Name, q-r.Start)
		}
	}
	return fmt.Sprintf("q[%d]", q)
}

func (c *Circuit) checkQubits(qubits []int) error {
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= c.NumQubits {
			return errors.Wrapf(pauli.ErrConfiguration,
				"qubit %d out of range for %d-qubit circuit %q", q, c.NumQubits, c.Name)
		}
		if seen[q] {
			return errors.Wrapf(pauli.ErrConfiguration, "qubit %d used twice in one gate", q)
		}
		seen[q] = true
	}
	return nil
}

// AddGate appends an unparameterized gate such as H, X or CX. For two-qubit
// gates the control comes first.
func (c *Circuit) AddGate(gateType string, qubits ...int) error {
	return c.AddParameterizedGate(gateType, nil, qubits...)
}

// AddParameterizedGate appends a gate with parameters, e.g. RX or RZ.
func (c *Circuit) AddParameterizedGate(gateType string, params []float64, qubits ...int) error {
	if err := c.checkQubits(qubits); err != nil {
		return errors.Wrap(err, "add gate")
	}
	c.Gates = append(c.Gates, Gate{
		Type:   gateType,
		Qubits: slices.Clone(qubits),
		Params: slices.Clone(params),
	})
	return nil
}

// AddPauliExp appends exp(-i*pi/2*t*P) where P applies paulis[k] to qubits[k].
// Identity factors are dropped from the stored gate.
func (c *Circuit) AddPauliExp(paulis []pauli.Pauli, qubits []int, t float64) error {
	if len(paulis) != len(qubits) {
		return errors.Wrapf(pauli.ErrConfiguration,
			"pauli exponential has %d labels for %d qubits", len(paulis), len(qubits))
	}
	if err := c.checkQubits(qubits); err != nil {
		return errors.Wrap(err, "add pauli exponential")
	}
	g := Gate{Type: TypePauliExp, Params: []float64{t}}
	for i, p := range paulis {
		if p == pauli.I {
			continue
		}
		g.Qubits = append(g.Qubits, qubits[i])
		g.Paulis = append(g.Paulis, p)
	}
	c.Gates = append(c.Gates, g)
	return nil
}

// AddTK2 appends exp(-i*pi/2*(a XX + b YY + cc ZZ)) on (q0, q1).
func (c *Circuit) AddTK2(a, b, cc float64, q0, q1 int) error {
	if err := c.checkQubits([]int{q0, q1}); err != nil {
		return errors.Wrap(err, "add tk2")
	}
	c.Gates = append(c.Gates, Gate{
		Type:   TypeTK2,
		Qubits: []int{q0, q1},
		Params: []float64{a, b, cc},
	})
	return nil
}

// AddReset appends a reset of q to |0>.
func (c *Circuit) AddReset(q int) error {
	if err := c.checkQubits([]int{q}); err != nil {
		return errors.Wrap(err, "add reset")
	}
	c.Gates = append(c.Gates, Gate{Type: TypeReset, Qubits: []int{q}})
	return nil
}

// AddBarrier appends a barrier spanning all qubits.
func (c *Circuit) AddBarrier() {
	c.Gates = append(c.Gates, Gate{Type: TypeBarrier, Qubits: seq(c.NumQubits)})
}

// AddBox appends a reference to b acting on qubits. The i-th qubit of the box
// circuit is mapped to qubits[i].
func (c *Circuit) AddBox(b *Box, qubits []int) error {
	if b == nil || b.Circuit == nil {
		return errors.Wrap(pauli.ErrConfiguration, "add box: nil box")
	}
	if len(qubits) != b.Circuit.NumQubits {
		return errors.Wrapf(pauli.ErrConfiguration,
			"add box %q: box has %d qubits, got %d", b.Name, b.Circuit.NumQubits, len(qubits))
	}
	if err := c.checkQubits(qubits); err != nil {
		return errors.Wrapf(err, "add box %q", b.Name)
	}
	c.Gates = append(c.Gates, Gate{Type: TypeBox, Qubits: slices.Clone(qubits), Box: b})
	return nil
}

// Box is a named reusable sub-circuit.
type Box struct {
	Name    string
	Circuit *Circuit
}

// NewBox wraps c. The box takes the circuit's name.
func NewBox(c *Circuit) *Box {
	return &Box{Name: c.Name, Circuit: c}
}

// FlattenGate expands g into primitive gates, recursing through boxes.
func FlattenGate(g Gate) []Gate {
	if g.Type != TypeBox {
		return []Gate{cloneGate(g)}
	}
	var out []Gate
	for _, inner := range g.Box.Circuit.Gates {
		for _, fg := range FlattenGate(inner) {
			for i, q := range fg.Qubits {
				fg.Qubits[i] = g.Qubits[q]
			}
			out = append(out, fg)
		}
	}
	return out
}

// Flatten returns a copy of c with all boxes expanded in place.
func (c *Circuit) Flatten() *Circuit {
	out := &Circuit{
		Name:      c.Name,
		NumQubits: c.NumQubits,
		Registers: slices.Clone(c.Registers),
	}
	for _, g := range c.Gates {
		out.Gates = append(out.Gates, FlattenGate(g)...)
	}
	return out
}

// Stats counts flattened gates by type.
func (c *Circuit) Stats() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.Flatten().Gates {
		counts[g.Type]++
	}
	return counts
}

// StatsKeys returns the gate types of Stats in sorted order.
func StatsKeys(stats map[string]int) []string {
	var keys []string
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func cloneGate(g Gate) Gate {
	g.Qubits = slices.Clone(g.Qubits)
	g.Paulis = slices.Clone(g.Paulis)
	g.Params = slices.Clone(g.Params)
	return g
}

func seq(n int) []int {
	qs := make([]int, n)
	for i := 0; i < n; i++ {
		qs[i] = i
	}
	return qs
}
