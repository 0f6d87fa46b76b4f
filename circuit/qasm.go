package circuit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"hlsim/pauli"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	resetRegex           = regexp.MustCompile(`^reset\s+q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	registerCommentRegex = regexp.MustCompile(`^//\s*register\s+(\w+)\s+q\[(\d+)\.\.(\d+)\]$`)
)

// Decompose rewrites the flattened circuit into H, RX, RZ and CX gates.
// Pauli exponentials become a basis change, a CX parity ladder and one RZ;
// TK2 becomes its XX, YY and ZZ exponentials.
func (c *Circuit) Decompose() *Circuit {
	flat := c.Flatten()
	out := &Circuit{Name: c.Name, NumQubits: c.NumQubits, Registers: flat.Registers}
	for _, g := range flat.Gates {
		switch g.Type {
		case TypePauliExp:
			out.Gates = append(out.Gates, decomposePauliExp(g.Paulis, g.Qubits, g.Params[0])...)
		case TypeTK2:
			for i, p := range []pauli.Pauli{pauli.X, pauli.Y, pauli.Z} {
				if g.Params[i] == 0 {
					continue
				}
				out.Gates = append(out.Gates, decomposePauliExp([]pauli.Pauli{p, p}, g.Qubits, g.Params[i])...)
			}
		default:
			out.Gates = append(out.Gates, g)
		}
	}
	return out
}

func decomposePauliExp(paulis []pauli.Pauli, qubits []int, t float64) []Gate {
	var active []int
	var labels []pauli.Pauli
	for i, p := range paulis {
		if p != pauli.I {
			active = append(active, qubits[i])
			labels = append(labels, p)
		}
	}
	if len(active) == 0 {
		// exp(-i*pi/2*t*I) is a global phase.
		return nil
	}

	var pre, post []Gate
	for i, q := range active {
		switch labels[i] {
		case pauli.X:
			pre = append(pre, Gate{Type: "H", Qubits: []int{q}})
			post = append(post, Gate{Type: "H", Qubits: []int{q}})
		case pauli.Y:
			pre = append(pre, Gate{Type: "RX", Qubits: []int{q}, Params: []float64{math.Pi / 2}})
			post = append(post, Gate{Type: "RX", Qubits: []int{q}, Params: []float64{-math.Pi / 2}})
		}
	}

	var ladder []Gate
	for i := 0; i+1 < len(active); i++ {
		ladder = append(ladder, Gate{Type: "CX", Qubits: []int{active[i], active[i+1]}})
	}

	gates := append([]Gate{}, pre...)
	gates = append(gates, ladder...)
	gates = append(gates, Gate{
		Type:   "RZ",
		Qubits: []int{active[len(active)-1]},
		Params: []float64{math.Pi * t},
	})
	for i := len(ladder) - 1; i >= 0; i-- {
		gates = append(gates, ladder[i])
	}
	return append(gates, post...)
}

// ToQASM generates QASM 2.0 output from the decomposed circuit. Registers are
// laid out on a single qreg and recorded as comments.
func (c *Circuit) ToQASM() string {
	d := c.Decompose()

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	if d.Name != "" {
		fmt.Fprintf(&sb, "// %s\n", d.Name)
	}
	for _, r := range d.Registers {
		if r.Size == 0 {
			continue
		}
		fmt.Fprintf(&sb, "// register %s q[%d..%d]\n", r.Name, r.Start, r.Start+r.Size-1)
	}
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", max(d.NumQubits, 1))

	for _, gate := range d.Gates {
		gateType := strings.ToLower(gate.Type)
		switch {
		case gate.Type == TypeReset:
			fmt.Fprintf(&sb, "reset q[%d];\n", gate.Qubits[0])
		case gate.Type == TypeBarrier:
			qubits := make([]string, len(gate.Qubits))
			for i, q := range gate.Qubits {
				qubits[i] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
		case len(gate.Qubits) == 2:
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", gateType, gate.Qubits[0], gate.Qubits[1])
		case len(gate.Params) == 1:
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Qubits[0])
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", gateType, gate.Qubits[0])
		}
	}

	return sb.String()
}

// ParseQASM parses QASM text in the subset written by ToQASM: single-qubit
// gates with at most one parameter, two-qubit gates, reset and barrier.
func ParseQASM(qasm string) (*Circuit, error) {
	c := &Circuit{}

	for n, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if matches := registerCommentRegex.FindStringSubmatch(line); matches != nil {
			start, _ := strconv.Atoi(matches[2])
			end, _ := strconv.Atoi(matches[3])
			c.Registers = append(c.Registers, Register{Name: matches[1], Start: start, Size: end - start + 1})
			continue
		}
		if strings.HasPrefix(line, "//") {
			if c.Name == "" {
				c.Name = strings.TrimSpace(strings.TrimPrefix(line, "//"))
			}
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if matches := qregRegex.FindStringSubmatch(line); matches != nil {
				size, _ := strconv.Atoi(matches[2])
				c.NumQubits = size
			}
			continue
		}
		if strings.HasPrefix(line, "barrier") {
			c.AddBarrier()
			continue
		}

		var err error
		switch {
		case resetRegex.MatchString(line):
			matches := resetRegex.FindStringSubmatch(line)
			target, _ := strconv.Atoi(matches[1])
			err = c.AddReset(target)
		case twoQubitRegex.MatchString(line):
			matches := twoQubitRegex.FindStringSubmatch(line)
			q1, _ := strconv.Atoi(matches[2])
			q2, _ := strconv.Atoi(matches[3])
			err = c.AddGate(strings.ToUpper(matches[1]), q1, q2)
		case singleGateParamRegex.MatchString(line):
			matches := singleGateParamRegex.FindStringSubmatch(line)
			param, ok := parseParamExpr(matches[2])
			if !ok {
				return nil, errors.Wrapf(pauli.ErrConfiguration, "line %d: bad parameter %q", n+1, matches[2])
			}
			target, _ := strconv.Atoi(matches[3])
			err = c.AddParameterizedGate(strings.ToUpper(matches[1]), []float64{param}, target)
		case singleGateRegex.MatchString(line):
			matches := singleGateRegex.FindStringSubmatch(line)
			target, _ := strconv.Atoi(matches[2])
			err = c.AddGate(strings.ToUpper(matches[1]), target)
		default:
			return nil, errors.Wrapf(pauli.ErrConfiguration, "line %d: unsupported statement %q", n+1, line)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n+1)
		}
	}

	return c, nil
}
