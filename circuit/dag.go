package circuit

import "slices"

// DAGNode is a gate together with the gates it must follow.
// Dependencies represent ordering constraints - a gate cannot execute before
// the last earlier gate on each wire it spans. A multi-qubit gate spans every
// wire between its lowest and highest qubit, so gates in one layer never
// overlap when drawn.
type DAGNode struct {
	ID           int
	Gate         Gate
	Dependencies []int // IDs of nodes that must execute before this one
}

// CircuitDAG is the dependency graph of a circuit's top-level gates.
type CircuitDAG struct {
	Nodes     []*DAGNode
	NumQubits int
}

// NewDAG builds the dependency graph of c. Boxes are single nodes spanning
// their qubits; call it on c.Flatten() for a gate-level graph.
func NewDAG(c *Circuit) *CircuitDAG {
	dag := &CircuitDAG{NumQubits: c.NumQubits}

	// Track the last gate on each qubit to establish dependencies
	lastGateOnQubit := make(map[int]int)

	for i, g := range c.Gates {
		node := &DAGNode{ID: i, Gate: cloneGate(g)}

		wires := span(g.Qubits)
		for _, q := range wires {
			if last, ok := lastGateOnQubit[q]; ok && !slices.Contains(node.Dependencies, last) {
				node.Dependencies = append(node.Dependencies, last)
			}
		}
		slices.Sort(node.Dependencies)

		// Gates on no qubits (global phases) still keep program order.
		if len(g.Qubits) == 0 && i > 0 {
			node.Dependencies = append(node.Dependencies, i-1)
		}

		dag.Nodes = append(dag.Nodes, node)
		for _, q := range wires {
			lastGateOnQubit[q] = i
		}
	}

	return dag
}

// Schedule assigns every node the earliest step after all its dependencies
// and returns the number of steps (the circuit depth).
func (dag *CircuitDAG) Schedule() int {
	depth := 0
	// Nodes are created in program order, so dependencies always precede.
	for _, node := range dag.Nodes {
		step := 0
		for _, dep := range node.Dependencies {
			step = max(step, dag.Nodes[dep].Gate.Step+1)
		}
		node.Gate.Step = step
		depth = max(depth, step+1)
	}
	return depth
}

// GetNodesAtStep returns all nodes at a specific step.
func (dag *CircuitDAG) GetNodesAtStep(step int) []*DAGNode {
	var result []*DAGNode
	for _, node := range dag.Nodes {
		if node.Gate.Step == step {
			result = append(result, node)
		}
	}
	return result
}

// GetNodesOnQubit returns all nodes that reference a specific qubit.
func (dag *CircuitDAG) GetNodesOnQubit(qubit int) []*DAGNode {
	var result []*DAGNode
	for _, node := range dag.Nodes {
		if slices.Contains(node.Gate.Qubits, qubit) {
			result = append(result, node)
		}
	}
	return result
}

// Schedule returns a copy of c whose gates carry their layer in Step, and the
// number of layers.
func (c *Circuit) Schedule() (*Circuit, int) {
	dag := NewDAG(c)
	depth := dag.Schedule()
	out := &Circuit{Name: c.Name, NumQubits: c.NumQubits, Registers: slices.Clone(c.Registers)}
	for _, node := range dag.Nodes {
		out.Gates = append(out.Gates, node.Gate)
	}
	return out, depth
}

// Depth returns the number of layers of the flattened circuit.
func (c *Circuit) Depth() int {
	_, depth := c.Flatten().Schedule()
	return depth
}

// GateAt returns the gate occupying (step, qubit) in a scheduled circuit. A
// multi-qubit gate occupies every qubit between its lowest and highest one.
func (c *Circuit) GateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step != step || len(g.Qubits) == 0 {
			continue
		}
		lo, hi := slices.Min(g.Qubits), slices.Max(g.Qubits)
		if qubit >= lo && qubit <= hi {
			return g
		}
	}
	return nil
}

func span(qubits []int) []int {
	if len(qubits) == 0 {
		return nil
	}
	lo, hi := slices.Min(qubits), slices.Max(qubits)
	wires := make([]int, 0, hi-lo+1)
	for q := lo; q <= hi; q++ {
		wires = append(wires, q)
	}
	return wires
}
