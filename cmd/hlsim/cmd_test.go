package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsim/circuit"
	"hlsim/trotter"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestBasisIndex(t *testing.T) {
	system := []int{2, 3, 4}

	idx, err := basisIndex("", system)
	require.NoError(t, err)
	assert.Zero(t, idx)

	idx, err = basisIndex("101", system)
	require.NoError(t, err)
	assert.Equal(t, 1<<2|1<<4, idx)

	_, err = basisIndex("10", system)
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
	_, err = basisIndex("1x1", system)
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
}

func TestSystemQubits(t *testing.T) {
	c := circuit.New("lindblad", 0)
	c.AddRegister(trotter.AncillaRegister, 2)
	c.AddRegister(trotter.SystemRegister, 3)
	assert.Equal(t, []int{2, 3, 4}, systemQubits(c))

	assert.Equal(t, []int{0, 1, 2}, systemQubits(circuit.New("closed", 3)))
}

func TestHamiltonianCommandWritesQASM(t *testing.T) {
	out := execute(t, "hamiltonian", "--qubits", "2", "--steps", "2", "--order", "1")

	assert.True(t, strings.HasPrefix(out, "OPENQASM 2.0;\n"))
	assert.Contains(t, out, "// Time evolution\n")
	assert.Contains(t, out, "qreg q[2];\n")
	assert.NotContains(t, out, "reset")
}

func TestLindbladCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lindblad.qasm")
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("out", "") })
	out := execute(t, "lindblad", "--qubits", "2", "--steps", "3", "--epsilon", "0.2", "--out", path)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	c, err := circuit.ParseQASM(string(data))
	require.NoError(t, err)
	assert.Equal(t, 4, c.NumQubits)
	// Two ancillas reset after each of the three repetitions.
	assert.Equal(t, 6, c.Stats()[circuit.TypeReset])
}

func TestSimulateCommandReportsEachBlock(t *testing.T) {
	out := execute(t, "simulate", "--qubits", "2", "--steps", "2", "--epsilon", "0.5", "--initial", "11")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "system[0]")
	assert.Contains(t, lines[0], "system[1]")
	assert.Contains(t, lines[1], "Time evolution")
	assert.Contains(t, lines[2], "Dissipator Trotterization")
}

func TestSweepCommandPrintsTable(t *testing.T) {
	out := execute(t, "sweep", "--qubits", "2", "--step-counts", "1,4", "--parallel", "2")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "steps"))
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
	assert.True(t, strings.HasPrefix(lines[2], "4 "))
}
