package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hlsim/circuit"
	"hlsim/exact"
	"hlsim/sim"
	"hlsim/trotter"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the synthesized circuit on a basis state",
	Long: `Evolves a computational basis state through the job circuit and prints the
excited-state population of every system qubit after each top-level block,
together with the purity of the reduced system state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		job, err := loadJob(cmd)
		if err != nil {
			return err
		}
		c, err := job.Build(trotter.WithLogger(logger))
		if err != nil {
			return err
		}
		if c.NumQubits > exact.MaxQubits {
			return errors.Wrapf(trotter.ErrConfiguration, "simulate supports at most %d qubits, circuit has %d",
				exact.MaxQubits, c.NumQubits)
		}

		system := systemQubits(c)
		initial, _ := cmd.Flags().GetString("initial")
		index, err := basisIndex(initial, system)
		if err != nil {
			return err
		}

		logger.Debug("simulate",
			zap.String("circuit", c.Name),
			zap.Int("qubits", c.NumQubits),
			zap.Ints("system", system),
			zap.Int("initial", index),
		)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		header := []string{"#", "block", "purity"}
		for _, q := range system {
			header = append(header, c.QubitName(q))
		}
		fmt.Fprintln(tw, strings.Join(header, "\t"))

		if job.Dissipation == nil {
			err = simulatePure(tw, c, system, index)
		} else {
			err = simulateMixed(tw, c, system, index)
		}
		if err != nil {
			return err
		}
		return tw.Flush()
	},
}

// systemQubits returns the qubits of the "system" register, or every qubit
// when the circuit has none.
func systemQubits(c *circuit.Circuit) []int {
	if r, ok := c.Register(trotter.SystemRegister); ok {
		return r.Qubits()
	}
	qs := make([]int, c.NumQubits)
	for i := range qs {
		qs[i] = i
	}
	return qs
}

// basisIndex reads a bit string over the system qubits, system qubit i first.
// An empty string is the all-zero state.
func basisIndex(bits string, system []int) (int, error) {
	if bits == "" {
		return 0, nil
	}
	if len(bits) != len(system) {
		return 0, errors.Wrapf(trotter.ErrConfiguration,
			"initial state %q needs %d bits", bits, len(system))
	}
	index := 0
	for i, b := range bits {
		switch b {
		case '0':
		case '1':
			index |= 1 << system[i]
		default:
			return 0, errors.Wrapf(trotter.ErrConfiguration, "initial state %q: bad bit %q", bits, b)
		}
	}
	return index, nil
}

func blockName(g circuit.Gate) string {
	if g.Type == circuit.TypeBox {
		return g.Box.Name
	}
	return strings.ToLower(g.Type)
}

func writeRow(w io.Writer, i int, g circuit.Gate, purity float64, probs []sim.QubitProbability, system []int) {
	row := []string{fmt.Sprint(i), blockName(g), fmt.Sprintf("%.6f", purity)}
	for _, q := range system {
		row = append(row, fmt.Sprintf("%.6f", probs[q].Prob1))
	}
	fmt.Fprintln(w, strings.Join(row, "\t"))
}

func simulatePure(w io.Writer, c *circuit.Circuit, system []int, index int) error {
	state := sim.BasisState(c.NumQubits, index)
	for i, g := range c.Gates {
		for _, fg := range circuit.FlattenGate(g) {
			if err := state.ApplyGate(fg); err != nil {
				return errors.Wrapf(err, "gate %d", i)
			}
		}
		writeRow(w, i, g, 1, state.QubitProbabilities(), system)
	}
	return nil
}

func simulateMixed(w io.Writer, c *circuit.Circuit, system []int, index int) error {
	rho := sim.FromStateVector(sim.BasisState(c.NumQubits, index))
	return sim.RunDensity(c, rho, func(i int, g circuit.Gate, rho *sim.DensityMatrix) {
		writeRow(w, i, g, rho.PartialTrace(system).Purity(), rho.QubitProbabilities(), system)
	})
}

func init() {
	addJobFlags(simulateCmd)
	addDissipationFlags(simulateCmd)
	simulateCmd.Flags().String("initial", "", "Initial system basis state, e.g. 110 (default all zeros)")
	rootCmd.AddCommand(simulateCmd)
}
