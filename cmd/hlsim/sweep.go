package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hlsim/circuit"
	"hlsim/exact"
	"hlsim/pauli"
	"hlsim/trotter"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare Trotter circuits against exact evolution",
	Long: `Synthesizes the Hamiltonian evolution for several step counts in parallel and
reports the operator-norm distance of each circuit from exp(-iTH).`,
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
		job.Dissipation = nil
		if err := job.Validate(); err != nil {
			return err
		}
		if job.Qubits > exact.MaxQubits {
			return errors.Wrapf(trotter.ErrConfiguration, "sweep supports at most %d qubits", exact.MaxQubits)
		}
		h, err := job.Hamiltonian()
		if err != nil {
			return err
		}

		steps, _ := cmd.Flags().GetIntSlice("step-counts")
		parallel, _ := cmd.Flags().GetInt("parallel")
		order := trotter.Order(job.Order)

		target, err := exact.Evolve(h, pauli.Qubits(job.Qubits), *job.Time)
		if err != nil {
			return err
		}
		synth := func(n int) (*circuit.Circuit, error) {
			box, err := trotter.Trotterization(order, h, job.Qubits, *job.Time, n)
			if err != nil {
				return nil, err
			}
			return box.Circuit, nil
		}

		logger.Debug("sweep",
			zap.String("model", job.Model),
			zap.Stringer("order", order),
			zap.Ints("steps", steps),
			zap.Int("parallel", parallel),
		)
		points, err := exact.Sweep(cmd.Context(), target, steps, parallel, synth)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "steps\tdepth\tdistance\tratio\n")
		for i, p := range points {
			ratio := "-"
			if i > 0 && points[i-1].Distance > 0 {
				ratio = fmt.Sprintf("%.3f", p.Distance/points[i-1].Distance)
			}
			fmt.Fprintf(tw, "%d\t%d\t%.3e\t%s\n", p.Steps, p.Depth, p.Distance, ratio)
		}
		return tw.Flush()
	},
}

func init() {
	addJobFlags(sweepCmd)
	sweepCmd.Flags().IntSlice("step-counts", []int{1, 2, 4, 8, 16, 32}, "Trotter step counts to compare")
	sweepCmd.Flags().Int("parallel", 0, "Maximum concurrent syntheses (0 = unbounded)")
	rootCmd.AddCommand(sweepCmd)
}
