package main

import (
	"github.com/spf13/cobra"

	"hlsim/config"
	"hlsim/trotter"
)

var lindbladCmd = &cobra.Command{
	Use:   "lindblad",
	Short: "Synthesize open-system (Lindblad) evolution",
	Long: `Alternates a coherent Trotter step on the system with a dilation step on
ancilla and system qubits, resetting the ancillas after every repetition.`,
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
		if job.Dissipation == nil {
			job.Dissipation = &config.Dissipation{Strategy: config.StrategyAnalytic}
		}

		c, err := job.Build(trotter.WithLogger(logger))
		if err != nil {
			return err
		}
		return writeQASM(cmd, c, logger)
	},
}

func init() {
	addJobFlags(lindbladCmd)
	addDissipationFlags(lindbladCmd)
	rootCmd.AddCommand(lindbladCmd)
}
