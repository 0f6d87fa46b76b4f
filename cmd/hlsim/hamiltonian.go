package main

import (
	"github.com/spf13/cobra"

	"hlsim/trotter"
)

var hamiltonianCmd = &cobra.Command{
	Use:   "hamiltonian",
	Short: "Synthesize closed-system time evolution",
	Long:  `Builds N repetitions of a first- or second-order Trotter step of the model Hamiltonian and prints the circuit as OpenQASM.`,
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
		// Dissipation from the job file is ignored here.
		job.Dissipation = nil

		c, err := job.Build(trotter.WithLogger(logger))
		if err != nil {
			return err
		}
		return writeQASM(cmd, c, logger)
	},
}

func init() {
	addJobFlags(hamiltonianCmd)
	rootCmd.AddCommand(hamiltonianCmd)
}
