package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hlsim/circuit"
	"hlsim/config"
	"hlsim/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "hlsim",
	Short: "hlsim synthesizes Trotterized circuits for open and closed quantum systems",
	Long: `hlsim builds product-formula circuits for spin-chain Hamiltonians and,
with dissipation, ancilla-dilated Lindblad evolution. Circuits are written as
OpenQASM 2.0 or browsed in a terminal viewer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML job file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("out", "o", "", "Write QASM to this file instead of stdout")
}

// addJobFlags registers the flags that override fields of the job file.
func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Model: xxz or tfim")
	cmd.Flags().Int("qubits", 0, "Number of system qubits")
	cmd.Flags().Float64("coupling", 0, "Delta_ZZ for xxz, J_ZZ for tfim")
	cmd.Flags().Float64("time", 0, "Total evolution time")
	cmd.Flags().Int("steps", 0, "Number of Trotter steps")
	cmd.Flags().Int("order", 0, "Trotter order: 1 or 2")
}

func addDissipationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("epsilon", 0, "Dissipation strength")
	cmd.Flags().String("strategy", "", "Dilation strategy: analytic or general")
}

// loadJob reads --config (or the defaults) and applies every flag the user set.
func loadJob(cmd *cobra.Command) (config.Job, error) {
	var job config.Job
	var err error
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		job, err = config.Load(path)
	} else {
		job, err = config.Parse(nil)
	}
	if err != nil {
		return config.Job{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		job.Model, _ = flags.GetString("model")
	}
	if flags.Changed("qubits") {
		job.Qubits, _ = flags.GetInt("qubits")
	}
	if flags.Changed("coupling") {
		v, _ := flags.GetFloat64("coupling")
		job.Coupling = &v
	}
	if flags.Changed("time") {
		v, _ := flags.GetFloat64("time")
		job.Time = &v
	}
	if flags.Changed("steps") {
		job.Steps, _ = flags.GetInt("steps")
	}
	if flags.Changed("order") {
		job.Order, _ = flags.GetInt("order")
	}
	if flags.Lookup("epsilon") != nil && (flags.Changed("epsilon") || flags.Changed("strategy")) {
		d := config.Dissipation{Strategy: config.StrategyAnalytic}
		if job.Dissipation != nil {
			d = *job.Dissipation
		}
		if flags.Changed("epsilon") {
			d.Epsilon, _ = flags.GetFloat64("epsilon")
		}
		if flags.Changed("strategy") {
			d.Strategy, _ = flags.GetString("strategy")
		}
		job.Dissipation = &d
	}
	return job, nil
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	return logging.New(debug)
}

// writeQASM writes the circuit to --out, or to the command's stdout.
func writeQASM(cmd *cobra.Command, c *circuit.Circuit, logger *zap.Logger) error {
	var w io.Writer = cmd.OutOrStdout()
	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, c.ToQASM()); err != nil {
		return errors.Wrap(err, "write qasm")
	}

	stats := c.Stats()
	fields := []zap.Field{
		zap.String("circuit", c.Name),
		zap.Int("qubits", c.NumQubits),
		zap.Int("depth", c.Depth()),
	}
	for _, k := range circuit.StatsKeys(stats) {
		fields = append(fields, zap.Int(k, stats[k]))
	}
	if out != "" {
		fields = append(fields, zap.String("out", out))
	}
	logger.Info("circuit synthesized", fields...)
	return nil
}
