package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hlsim/circuit"
	"hlsim/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse a circuit in the terminal",
	Long: `Opens an interactive viewer on the synthesized job circuit, or on a QASM
file given with --qasm. Ctrl+S saves the QASM export to --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := viewedCircuit(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = "circuit.qasm"
		}

		p := tea.NewProgram(tui.New(c, out), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return errors.Wrap(err, "run viewer")
		}
		return nil
	},
}

func viewedCircuit(cmd *cobra.Command) (*circuit.Circuit, error) {
	if path, _ := cmd.Flags().GetString("qasm"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read qasm")
		}
		return circuit.ParseQASM(string(data))
	}
	job, err := loadJob(cmd)
	if err != nil {
		return nil, err
	}
	return job.Build()
}

func init() {
	addJobFlags(viewCmd)
	addDissipationFlags(viewCmd)
	viewCmd.Flags().String("qasm", "", "Open this QASM file instead of synthesizing")
	rootCmd.AddCommand(viewCmd)
}
