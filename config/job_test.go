package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsim/circuit"
	"hlsim/trotter"
)

func TestParseAppliesDefaults(t *testing.T) {
	j, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, ModelXXZ, j.Model)
	assert.Equal(t, 3, j.Qubits)
	assert.Equal(t, 1.0, *j.Coupling)
	assert.Equal(t, 1.0, *j.Time)
	assert.Equal(t, 10, j.Steps)
	assert.Equal(t, 2, j.Order)
	assert.Nil(t, j.Dissipation)
	assert.NoError(t, j.Validate())
}

func TestParseKeepsExplicitZeroes(t *testing.T) {
	j, err := Parse([]byte("model: tfim\ncoupling: 0\ntime: 0\ndissipation:\n  epsilon: 0.2\n"))
	require.NoError(t, err)

	assert.Equal(t, ModelTFIM, j.Model)
	assert.Equal(t, 0.0, *j.Coupling)
	assert.Equal(t, 0.0, *j.Time)
	require.NotNil(t, j.Dissipation)
	assert.Equal(t, 0.2, j.Dissipation.Epsilon)
	assert.Equal(t, StrategyAnalytic, j.Dissipation.Strategy)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("modle: xxz\n"))
	assert.ErrorIs(t, err, trotter.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	base, err := Parse(nil)
	require.NoError(t, err)

	cases := map[string]func(j *Job){
		"unknown model":    func(j *Job) { j.Model = "hubbard" },
		"short chain":      func(j *Job) { j.Qubits = 1 },
		"no steps":         func(j *Job) { j.Steps = -1 },
		"third order":      func(j *Job) { j.Order = 3 },
		"negative epsilon": func(j *Job) { j.Dissipation = &Dissipation{Epsilon: -1, Strategy: StrategyAnalytic} },
		"unknown strategy": func(j *Job) { j.Dissipation = &Dissipation{Epsilon: 1, Strategy: "magic"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			j := base
			mutate(&j)
			assert.ErrorIs(t, j.Validate(), trotter.ErrConfiguration)
		})
	}
}

func TestBuildHamiltonianJob(t *testing.T) {
	j, err := Parse([]byte("qubits: 4\nsteps: 3\norder: 1\n"))
	require.NoError(t, err)

	c, err := j.Build()
	require.NoError(t, err)
	assert.Equal(t, "Time evolution", c.Name)
	assert.Equal(t, 4, c.NumQubits)
	assert.Len(t, c.Gates, 3)
	// 3 bonds, 3 terms each.
	assert.Equal(t, 3*9, c.Stats()[circuit.TypePauliExp])
}

func TestBuildLindbladJob(t *testing.T) {
	for _, strategy := range []string{StrategyAnalytic, StrategyGeneral} {
		t.Run(strategy, func(t *testing.T) {
			j, err := Parse([]byte("steps: 2\ndissipation:\n  epsilon: 0.1\n  strategy: " + strategy + "\n"))
			require.NoError(t, err)

			s, err := j.Strategy()
			require.NoError(t, err)
			assert.Equal(t, strategy, s.Name())

			c, err := j.Build()
			require.NoError(t, err)
			assert.Equal(t, "Lindblad simulation", c.Name)
			assert.Equal(t, 5, c.NumQubits)
			assert.Equal(t, 4, c.Stats()[circuit.TypeReset])
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: tfim\nqubits: 2\n"), 0o644))

	j, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModelTFIM, j.Model)
	assert.Equal(t, 2, j.Qubits)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
