// Package config describes a synthesis job as a YAML document.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"hlsim/circuit"
	"hlsim/models"
	"hlsim/pauli"
	"hlsim/trotter"
)

const (
	ModelXXZ  = "xxz"
	ModelTFIM = "tfim"

	StrategyAnalytic = "analytic"
	StrategyGeneral  = "general"
)

const (
	defaultModel    = ModelXXZ
	defaultQubits   = 3
	defaultCoupling = 1.0
	defaultTime     = 1.0
	defaultSteps    = 10
	defaultOrder    = 2
)

// Job is one circuit to synthesize.
type Job struct {
	// xxz or tfim
	Model  string `yaml:"model"`
	Qubits int    `yaml:"qubits"`
	// Delta_ZZ for xxz, J_ZZ for tfim
	Coupling *float64 `yaml:"coupling"`
	Time     *float64 `yaml:"time"`
	Steps    int      `yaml:"steps"`
	Order    int      `yaml:"order"`
	// Optional. When set the job is a Lindblad simulation.
	Dissipation *Dissipation `yaml:"dissipation,omitempty"`
}

type Dissipation struct {
	Epsilon  float64 `yaml:"epsilon"`
	Strategy string  `yaml:"strategy"`
}

func ptr(v float64) *float64 { return &v }

// WithDefaults returns a copy of the Job with any missing fields set to their
// default values.
func (j Job) WithDefaults() Job {
	cpy := j
	if cpy.Model == "" {
		cpy.Model = defaultModel
	}
	if cpy.Qubits == 0 {
		cpy.Qubits = defaultQubits
	}
	if cpy.Coupling == nil {
		cpy.Coupling = ptr(defaultCoupling)
	}
	if cpy.Time == nil {
		cpy.Time = ptr(defaultTime)
	}
	if cpy.Steps == 0 {
		cpy.Steps = defaultSteps
	}
	if cpy.Order == 0 {
		cpy.Order = defaultOrder
	}
	if cpy.Dissipation != nil {
		d := *cpy.Dissipation
		if d.Strategy == "" {
			d.Strategy = StrategyAnalytic
		}
		cpy.Dissipation = &d
	}
	return cpy
}

// Parse decodes a YAML job. Unknown keys are rejected and missing fields take
// their defaults.
func Parse(data []byte) (Job, error) {
	var j Job
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&j); err != nil && !errors.Is(err, io.EOF) {
		return Job{}, errors.Wrapf(trotter.ErrConfiguration, "parse job: %v", err)
	}
	return j.WithDefaults(), nil
}

// Load reads and parses the job file at path.
func Load(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, errors.Wrap(err, "load job")
	}
	j, err := Parse(data)
	if err != nil {
		return Job{}, errors.Wrapf(err, "load job %s", path)
	}
	return j, nil
}

// Validate checks a defaulted job.
func (j Job) Validate() error {
	switch j.Model {
	case ModelXXZ:
		if j.Qubits < 2 {
			return errors.Wrapf(trotter.ErrConfiguration, "xxz chain needs at least 2 qubits, got %d", j.Qubits)
		}
	case ModelTFIM:
		if j.Qubits < 1 {
			return errors.Wrapf(trotter.ErrConfiguration, "tfim needs at least 1 qubit, got %d", j.Qubits)
		}
	default:
		return errors.Wrapf(trotter.ErrConfiguration, "unknown model %q", j.Model)
	}
	if j.Coupling == nil || j.Time == nil {
		return errors.Wrap(trotter.ErrConfiguration, "job has no coupling or time, call WithDefaults first")
	}
	if j.Steps < 1 {
		return errors.Wrapf(trotter.ErrConfiguration, "steps must be at least 1, got %d", j.Steps)
	}
	if _, err := trotter.ParseOrder(j.Order); err != nil {
		return err
	}
	if d := j.Dissipation; d != nil {
		if d.Epsilon < 0 {
			return errors.Wrapf(trotter.ErrConfiguration, "dissipation epsilon must be non-negative, got %v", d.Epsilon)
		}
		if d.Strategy != StrategyAnalytic && d.Strategy != StrategyGeneral {
			return errors.Wrapf(trotter.ErrConfiguration, "unknown dilation strategy %q", d.Strategy)
		}
	}
	return nil
}

// Hamiltonian returns the model operator on q[0..Qubits-1].
func (j Job) Hamiltonian() (*pauli.Operator, error) {
	switch j.Model {
	case ModelXXZ:
		return models.XXZChain(j.Qubits, *j.Coupling)
	case ModelTFIM:
		return models.TransverseFieldIsing(j.Qubits, *j.Coupling)
	default:
		return nil, errors.Wrapf(trotter.ErrConfiguration, "unknown model %q", j.Model)
	}
}

// Strategy returns the dilation strategy of a dissipative job.
func (j Job) Strategy() (trotter.DilationStrategy, error) {
	if j.Dissipation == nil {
		return nil, errors.Wrap(trotter.ErrConfiguration, "job has no dissipation")
	}
	anc, sys, err := models.AncillaAndSystemQubits(j.Qubits, models.NumDilationAncillas)
	if err != nil {
		return nil, err
	}
	jumps, err := models.DilationOperators(j.Dissipation.Epsilon, anc, sys)
	if err != nil {
		return nil, err
	}
	if j.Dissipation.Strategy == StrategyGeneral {
		return trotter.GeneralDilation{Operator: pauli.Sum(jumps...), Ancillas: anc, System: sys}, nil
	}
	return trotter.SelectDilation(jumps, anc, sys)
}

// Build validates the job and synthesizes its circuit.
func (j Job) Build(opts ...trotter.Option) (*circuit.Circuit, error) {
	if err := j.Validate(); err != nil {
		return nil, errors.Wrap(err, "build job")
	}
	h, err := j.Hamiltonian()
	if err != nil {
		return nil, errors.Wrap(err, "build job")
	}
	order := trotter.Order(j.Order)

	if j.Dissipation == nil {
		box, err := trotter.Trotterization(order, h, j.Qubits, *j.Time, j.Steps, opts...)
		if err != nil {
			return nil, errors.Wrap(err, "build job")
		}
		return box.Circuit, nil
	}

	strategy, err := j.Strategy()
	if err != nil {
		return nil, errors.Wrap(err, "build job")
	}
	c, err := trotter.LindbladSimulation(h, order, strategy, j.Qubits, *j.Time, j.Steps, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "build job")
	}
	return c, nil
}
