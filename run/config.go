package run

import (
	"errors"
	"time"
)

// Config carries the hyperparameters of a single federated run.
type Config struct {
	ClientCount         uint64        `json:"client_count"         toml:"client_count"`
	TotalRounds         uint64        `json:"total_rounds"         toml:"total_rounds"`
	MinFitClients       uint64        `json:"min_fit_clients"      toml:"min_fit_clients"`
	SelectionFraction   float64       `json:"selection_fraction"   toml:"selection_fraction"`
	LocalEpochs         uint64        `json:"local_epochs"         toml:"local_epochs"`
	LearningRate        float64       `json:"learning_rate"        toml:"learning_rate"`
	ParameterDim        uint64        `json:"parameter_dim"        toml:"parameter_dim"`
	InitialParameters   []float64     `json:"initial_parameters,omitempty" toml:"initial_parameters"`
	RegistrationTimeout time.Duration `json:"registration_timeout" toml:"registration_timeout"`
	RoundTimeout        time.Duration `json:"round_timeout"        toml:"round_timeout"`
	MaxRetries          uint64        `json:"max_retries"          toml:"max_retries"`
}

// DefaultConfig returns the hyperparameters used when a run is started
// without any. ClientCount only applies to simulated runs.
func DefaultConfig() Config {
	return Config{
		ClientCount:         3,
		TotalRounds:         5,
		MinFitClients:       2,
		SelectionFraction:   1.0,
		LocalEpochs:         1,
		LearningRate:        0.01,
		ParameterDim:        9,
		RegistrationTimeout: 30 * time.Second,
		RoundTimeout:        30 * time.Second,
		MaxRetries:          2,
	}
}

// Validate fills defaulted fields left at their zero value and rejects
// out-of-range hyperparameters. MaxRetries is left untouched since zero
// retries is a valid setting.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.TotalRounds == 0 {
		c.TotalRounds = d.TotalRounds
	}
	if c.MinFitClients == 0 {
		c.MinFitClients = d.MinFitClients
	}
	if c.SelectionFraction == 0 {
		c.SelectionFraction = d.SelectionFraction
	}
	if c.LocalEpochs == 0 {
		c.LocalEpochs = d.LocalEpochs
	}
	if c.LearningRate == 0 {
		c.LearningRate = d.LearningRate
	}
	if c.RegistrationTimeout == 0 {
		c.RegistrationTimeout = d.RegistrationTimeout
	}
	if c.RoundTimeout == 0 {
		c.RoundTimeout = d.RoundTimeout
	}

	if len(c.InitialParameters) > 0 {
		c.ParameterDim = uint64(len(c.InitialParameters))
	} else if c.ParameterDim == 0 {
		c.ParameterDim = d.ParameterDim
	}

	if c.SelectionFraction < 0 || c.SelectionFraction > 1 {
		return errors.New("selection_fraction must be in (0, 1]")
	}
	if c.LearningRate < 0 {
		return errors.New("learning_rate must be positive")
	}
	if c.RegistrationTimeout < 0 || c.RoundTimeout < 0 {
		return errors.New("timeouts must be positive")
	}

	return nil
}
