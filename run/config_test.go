package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var c Config
	require.NoError(t, c.Validate())

	assert.Equal(t, uint64(5), c.TotalRounds)
	assert.Equal(t, uint64(2), c.MinFitClients)
	assert.Equal(t, 1.0, c.SelectionFraction)
	assert.Equal(t, uint64(1), c.LocalEpochs)
	assert.Equal(t, 0.01, c.LearningRate)
	assert.Equal(t, uint64(9), c.ParameterDim)
	assert.Equal(t, 30*time.Second, c.RegistrationTimeout)
	assert.Equal(t, 30*time.Second, c.RoundTimeout)
	assert.Equal(t, uint64(0), c.MaxRetries)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		desc string
		cfg  Config
		err  string
	}{
		{
			desc: "valid",
			cfg:  DefaultConfig(),
		},
		{
			desc: "fraction above one",
			cfg:  Config{SelectionFraction: 1.5},
			err:  "selection_fraction",
		},
		{
			desc: "negative fraction",
			cfg:  Config{SelectionFraction: -0.3},
			err:  "selection_fraction",
		},
		{
			desc: "negative learning rate",
			cfg:  Config{LearningRate: -0.01},
			err:  "learning_rate",
		},
		{
			desc: "negative round timeout",
			cfg:  Config{RoundTimeout: -time.Second},
			err:  "timeouts",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.err == "" {
				assert.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestConfigInitialParametersFixDim(t *testing.T) {
	c := Config{InitialParameters: []float64{0.1, 0.2, 0.3}, ParameterDim: 9}
	require.NoError(t, c.Validate())
	assert.Equal(t, uint64(3), c.ParameterDim)
}
