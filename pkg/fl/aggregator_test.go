package fl_test

import (
	"testing"

	"github.com/absmach/flotilla/pkg/fl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateNoUpdates(t *testing.T) {
	_, err := fl.NewFedAvgAggregator().Aggregate(nil)
	assert.ErrorIs(t, err, fl.ErrNoUpdates)
}

func TestAggregateEqualWeightsIsMean(t *testing.T) {
	updates := []fl.ClientUpdate{
		{ClientID: "c1", Parameters: []float64{1, 2, 3}, NumSamples: 5},
		{ClientID: "c2", Parameters: []float64{3, 4, 5}, NumSamples: 5},
	}

	got, err := fl.NewFedAvgAggregator().Aggregate(updates)
	require.NoError(t, err)

	want := []float64{2, 3, 4}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestAggregateWeightsBySamples(t *testing.T) {
	updates := []fl.ClientUpdate{
		{ClientID: "c1", Parameters: []float64{0, 0}, NumSamples: 1},
		{ClientID: "c2", Parameters: []float64{4, 8}, NumSamples: 3},
	}

	got, err := fl.NewFedAvgAggregator().Aggregate(updates)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got[0], 1e-9)
	assert.InDelta(t, 6.0, got[1], 1e-9)
}

func TestAggregateOrderInvariant(t *testing.T) {
	updates := []fl.ClientUpdate{
		{ClientID: "c1", Parameters: []float64{0.11, -0.42, 1.57}, NumSamples: 10},
		{ClientID: "c2", Parameters: []float64{-3.04, 0.99, 0.01}, NumSamples: 3},
		{ClientID: "c3", Parameters: []float64{1.11, 2.22, -3.33}, NumSamples: 7},
	}
	reversed := []fl.ClientUpdate{updates[2], updates[1], updates[0]}

	agg := fl.NewFedAvgAggregator()
	first, err := agg.Aggregate(updates)
	require.NoError(t, err)
	second, err := agg.Aggregate(reversed)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.InDelta(t, first[i], second[i], 1e-9)
	}
}

func TestAggregateSingleUpdateIsIdentity(t *testing.T) {
	params := []float64{0.25, -1.75, 0.5, 3.125}
	got, err := fl.NewFedAvgAggregator().Aggregate([]fl.ClientUpdate{
		{ClientID: "c1", Parameters: params, NumSamples: 30},
	})
	require.NoError(t, err)

	for i := range params {
		assert.InDelta(t, params[i], got[i], 1e-9)
	}
}

func TestAggregateDimensionMismatch(t *testing.T) {
	updates := []fl.ClientUpdate{
		{ClientID: "c1", Parameters: []float64{1, 2}, NumSamples: 1},
		{ClientID: "c2", Parameters: []float64{1, 2, 3}, NumSamples: 1},
	}

	_, err := fl.NewFedAvgAggregator().Aggregate(updates)
	assert.ErrorIs(t, err, fl.ErrDimensionMismatch)
}

func TestAggregateZeroSamples(t *testing.T) {
	updates := []fl.ClientUpdate{
		{ClientID: "c1", Parameters: []float64{1, 2}, NumSamples: 0},
	}

	_, err := fl.NewFedAvgAggregator().Aggregate(updates)
	assert.ErrorIs(t, err, fl.ErrNoSamples)
}

func TestClientUpdateValidate(t *testing.T) {
	cases := []struct {
		desc   string
		update fl.ClientUpdate
		err    error
	}{
		{
			desc:   "valid",
			update: fl.ClientUpdate{ClientID: "c1", RoundNumber: 1, Parameters: []float64{1}, NumSamples: 4},
		},
		{
			desc:   "missing client id",
			update: fl.ClientUpdate{Parameters: []float64{1}, NumSamples: 4},
			err:    fl.ErrMissingClientID,
		},
		{
			desc:   "no parameters",
			update: fl.ClientUpdate{ClientID: "c1", NumSamples: 4},
			err:    fl.ErrNoParameters,
		},
		{
			desc:   "no samples",
			update: fl.ClientUpdate{ClientID: "c1", Parameters: []float64{1}},
			err:    fl.ErrNoSamples,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.update.Validate()
			if tc.err == nil {
				assert.NoError(t, err)

				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
